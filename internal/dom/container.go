package dom

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Container is a page region a single view renders into. Every Reset starts
// a new generation; tokens claimed in an earlier generation stop being
// valid, which is how late asynchronous results are recognized and dropped.
//
// Containers are not safe for concurrent use. Each page confines its
// containers to its event loop.
type Container struct {
	id   string
	root *html.Node
	gen  uint64

	parent    *Container
	parentGen uint64
	subs      map[string]*Container
}

// Token identifies a container generation.
type Token struct {
	c   *Container
	gen uint64
}

// NewContainer creates a detached <div id=id> container.
func NewContainer(id string) *Container {
	return &Container{id: id, root: El("div", Attrs{"id": id})}
}

// ID returns the element id of the container.
func (c *Container) ID() string { return c.id }

// Node returns the container element. Callers may attach it to a larger
// tree once; the container keeps ownership of its children.
func (c *Container) Node() *html.Node { return c.root }

// Claim returns a token for the current generation.
func (c *Container) Claim() Token { return Token{c: c, gen: c.gen} }

// Reset clears the container and starts a new generation.
func (c *Container) Reset() Token {
	removeChildren(c.root)
	c.gen++
	return c.Claim()
}

// Valid reports whether the token's generation is still current, for the
// container and every container enclosing it.
func (t Token) Valid() bool {
	return t.c != nil && t.c.gen == t.gen && t.c.attached()
}

func (c *Container) attached() bool {
	if c.parent == nil {
		return true
	}
	return c.parent.gen == c.parentGen && c.parent.attached()
}

// Replace swaps the container contents for nodes without starting a new
// generation.
func (c *Container) Replace(nodes ...*html.Node) {
	removeChildren(c.root)
	c.Append(nodes...)
}

// Append adds nodes after the current contents.
func (c *Container) Append(nodes ...*html.Node) {
	for _, n := range nodes {
		if n != nil {
			c.root.AppendChild(detach(n))
		}
	}
}

// Empty reports whether the container has no children.
func (c *Container) Empty() bool { return c.root.FirstChild == nil }

// HTML returns the serialized contents of the container.
func (c *Container) HTML() string { return RenderChildren(c.root) }

// Query returns a goquery selection rooted at the container element.
func (c *Container) Query() *goquery.Selection {
	return goquery.NewDocumentFromNode(c.root).Selection
}

// Sub returns a container wrapping the descendant element with the given id,
// creating and appending a <div> when none exists. Tokens of the sub
// container become invalid when the enclosing container is reset, and when
// a later Sub call with the same id replaces it.
func (c *Container) Sub(id string) *Container {
	n := FindByID(c.root, id)
	if n == nil {
		n = El("div", Attrs{"id": id})
		c.root.AppendChild(n)
	}
	if old, ok := c.subs[id]; ok {
		old.gen++
	}
	if c.subs == nil {
		c.subs = make(map[string]*Container)
	}
	sub := &Container{id: id, root: n, parent: c, parentGen: c.gen}
	c.subs[id] = sub
	return sub
}
