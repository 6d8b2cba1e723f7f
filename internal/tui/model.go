// Package tui is a terminal browser for Topical Guide. It hosts a page shell
// and renders the page's DOM as text; links and favorite toggles are
// numbered so they can be followed from the keyboard.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/shell"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

// Options configure the browser.
type Options struct {
	// Start is the fragment shown first. Empty shows the root view.
	Start string
	// RenderTimeout bounds how long a refresh waits for the page to settle
	// before showing it as it is.
	RenderTimeout time.Duration
}

type mode int

const (
	modeBrowse mode = iota
	modeGoto
	modeMenu
	modeHelp
)

const (
	chartHeight  = 10
	chromeHeight = 3 // title, breadcrumbs, status
)

// Model is the top-level Bubble Tea model.
type Model struct {
	shell *shell.Shell
	opts  Options
	keys  KeyMap

	width  int
	height int
	mode   mode

	body  viewport.Model
	help  viewport.Model
	input textinput.Model

	snap     shell.Snapshot
	crumbs   string
	content  string
	helpText string
	targets  []target
	next     string
	prev     string
	bars     []attributeBar

	menu       []menuEntry
	menuCursor int

	loading bool
	status  string
}

// Messages produced by the browser's commands.
type (
	snapshotMsg struct {
		snap    shell.Snapshot
		settled bool
		err     error
	}
	helpMsg struct {
		html string
		err  error
	}
	menuMsg struct {
		items []view.MenuItem
		err   error
	}
	statusMsg struct{ err error }
)

// New creates a browser for sh. The caller owns sh and closes it after the
// program exits.
func New(sh *shell.Shell, opts Options) *Model {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = model.DefaultRenderTimeout
	}
	if opts.Start == "" {
		opts.Start = "#/"
	}
	input := textinput.New()
	input.Prompt = "go to: "
	input.Placeholder = "link number or route"
	input.CharLimit = 256

	return &Model{
		shell: sh,
		opts:  opts,
		keys:  DefaultKeyMap(),
		body:  viewport.New(80, 20),
		help:  viewport.New(80, 20),
		input: input,
	}
}

// Init navigates to the start fragment.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.navigate(m.opts.Start), spinnerTick())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.loading = false
			m.status = msg.err.Error()
			return m, nil
		}
		m.setSnapshot(msg.snap)
		if !msg.settled {
			m.loading = true
			return m, m.refresh()
		}
		m.loading = false
		return m, nil

	case helpMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.setHelp(msg.html)
		m.mode = modeHelp
		return m, nil

	case menuMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.menu = flattenMenu(msg.items, 0, nil)
		m.menuCursor = nextLeaf(m.menu, -1, 1)
		m.mode = modeMenu
		return m, nil

	case statusMsg:
		m.loading = false
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, nil

	case SpinnerTickMsg:
		return m.handleSpinnerTick()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeGoto:
			return m.updateGoto(msg)
		case modeMenu:
			return m.updateMenu(msg)
		case modeHelp:
			return m.updateHelp(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		return m, m.loadHelp()
	case key.Matches(msg, m.keys.Menu):
		return m, m.loadMenu()
	case key.Matches(msg, m.keys.Goto):
		m.mode = modeGoto
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Next):
		if m.next != "" {
			return m, m.navigate(m.next)
		}
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		if m.prev != "" {
			return m, m.navigate(m.prev)
		}
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.shell.Back()
		return m, m.settle()
	case key.Matches(msg, m.keys.Forward):
		m.shell.Forward()
		return m, m.settle()
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m *Model) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.mode = modeBrowse
		m.input.Blur()
		return m, m.open(strings.TrimSpace(m.input.Value()))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Menu), key.Matches(msg, m.keys.Quit):
		m.mode = modeBrowse
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = nextLeaf(m.menu, m.menuCursor, -1)
	case key.Matches(msg, m.keys.Down):
		m.menuCursor = nextLeaf(m.menu, m.menuCursor, 1)
	case key.Matches(msg, m.keys.Enter):
		m.mode = modeBrowse
		if m.menuCursor >= 0 && m.menuCursor < len(m.menu) {
			return m, m.selectView(m.menu[m.menuCursor].path)
		}
	}
	return m, nil
}

func (m *Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeBrowse
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.help.ScrollUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.help.ScrollDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.help.HalfPageUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.help.HalfPageDown()
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

// open follows link number v, or navigates to v as a route.
func (m *Model) open(v string) tea.Cmd {
	if v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > len(m.targets) {
			m.status = fmt.Sprintf("no link %d on this page", n)
			return nil
		}
		return m.follow(m.targets[n-1])
	}
	if !strings.HasPrefix(v, "#") {
		v = "#/" + strings.TrimPrefix(v, "/")
	}
	return m.navigate(v)
}

func (m *Model) follow(t target) tea.Cmd {
	if !t.isFavorite() {
		return m.navigate(t.Href)
	}
	m.loading = true
	sh, refresh := m.shell, m.refresh()
	return func() tea.Msg {
		var err error
		if doErr := sh.Do(func(p *shell.Page) {
			_, err = p.App().Favorites.Toggle(state.Kind(t.Kind), t.ID)
		}); doErr != nil {
			err = doErr
		}
		if err != nil {
			return statusMsg{err: err}
		}
		return refresh()
	}
}

// selectView switches the view while keeping the selection.
func (m *Model) selectView(name string) tea.Cmd {
	if name == "" {
		return nil
	}
	m.loading = true
	sh, refresh := m.shell, m.refresh()
	return func() tea.Msg {
		var err error
		if doErr := sh.Do(func(p *shell.Page) {
			err = p.App().Selection.Set(state.Update{state.FieldView: name})
		}); doErr != nil {
			err = doErr
		}
		if err != nil {
			return statusMsg{err: err}
		}
		return refresh()
	}
}

func (m *Model) navigate(fragment string) tea.Cmd {
	m.shell.Navigate(fragment)
	return m.settle()
}

func (m *Model) settle() tea.Cmd {
	m.loading = true
	return m.refresh()
}

// refresh waits for the page to settle and captures it.
func (m *Model) refresh() tea.Cmd {
	sh, timeout := m.shell, m.opts.RenderTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		settled := sh.Idle(ctx) == nil
		snap, err := sh.Snapshot()
		return snapshotMsg{snap: snap, settled: settled, err: err}
	}
}

func (m *Model) loadHelp() tea.Cmd {
	sh := m.shell
	return func() tea.Msg {
		var help string
		err := sh.Do(func(p *shell.Page) { help = p.Help() })
		return helpMsg{html: help, err: err}
	}
}

func (m *Model) loadMenu() tea.Cmd {
	sh := m.shell
	return func() tea.Msg {
		var items []view.MenuItem
		err := sh.Do(func(p *shell.Page) { items = p.Menu() })
		return menuMsg{items: items, err: err}
	}
}

func (m *Model) setSnapshot(snap shell.Snapshot) {
	moved := snap.Fragment != m.snap.Fragment
	m.snap = snap

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		m.status = err.Error()
		return
	}
	var crumbs []string
	doc.Find("#" + shell.BreadcrumbsID + " li").Each(func(_ int, li *goquery.Selection) {
		if t := strings.Join(strings.Fields(li.Text()), " "); t != "" {
			crumbs = append(crumbs, t)
		}
	})
	m.crumbs = strings.Join(crumbs, " › ")

	main := doc.Find("#" + shell.MainID)
	m.content, m.targets = renderText(main)
	m.next = main.Find("a.tg-next").AttrOr("href", "")
	m.prev = main.Find("a.tg-prev").AttrOr("href", "")
	m.bars = attributeBars(main)

	m.layout()
	if moved {
		m.body.GotoTop()
	}
}

func (m *Model) setHelp(page string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		m.helpText = page
	} else {
		m.helpText, _ = renderText(doc.Find("body"))
	}
	m.layout()
	m.help.GotoTop()
}

// layout sizes the viewports to the window.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.height - chromeHeight
	if len(m.bars) > 0 && h > 2*chartHeight {
		h -= chartHeight
	}
	m.body.Width = m.width
	m.body.Height = max(h, 1)
	m.body.SetContent(wrap(m.content, m.width))

	m.help.Width = max(m.width-12, 20)
	m.help.Height = max(m.height-8, 3)
	m.help.SetContent(wrap(m.helpText, m.help.Width))
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
