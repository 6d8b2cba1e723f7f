package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

// Get returns the value stored under key for a session.
func (s *Store) Get(session, key string) (string, bool, error) {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT state_value FROM client_state WHERE session_id = ? AND state_key = ?`,
		session, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key for a session.
func (s *Store) Set(session, key, value string) error {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (session_id, state_key, state_value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, state_key)
		DO UPDATE SET state_value = excluded.state_value, updated_at = excluded.updated_at`,
		session, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key for a session.
func (s *Store) Delete(session, key string) error {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM client_state WHERE session_id = ? AND state_key = ?`, session, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes a session's keys starting with prefix.
func (s *Store) DeletePrefix(session, prefix string) (int64, error) {
	return s.exec(`DELETE FROM client_state WHERE session_id = ? AND starts_with(state_key, ?)`, session, prefix)
}

// DeletePrefixAll removes keys starting with prefix from every session.
func (s *Store) DeletePrefixAll(prefix string) (int64, error) {
	return s.exec(`DELETE FROM client_state WHERE starts_with(state_key, ?)`, prefix)
}

// DeleteIdleBefore removes every key of sessions not written since cutoff.
func (s *Store) DeleteIdleBefore(cutoff time.Time) (int64, error) {
	return s.exec(`
		DELETE FROM client_state WHERE session_id IN (
			SELECT session_id FROM client_state
			GROUP BY session_id
			HAVING max(updated_at) < ?
		)`, cutoff.UTC())
}

func (s *Store) exec(query string, args ...any) (int64, error) {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Keys lists a session's keys starting with prefix, sorted.
func (s *Store) Keys(session, prefix string) ([]string, error) {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT state_key FROM client_state
		WHERE session_id = ? AND starts_with(state_key, ?)
		ORDER BY state_key`, session, prefix)
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// SessionCount returns how many sessions hold state.
func (s *Store) SessionCount() (int, error) {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(DISTINCT session_id) FROM client_state`).Scan(&n)
	return n, err
}

// Session is the key-value view of one session's state.
type Session struct {
	store *Store
	id    string
}

var _ model.KVStore = (*Session)(nil)

// Session returns the state of session id.
func (s *Store) Session(id string) *Session {
	return &Session{store: s, id: id}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

func (s *Session) Get(key string) (string, bool, error) { return s.store.Get(s.id, key) }

func (s *Session) Set(key, value string) error { return s.store.Set(s.id, key, value) }

func (s *Session) Delete(key string) error { return s.store.Delete(s.id, key) }

func (s *Session) DeletePrefix(prefix string) (int64, error) {
	return s.store.DeletePrefix(s.id, prefix)
}

func (s *Session) Keys(prefix string) ([]string, error) { return s.store.Keys(s.id, prefix) }
