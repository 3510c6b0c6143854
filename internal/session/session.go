// Package session holds the in-memory session state of the shell: named
// sessions, each bound to at most one connection and at most one current
// index, plus the registry that tracks which session is active.
package session

import "github.com/thebtf/clustershell/internal/connection"

// Session is one line of work in the shell. The connection is shared by
// pointer with the connection store and never mutated through the session.
type Session struct {
	name         string
	conn         *connection.Record
	currentIndex string
}

// Name returns the session name.
func (s *Session) Name() string { return s.name }

// Connection returns the bound connection, or nil.
func (s *Session) Connection() *connection.Record { return s.conn }

// Connected reports whether a connection is bound.
func (s *Session) Connected() bool { return s.conn != nil }

// CurrentIndex returns the index the session is scoped to, or "".
func (s *Session) CurrentIndex() string { return s.currentIndex }

// HasCurrentIndex reports whether an index is selected.
func (s *Session) HasCurrentIndex() bool { return s.currentIndex != "" }

// SetConnection binds a connection (nil disconnects). An index name is only
// meaningful relative to a connection, so the current index is cleared
// whenever the connection changes.
func (s *Session) SetConnection(conn *connection.Record) {
	s.conn = conn
	s.currentIndex = ""
}

// SetCurrentIndex scopes the session to an index.
func (s *Session) SetCurrentIndex(name string) {
	s.currentIndex = name
}

// Restore reinstalls a previously captured (connection, index) pair without
// the clearing rule of SetConnection. Used by command rollback to put the
// session back exactly as it was.
func (s *Session) Restore(conn *connection.Record, currentIndex string) {
	s.conn = conn
	s.currentIndex = currentIndex
}
