package shell

import (
	"context"

	"github.com/thebtf/clustershell/internal/session"
)

// Command is one entry of the command registry. Available, when set, is a
// plain predicate over the current session evaluated before dispatch;
// commands without one are always available.
type Command struct {
	Name      string
	Help      string
	Available func(s *session.Session) bool
	Run       func(ctx context.Context, args []string)
}

// Registry maps command names to commands, preserving registration order for
// help and completion listings.
type Registry struct {
	byName map[string]*Command
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Command)}
}

// Register adds a command. Later registrations with the same name replace
// earlier ones.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.byName[cmd.Name]; !exists {
		r.order = append(r.order, cmd.Name)
	}
	r.byName[cmd.Name] = cmd
}

// Get returns the named command.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns commands in registration order.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.byName[name])
	}
	return cmds
}

// Availability predicates shared by the commands.

func connected(s *session.Session) bool {
	return s.Connected()
}

func hasCurrentIndex(s *session.Session) bool {
	return s.Connected() && s.HasCurrentIndex()
}
