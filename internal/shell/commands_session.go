package shell

import "context"

// sessionAdd creates a session and switches to it. Without a name, one is
// generated.
func (s *Shell) sessionAdd(_ context.Context, args []string) {
	s.runner.Run(func() error {
		if len(args) == 0 {
			s.sessions.CreateAutoNamed()
		} else {
			name := args[0]
			if !s.sessions.Create(name) {
				return NewCommandError("Session '%s' already exists", name)
			}
		}

		s.console.WriteColorLine(White, "Switched to session '%s'", s.sessions.Current().Name())
		return nil
	}, nil)
}

func (s *Shell) sessionRemove(_ context.Context, args []string) {
	s.runner.Run(func() error {
		if len(args) != 1 {
			return NewCommandError("Usage: session-remove <name>")
		}
		name := args[0]

		if name == s.sessions.Current().Name() {
			return NewCommandError("You can't remove the session you are currently working with")
		}
		if !s.sessions.Remove(name) {
			return NewCommandError("Session '%s' does not exist", name)
		}

		s.console.WriteColorLine(White, "Removed session '%s'", name)
		return nil
	}, nil)
}

func (s *Shell) sessionSwitch(_ context.Context, args []string) {
	s.runner.Run(func() error {
		if len(args) != 1 {
			return NewCommandError("Usage: session <name>")
		}
		name := args[0]

		if name == s.sessions.Current().Name() {
			return NewCommandError("You are already on session '%s'", name)
		}
		if !s.sessions.SwitchTo(name) {
			return NewCommandError("Session '%s' does not exist", name)
		}

		s.console.WriteColorLine(White, "Switched to '%s'", name)
		return nil
	}, nil)
}

// listSessions prints all session names, the current one in green.
func (s *Shell) listSessions(_ context.Context, _ []string) {
	s.runner.Run(func() error {
		current := s.sessions.Current().Name()
		for _, name := range s.sessions.Names() {
			if name == current {
				s.console.WriteColorLine(Green, "%s", name)
			} else {
				s.console.WriteColorLine(White, "%s", name)
			}
		}
		return nil
	}, nil)
}
