package shell

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/thebtf/clustershell/internal/connection"
)

// connect switches the current session to a named connection. The previous
// (connection, index) pair is captured up front; if anything after the
// switch fails - including the confirmation call - the rollback reinstalls
// it exactly, so a failed connect never leaves the session half-switched.
func (s *Shell) connect(ctx context.Context, args []string) {
	sess := s.sessions.Current()
	prevConn, prevIndex := sess.Connection(), sess.CurrentIndex()

	s.runner.Run(func() error {
		if len(args) != 1 {
			return NewCommandError("Usage: connect <name>")
		}
		name := args[0]

		conn, ok := s.store.Get(name)
		if !ok {
			return NewCommandError("Connection '%s' does not exist", name)
		}

		current := ""
		if sess.Connected() {
			current = sess.Connection().Name
		}
		if current == conn.Name {
			return NewCommandError("Already on connection '%s'", conn.Name)
		}

		sess.SetConnection(conn)

		cl, err := s.client()
		if err != nil {
			return err
		}
		info, err := cl.ClusterInfo(ctx)
		if err != nil {
			return err
		}

		s.console.WriteColorLine(White, "Connected to cluster '%s' (version %s)", info.ClusterName, info.Version.Number)
		return nil
	}, func() {
		sess.Restore(prevConn, prevIndex)
	})
}

// currentConnection displays the connection of the current session, with a
// live cluster-info call when one is set.
func (s *Shell) currentConnection(ctx context.Context, _ []string) {
	s.runner.Run(func() error {
		sess := s.sessions.Current()
		if !sess.Connected() {
			s.console.WriteColorLine(White, "No connection is set")
			return nil
		}

		cl, err := s.client()
		if err != nil {
			return err
		}
		info, err := cl.ClusterInfo(ctx)
		if err != nil {
			return err
		}

		s.console.WriteColorLine(White, "Connected to '%s' at '%s' (version %s)", info.ClusterName, sess.Connection().URL(), info.Version.Number)
		return nil
	}, nil)
}

func (s *Shell) disconnect(_ context.Context, _ []string) {
	s.runner.Run(func() error {
		sess := s.sessions.Current()
		conn := sess.Connection()
		sess.SetConnection(nil)
		s.console.WriteColorLine(White, "Disconnected from '%s'", conn.URL())
		return nil
	}, nil)
}

// connectionAdd persists a new connection record. When a username is given
// the password is read interactively and encrypted before it touches disk;
// the store itself never sees plaintext.
func (s *Shell) connectionAdd(_ context.Context, args []string) {
	s.runner.Run(func() error {
		fs := flag.NewFlagSet("connection-add", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		name := fs.String("name", "", "connection name")
		host := fs.String("host", "", "cluster host")
		port := fs.Int("port", 9200, "cluster port")
		username := fs.String("username", "", "basic auth username")
		if err := fs.Parse(args); err != nil || *name == "" || *host == "" {
			return NewCommandError("Usage: connection-add --name <name> --host <host> [--port <port>] [--username <user>]")
		}

		rec := &connection.Record{
			Name:     *name,
			Host:     *host,
			Port:     *port,
			Username: *username,
		}

		if *username != "" {
			password, err := s.console.ReadLine("Enter password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			encrypted, err := s.encrypt(*username, strings.TrimSpace(password))
			if err != nil {
				return fmt.Errorf("encrypt password: %w", err)
			}
			rec.Password = encrypted
		}

		added, err := s.store.Add(rec)
		if err != nil {
			return err
		}
		if !added {
			return NewCommandError("Connection '%s' already exists", rec.Name)
		}

		s.console.WriteColorLine(White, "Added connection '%s'", rec.Name)
		return nil
	}, nil)
}

// listConnections prints the stored connection names, the one bound to the
// current session in green.
func (s *Shell) listConnections(_ context.Context, _ []string) {
	s.runner.Run(func() error {
		current := ""
		if conn := s.sessions.Current().Connection(); conn != nil {
			current = conn.Name
		}

		for _, name := range s.store.Names() {
			if name == current {
				s.console.WriteColorLine(Green, "%s", name)
			} else {
				s.console.WriteColorLine(White, "%s", name)
			}
		}
		return nil
	}, nil)
}
