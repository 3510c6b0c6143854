package shell

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/thebtf/clustershell/internal/client"
	"github.com/thebtf/clustershell/internal/config"
	"github.com/thebtf/clustershell/internal/connection"
	"github.com/thebtf/clustershell/internal/session"
)

// ClusterClient is the fixed set of cluster operations a command can issue.
// The production implementation is client.Client; tests substitute stubs.
type ClusterClient interface {
	ClusterInfo(ctx context.Context) (*client.ClusterInfo, error)
	ClusterHealth(ctx context.Context) (*client.ClusterHealth, error)
	Mappings(ctx context.Context) (map[string]client.IndexMappings, error)
	CreateIndex(ctx context.Context, name string, settings client.IndexSettings) (bool, error)
	DeleteIndex(ctx context.Context, name string) (bool, error)
	IndexStats(ctx context.Context, name string) (*client.IndexStatsContainer, bool, error)
	NodeInfo(ctx context.Context, name string) (*client.Node, error)
}

// ClientFactory builds a ClusterClient for one connection. A fresh client is
// requested per command; nothing is cached across calls.
type ClientFactory func(conn *connection.Record) ClusterClient

// EncryptFunc encrypts a plaintext password, keyed by username.
type EncryptFunc func(username, plaintext string) (string, error)

// Options wires the shell's collaborators. All dependencies are passed in
// explicitly; the shell holds no ambient state.
type Options struct {
	Console  *Console
	Sessions *session.Registry
	Store    *connection.Store
	Clients  ClientFactory
	Encrypt  EncryptFunc
	Settings *config.Settings
}

// Shell dispatches lines read by the REPL to registered commands.
type Shell struct {
	console  *Console
	prompt   *PromptState
	runner   *Runner
	sessions *session.Registry
	store    *connection.Store
	clients  ClientFactory
	encrypt  EncryptFunc
	settings *config.Settings
	commands *Registry
}

// New creates a shell and registers the full command set.
func New(opts Options) *Shell {
	prompt := NewPromptState()
	if opts.Settings == nil {
		opts.Settings = config.Default()
	}

	s := &Shell{
		console:  opts.Console,
		prompt:   prompt,
		runner:   NewRunner(opts.Console, prompt),
		sessions: opts.Sessions,
		store:    opts.Store,
		clients:  opts.Clients,
		encrypt:  opts.Encrypt,
		settings: opts.Settings,
		commands: NewRegistry(),
	}
	s.registerCommands()
	return s
}

// PromptState exposes the success flag for the prompt renderer.
func (s *Shell) PromptState() *PromptState {
	return s.prompt
}

// Commands returns the registered commands in registration order, for help
// and tab completion.
func (s *Shell) Commands() []*Command {
	return s.commands.All()
}

// ConnectionNames returns the names in the connection store, for completion.
func (s *Shell) ConnectionNames() []string {
	return s.store.Names()
}

// SessionNames returns the registered session names, for completion.
func (s *Shell) SessionNames() []string {
	return s.sessions.Names()
}

// Execute dispatches one input line: resolve the command, check its
// availability against the current session, run it. Every outcome, including
// an unknown or unavailable command, updates the prompt state.
func (s *Shell) Execute(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	name, args := fields[0], fields[1:]
	cmd, ok := s.commands.Get(name)
	if !ok {
		s.console.WriteColorLine(Red, "Unknown command '%s'", name)
		s.prompt.Set(false)
		return
	}

	if cmd.Available != nil && !cmd.Available(s.sessions.Current()) {
		s.console.WriteColorLine(Red, "Command '%s' is not available", name)
		s.prompt.Set(false)
		return
	}

	log.Debug().Str("command", name).Strs("args", args).Msg("Executing command")
	cmd.Run(ctx, args)
}

// client returns a cluster client for the current session's connection.
func (s *Shell) client() (ClusterClient, error) {
	conn := s.sessions.Current().Connection()
	if conn == nil {
		return nil, NewCommandError("No connection is set")
	}
	return s.clients(conn), nil
}

func (s *Shell) registerCommands() {
	for _, cmd := range []*Command{
		{Name: "connect", Help: "Selects a connection for the current session", Run: s.connect},
		{Name: "connection", Help: "Displays the current connection", Run: s.currentConnection},
		{Name: "disconnect", Help: "Disconnects from the current connection", Available: connected, Run: s.disconnect},
		{Name: "connection-add", Help: "Adds a new connection", Run: s.connectionAdd},
		{Name: "connections", Help: "Lists all configured connections", Run: s.listConnections},
		{Name: "session-add", Help: "Adds a new session and switches to it", Run: s.sessionAdd},
		{Name: "session-remove", Help: "Removes a session", Run: s.sessionRemove},
		{Name: "session", Help: "Switches to another session", Run: s.sessionSwitch},
		{Name: "sessions", Help: "Lists all existing sessions", Run: s.listSessions},
		{Name: "use", Help: "Selects an index to work with", Available: connected, Run: s.useIndex},
		{Name: "index", Help: "Selects an index to work with", Available: connected, Run: s.useIndex},
		{Name: "current-index", Help: "Shows the current index", Available: hasCurrentIndex, Run: s.currentIndex},
		{Name: "create-index", Help: "Creates a new index", Available: connected, Run: s.createIndex},
		{Name: "delete-index", Help: "Deletes the current index", Available: hasCurrentIndex, Run: s.deleteIndex},
		{Name: "stats", Help: "Shows statistics of the current index", Available: hasCurrentIndex, Run: s.indexStats},
		{Name: "node", Help: "Gets information and statistics about a node in the cluster", Available: connected, Run: s.nodeInfo},
		{Name: "health", Help: "Prints the health of the cluster that is currently connected to", Available: connected, Run: s.health},
		{Name: "help", Help: "Lists the available commands", Run: s.help},
	} {
		s.commands.Register(cmd)
	}
}

func (s *Shell) help(_ context.Context, _ []string) {
	s.runner.Run(func() error {
		for _, cmd := range s.commands.All() {
			s.console.WriteLine("  %-16s %s", cmd.Name, cmd.Help)
		}
		return nil
	}, nil)
}
