// Package main provides the clustershell binary: an interactive shell for
// administering a remote cluster service over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thebtf/clustershell/internal/client"
	"github.com/thebtf/clustershell/internal/config"
	"github.com/thebtf/clustershell/internal/connection"
	"github.com/thebtf/clustershell/internal/session"
	"github.com/thebtf/clustershell/internal/shell"
	"github.com/thebtf/clustershell/internal/watcher"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	var (
		configDir string
		debug     bool
	)

	root := &cobra.Command{
		Use:          "clustershell",
		Short:        "Interactive shell for administering a remote cluster",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(configDir, debug)
		},
	}
	root.Flags().StringVar(&configDir, "config-dir", "", "Configuration directory (default: ~/.clustershell)")
	root.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints the shell version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(Version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configDir string, debug bool) error {
	// The REPL owns stdout; logs go to stderr and stay quiet unless asked
	// for.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if configDir == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		configDir = dir
	}
	if err := config.EnsureAll(configDir); err != nil {
		return err
	}

	settings, err := config.Load(configDir)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load settings, using defaults")
		settings = config.Default()
	}

	connectionsDir := config.ConnectionsDir(configDir)
	store, err := connection.NewStore(connectionsDir)
	if err != nil {
		return err
	}

	sessions := session.NewRegistry()

	var sh *shell.Shell
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:       settings.HistoryPath(configDir),
		AutoComplete:      completer(func() *shell.Shell { return sh }),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("init line editor: %w", err)
	}
	defer rl.Close()

	console := shell.NewConsole(os.Stdout, &lineReader{rl: rl})
	sh = shell.New(shell.Options{
		Console:  console,
		Sessions: sessions,
		Store:    store,
		Clients: func(conn *connection.Record) shell.ClusterClient {
			return client.New(conn, connection.Decrypt)
		},
		Encrypt:  connection.Encrypt,
		Settings: settings,
	})

	// Pick up records written by other shell instances.
	w, err := watcher.New(connectionsDir, func() {
		if err := store.Reload(); err != nil {
			log.Warn().Err(err).Msg("Failed to reload connections")
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("Connection watching unavailable")
	} else {
		if err := w.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start connection watcher")
		}
		defer w.Stop()
	}

	fmt.Printf("clustershell %s\n", Version)
	fmt.Println("Type 'help' for the available commands.")

	ctx := context.Background()
	for {
		rl.SetPrompt(sh.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		sh.Execute(ctx, input)
	}

	fmt.Println("Goodbye!")
	return nil
}

// lineReader adapts readline to the narrow interface the command layer
// consumes for interactive confirmations.
type lineReader struct {
	rl *readline.Instance
}

func (r *lineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

// completer builds the tab completer: command names plus dynamic connection
// and session names. The shell is resolved lazily because readline is
// constructed before it.
func completer(sh func() *shell.Shell) *readline.PrefixCompleter {
	connectionNames := readline.PcItemDynamic(func(string) []string {
		return sh().ConnectionNames()
	})
	sessionNames := readline.PcItemDynamic(func(string) []string {
		return sh().SessionNames()
	})

	return readline.NewPrefixCompleter(
		readline.PcItem("connect", connectionNames),
		readline.PcItem("connection"),
		readline.PcItem("disconnect"),
		readline.PcItem("connection-add"),
		readline.PcItem("connections"),
		readline.PcItem("session-add"),
		readline.PcItem("session-remove", sessionNames),
		readline.PcItem("session", sessionNames),
		readline.PcItem("sessions"),
		readline.PcItem("use"),
		readline.PcItem("index"),
		readline.PcItem("current-index"),
		readline.PcItem("create-index"),
		readline.PcItem("delete-index"),
		readline.PcItem("stats"),
		readline.PcItem("node"),
		readline.PcItem("health"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
}
