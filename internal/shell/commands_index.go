package shell

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/thebtf/clustershell/internal/client"
)

// useIndex scopes the current session to an index, after verifying against
// the cluster mappings that it exists.
func (s *Shell) useIndex(ctx context.Context, args []string) {
	s.runner.Run(func() error {
		if len(args) != 1 {
			return NewCommandError("Usage: use <name>")
		}
		name := args[0]

		cl, err := s.client()
		if err != nil {
			return err
		}
		mappings, err := cl.Mappings(ctx)
		if err != nil {
			return err
		}

		indexMappings, ok := mappings[name]
		if !ok {
			return NewCommandError("No index named '%s' was found", name)
		}

		s.console.WriteColorLine(White, "Now using '%s'. Index has %d types.", name, len(indexMappings.Mappings))
		s.sessions.Current().SetCurrentIndex(name)
		return nil
	}, nil)
}

func (s *Shell) currentIndex(_ context.Context, _ []string) {
	s.runner.Run(func() error {
		s.console.WriteColorLine(White, "Currently on index '%s'", s.sessions.Current().CurrentIndex())
		return nil
	}, nil)
}

func (s *Shell) createIndex(ctx context.Context, args []string) {
	s.runner.Run(func() error {
		fs := flag.NewFlagSet("create-index", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		name := fs.String("name", "", "index name")
		shards := fs.Int("shards", s.settings.DefaultShards, "number of shards")
		replicas := fs.Int("replicas", s.settings.DefaultReplicas, "number of replicas")
		if err := fs.Parse(args); err != nil || *name == "" {
			return NewCommandError("Usage: create-index --name <name> [--shards <n>] [--replicas <n>]")
		}

		cl, err := s.client()
		if err != nil {
			return err
		}

		settings := client.IndexSettings{
			NumberOfShards:   *shards,
			NumberOfReplicas: *replicas,
		}
		acknowledged, err := cl.CreateIndex(ctx, *name, settings)
		if err != nil {
			return err
		}
		if !acknowledged {
			return NewCommandError("Could not create index '%s'", *name)
		}

		s.console.WriteColorLine(White, "Created index '%s'", *name)
		return nil
	}, nil)
}

// deleteIndex removes the session's current index, after the user confirms
// by re-typing its name.
func (s *Shell) deleteIndex(ctx context.Context, _ []string) {
	s.runner.Run(func() error {
		sess := s.sessions.Current()
		name := sess.CurrentIndex()

		answer, err := s.console.ReadLine(fmt.Sprintf("Enter the name of the index ('%s') to confirm: ", name))
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if strings.TrimSpace(answer) != name {
			return NewCommandError("Aborting")
		}

		cl, err := s.client()
		if err != nil {
			return err
		}
		acknowledged, err := cl.DeleteIndex(ctx, name)
		if err != nil {
			return err
		}
		if !acknowledged {
			return NewCommandError("Could not delete index '%s'", name)
		}

		sess.SetCurrentIndex("")
		s.console.WriteColorLine(White, "Deleted index '%s'", name)
		return nil
	}, nil)
}

func (s *Shell) indexStats(ctx context.Context, _ []string) {
	s.runner.Run(func() error {
		name := s.sessions.Current().CurrentIndex()

		cl, err := s.client()
		if err != nil {
			return err
		}
		stats, ok, err := cl.IndexStats(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			return NewCommandError("No statistics found for index '%s'", name)
		}

		s.console.WriteColorLine(White, "Documents: %d (%d deleted)", stats.Primaries.Docs.Count, stats.Primaries.Docs.Deleted)
		return nil
	}, nil)
}
