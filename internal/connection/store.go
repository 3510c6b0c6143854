package connection

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store is a directory-backed collection of connection records, one flat
// key=value file per record, named after the record. Records are loaded
// eagerly and kept in memory; Reload picks up files written by other
// processes.
type Store struct {
	mu      sync.RWMutex
	dir     string
	records map[string]*Record
}

// NewStore creates the directory if needed and loads all persisted records.
// A malformed record file is a fatal load error; there is no best-effort
// partial load.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create connections dir: %w", err)
	}

	s := &Store{dir: dir}
	records, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	s.records = records
	return s, nil
}

// Add persists a new record and returns true. It returns false without side
// effects when a record with the same name already exists. The password is
// written exactly as given; pre-encrypt it.
func (s *Store) Add(rec *Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.Name]; exists {
		return false, nil
	}

	if err := s.persist(rec); err != nil {
		return false, fmt.Errorf("persist connection %q: %w", rec.Name, err)
	}
	s.records[rec.Name] = rec
	return true, nil
}

// Get returns the record with the given name, if one exists.
func (s *Store) Get(name string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[name]
	return rec, ok
}

// Names returns all record names in lexicographic order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload re-reads the directory. On error the in-memory set is left
// untouched.
func (s *Store) Reload() error {
	records, err := s.loadAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	log.Debug().Int("count", len(records)).Msg("Reloaded connections")
	return nil
}

func (s *Store) loadAll() (map[string]*Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read connections dir: %w", err)
	}

	records := make(map[string]*Record, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rec, err := s.loadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load connection %q: %w", entry.Name(), err)
		}
		records[rec.Name] = rec
	}
	return records, nil
}

// loadFile parses a single record file. The record name is the file name;
// host/port/username/password come from key=value lines.
func (s *Store) loadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec := &Record{Name: filepath.Base(path)}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("invalid line %q", line)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "host":
			rec.Host = value
		case "port":
			port, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid port %q", value)
			}
			rec.Port = port
		case "username":
			rec.Username = value
		case "password":
			rec.Password = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) persist(rec *Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "host=%s\n", rec.Host)
	fmt.Fprintf(&b, "port=%d\n", rec.Port)
	fmt.Fprintf(&b, "username=%s\n", rec.Username)
	fmt.Fprintf(&b, "password=%s\n", rec.Password)

	return os.WriteFile(filepath.Join(s.dir, rec.Name), []byte(b.String()), 0o600)
}
