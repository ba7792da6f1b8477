package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/logger"
	"github.com/dmitrymomot/docval/pkg/validator"
)

// DirConfig configures a directory-backed store.
type DirConfig struct {
	Dir      string        `env:"RULESETS_DIR"`
	Debounce time.Duration `env:"RULESETS_WATCH_DEBOUNCE" envDefault:"250ms"`
}

var extensions = map[document.Format]string{
	document.FormatJSON: ".json",
	document.FormatYAML: ".yaml",
}

// DirOption configures a DirStore.
type DirOption func(*DirStore)

func WithDirLogger(l *slog.Logger) DirOption {
	return func(s *DirStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReloadHook is called after every reload with the names whose content
// changed, appeared or disappeared.
func WithReloadHook(fn func(changed []string)) DirOption {
	return func(s *DirStore) { s.onReload = fn }
}

// WithDirValidatorOptions sets the options used to check that loaded files
// compile, such as a registry holding custom rules.
func WithDirValidatorOptions(opts ...validator.Option) DirOption {
	return func(s *DirStore) { s.compileOpts = opts }
}

// DirStore serves the *.json, *.yaml and *.yml files of one directory, each
// file holding one rule set named after the file. Files are read into memory
// on Reload; Put and Delete write through to disk.
type DirStore struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	onReload func(changed []string)

	compileOpts []validator.Option

	mu   sync.RWMutex
	sets map[string]*Ruleset
	// files maps names to the file they were loaded from.
	files map[string]string
}

// OpenDir loads every rule set file in cfg.Dir. Files that fail to parse are
// logged and skipped.
func OpenDir(cfg DirConfig, opts ...DirOption) (*DirStore, error) {
	if cfg.Dir == "" {
		return nil, errors.New("ruleset directory is not set")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("open ruleset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open ruleset directory: %s is not a directory", cfg.Dir)
	}

	s := &DirStore{
		dir:      cfg.Dir,
		debounce: cfg.Debounce,
		logger:   logger.Discard(),
		sets:     make(map[string]*Ruleset),
		files:    make(map[string]string),
	}
	if s.debounce <= 0 {
		s.debounce = 250 * time.Millisecond
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Reload(); err != nil {
		s.logger.Warn("some ruleset files were skipped", logger.Error(err))
	}
	return s, nil
}

// Reload rereads the directory and swaps in the result. It returns the
// joined errors of the files it skipped.
func (s *DirStore) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read ruleset directory: %w", err)
	}

	sets := make(map[string]*Ruleset)
	files := make(map[string]string)
	var errs []error
	for _, e := range entries {
		path := filepath.Join(s.dir, e.Name())
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !isRulesetFile(path) {
			continue
		}
		name := nameFromPath(path)
		if err := ValidateName(name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if prev, dup := files[name]; dup {
			errs = append(errs, fmt.Errorf("%s: ruleset %q already loaded from %s", path, name, prev))
			continue
		}
		rs, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := rs.Compile(s.compileOpts...); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		rs.Name = name
		sets[name] = rs
		files[name] = path
	}

	s.mu.Lock()
	changed := diff(s.sets, sets)
	s.sets, s.files = sets, files
	s.mu.Unlock()

	s.logger.Info("rulesets loaded",
		logger.Path(s.dir),
		slog.Int("count", len(sets)),
		slog.Int("changed", len(changed)),
	)
	if s.onReload != nil && len(changed) > 0 {
		s.onReload(changed)
	}
	return errors.Join(errs...)
}

func isRulesetFile(path string) bool {
	_, err := document.FormatFromPath(path)
	return err == nil
}

func diff(before, after map[string]*Ruleset) []string {
	var changed []string
	for name, rs := range after {
		if old, ok := before[name]; !ok || old.Digest() != rs.Digest() {
			changed = append(changed, name)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			changed = append(changed, name)
		}
	}
	slices.Sort(changed)
	return changed
}

func (s *DirStore) Get(_ context.Context, name string) (*Ruleset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return rs, nil
}

// Put writes rs to <dir>/<name>.<ext> and drops any file previously holding
// the same name.
func (s *DirStore) Put(_ context.Context, rs *Ruleset) error {
	if err := ValidateName(rs.Name); err != nil {
		return err
	}
	ext, ok := extensions[rs.Format]
	if !ok {
		return fmt.Errorf("%w: %q", document.ErrUnsupportedFormat, rs.Format)
	}
	path := filepath.Join(s.dir, rs.Name+ext)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFile(path, rs.Source); err != nil {
		return fmt.Errorf("put ruleset %s: %w", rs.Name, err)
	}
	if prev, ok := s.files[rs.Name]; ok && prev != path {
		if err := os.Remove(prev); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("put ruleset %s: %w", rs.Name, err)
		}
	}
	s.sets[rs.Name] = rs
	s.files[rs.Name] = path
	return nil
}

func (s *DirStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, ok := s.files[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete ruleset %s: %w", name, err)
	}
	delete(s.sets, name)
	delete(s.files, name)
	return nil
}

func (s *DirStore) List(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.sets)), nil
}

// Watch reloads the directory whenever its files change, coalescing bursts of
// events within the debounce interval. It blocks until ctx is done.
func (s *DirStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.logger.InfoContext(ctx, "watching ruleset directory", logger.Path(s.dir))

	timer := time.NewTimer(s.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !isRulesetFile(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			s.logger.DebugContext(ctx, "ruleset file changed", logger.Path(ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			s.logger.WarnContext(ctx, "ruleset watcher error", logger.Error(err))
		case <-timer.C:
			if err := s.Reload(); err != nil {
				s.logger.WarnContext(ctx, "ruleset reload skipped files", logger.Error(err))
			}
		}
	}
}

// writeFile replaces path atomically through a temporary file.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ruleset-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
