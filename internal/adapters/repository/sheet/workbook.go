package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

var ErrUnknownTable = errors.New("unknown table")

type Layout struct {
	Name   string
	Header []string
	KeyCol int
}

// Workbook is a set of named tables guarded by one lock. Writes go through
// Update, which stages copies of the tables it touches and only publishes
// them when the whole function succeeds.
type Workbook struct {
	mu     sync.RWMutex
	dir    string
	gen    uint64
	tables map[string]*Table
	rename func(oldpath, newpath string) error
}

// Open builds a workbook with the given layouts. When dir is not empty each
// table is kept in <dir>/<generation>/<name>.csv, where CURRENT names the
// committed generation. A directory without CURRENT is read from
// <dir>/<name>.csv.
func Open(dir string, layouts ...Layout) (*Workbook, error) {
	wb := &Workbook{
		dir:    dir,
		tables: make(map[string]*Table, len(layouts)),
		rename: os.Rename,
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sheet directory: %w", err)
		}
		if err := wb.readCurrent(); err != nil {
			return nil, err
		}
	}

	for _, l := range layouts {
		t := NewTable(l.Name, l.Header, l.KeyCol)
		if dir != "" {
			if err := wb.load(t); err != nil {
				return nil, err
			}
		}
		wb.tables[l.Name] = t
	}
	return wb, nil
}

type Tx struct {
	wb       *Workbook
	writable bool
	staged   map[string]*Table
}

// Table returns the named table. Inside Update the table is a private copy;
// inside View it is the live table and must not be modified.
func (tx *Tx) Table(name string) (*Table, error) {
	if t, ok := tx.staged[name]; ok {
		return t, nil
	}
	t, ok := tx.wb.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if !tx.writable {
		return t, nil
	}
	c := t.clone()
	tx.staged[name] = c
	return c, nil
}

func (wb *Workbook) View(fn func(tx *Tx) error) error {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	return fn(&Tx{wb: wb})
}

// Update runs fn with exclusive access. Changes become visible, and are
// persisted, only if fn returns nil.
func (wb *Workbook) Update(fn func(tx *Tx) error) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	tx := &Tx{wb: wb, writable: true, staged: make(map[string]*Table)}
	if err := fn(tx); err != nil {
		return err
	}

	if wb.dir != "" {
		if err := wb.save(tx.staged); err != nil {
			return err
		}
	}
	for name, t := range tx.staged {
		wb.tables[name] = t
	}
	return nil
}

const currentFile = "CURRENT"

func generationDir(gen uint64) string {
	return fmt.Sprintf("gen-%06d", gen)
}

// path is where the named table lives in the committed generation. Before the
// first commit tables are read from the top of the directory.
func (wb *Workbook) path(name string) string {
	if wb.gen == 0 {
		return filepath.Join(wb.dir, name+".csv")
	}
	return filepath.Join(wb.dir, generationDir(wb.gen), name+".csv")
}

func (wb *Workbook) readCurrent() error {
	raw, err := os.ReadFile(filepath.Join(wb.dir, currentFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", currentFile, err)
	}
	var gen uint64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(raw)), "gen-%d", &gen); err != nil {
		return fmt.Errorf("malformed %s: %q", currentFile, raw)
	}
	wb.gen = gen
	return nil
}

func (wb *Workbook) load(t *Table) error {
	f, err := os.Open(wb.path(t.name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", t.name, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", t.name, err)
	}
	if len(records) == 0 {
		return nil
	}
	if !slices.Equal(records[0], t.header) {
		return fmt.Errorf("unexpected header in %s: %v", t.name, records[0])
	}
	for _, row := range records[1:] {
		if err := t.Append(row); err != nil {
			return fmt.Errorf("failed to load %s: %w", t.name, err)
		}
	}
	return nil
}

// save writes every table, staged or not, into a new generation directory
// and then points CURRENT at it. Until that last rename the previous
// generation stays the one on record, so a failure part way leaves the disk
// as it was.
func (wb *Workbook) save(staged map[string]*Table) error {
	gen := wb.gen + 1
	genPath := filepath.Join(wb.dir, generationDir(gen))
	if err := os.RemoveAll(genPath); err != nil {
		return fmt.Errorf("failed to clear %s: %w", genPath, err)
	}
	if err := os.Mkdir(genPath, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", genPath, err)
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(genPath)
		}
	}()

	for name, t := range wb.tables {
		if s, ok := staged[name]; ok {
			t = s
		}
		if err := writeTable(filepath.Join(genPath, name+".csv"), t); err != nil {
			return err
		}
	}

	tmp := filepath.Join(wb.dir, currentFile+".tmp")
	if err := os.WriteFile(tmp, []byte(generationDir(gen)+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", currentFile, err)
	}
	if err := wb.rename(tmp, filepath.Join(wb.dir, currentFile)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit generation %d: %w", gen, err)
	}
	committed = true

	if wb.gen > 0 {
		if err := os.RemoveAll(filepath.Join(wb.dir, generationDir(wb.gen))); err != nil {
			slog.Warn("failed to remove old sheet generation", "gen", wb.gen, "error", err)
		}
	}
	wb.gen = gen
	return nil
}

func writeTable(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write(t.header)
	_ = w.WriteAll(t.rows)
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", t.name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync %s: %w", t.name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", t.name, err)
	}
	return nil
}
