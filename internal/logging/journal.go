package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nibzard/ptm-go/internal/registry"
)

const journalExt = ".jsonl"

// Journal appends one JSON line per committed registry change. It is an
// audit trail only; nothing reads it back into a registry.
type Journal struct {
	Dir   string
	RunID string
	Path  string

	mu   sync.Mutex
	file *os.File
}

// NewJournal creates baseDir if needed and opens a new <runID>.jsonl file in it.
func NewJournal(baseDir string) (*Journal, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("journal dir is empty")
	}
	dir := filepath.Clean(baseDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	id := runID()
	path := filepath.Join(dir, id+journalExt)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create journal file: %w", err)
	}

	return &Journal{
		Dir:   dir,
		RunID: id,
		Path:  path,
		file:  file,
	}, nil
}

// Observe writes the event as a single JSON line.
func (j *Journal) Observe(e registry.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal journal event: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return fmt.Errorf("journal is closed")
	}
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// JournalFile describes a journal on disk.
type JournalFile struct {
	RunID   string
	Path    string
	ModTime time.Time
	Size    int64
}

// FindJournals lists the journals in dir, newest first. A missing directory
// yields no journals.
func FindJournals(dir string) ([]JournalFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal dir: %w", err)
	}

	var files []JournalFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, journalExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, JournalFile{
			RunID:   strings.TrimSuffix(name, journalExt),
			Path:    filepath.Join(dir, name),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].RunID > files[j].RunID
	})
	return files, nil
}

// FindLatestJournal returns the path of the newest journal in dir, or "" if
// there is none.
func FindLatestJournal(dir string) (string, error) {
	files, err := FindJournals(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", nil
	}
	return files[0].Path, nil
}
