package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/remote"
)

// JSON-backed collection. Single file, human-readable, portable.
// Ids are handed out like a serial column: monotonically, never reused.

// DefaultFileName is used when no path is configured.
const DefaultFileName = "todos.json"

var _ remote.Collection = (*Store)(nil)

type document struct {
	NextID int64        `json:"next_id"`
	Items  []model.Item `json:"items"`
}

// Store is a remote.Collection kept in one JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store for path. The file is created on first write.
func New(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{path: path}
}

// Path reports the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) SelectAll(ctx context.Context) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	items := append([]model.Item(nil), doc.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) Insert(ctx context.Context, item model.NewItem) error {
	return s.mutate(ctx, func(doc *document) {
		doc.NextID++
		doc.Items = append(doc.Items, model.Item{
			ID:          doc.NextID,
			Name:        item.Name,
			IsCompleted: item.IsCompleted,
		})
	})
}

func (s *Store) Update(ctx context.Context, id int64, patch model.Patch) error {
	return s.mutate(ctx, func(doc *document) {
		for i := range doc.Items {
			if doc.Items[i].ID == id {
				patch.Apply(&doc.Items[i])
			}
		}
	})
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, func(doc *document) {
		out := doc.Items[:0]
		for _, it := range doc.Items {
			if it.ID != id {
				out = append(out, it)
			}
		}
		doc.Items = out
	})
}

func (s *Store) mutate(ctx context.Context, fn func(*document)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	fn(&doc)
	return s.save(doc)
}

func (s *Store) load() (document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, nil
		}
		return document{}, fmt.Errorf("read file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return document{}, fmt.Errorf("json unmarshal: %w", err)
	}
	// Hand-edited files may lack next_id.
	for _, it := range doc.Items {
		if it.ID > doc.NextID {
			doc.NextID = it.ID
		}
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	if doc.Items == nil {
		doc.Items = []model.Item{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".todos-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
