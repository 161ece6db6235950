package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// File keeps every key as a string member of one JSON object on disk:
//
//	{"tasks": "[{\"text\":\"buy milk\",\"completed\":false}]"}
type File struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// OpenFile returns a File store backed by path. The file is created on the
// first Set; the parent directory is created now.
func OpenFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("file store: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{path: path}, nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, false, ErrClosed
	}

	doc, err := f.read()
	if err != nil {
		return nil, false, err
	}
	if len(doc) == 0 {
		return nil, false, nil
	}
	if !gjson.ValidBytes(doc) {
		return nil, false, fmt.Errorf("file store %s: corrupt document", f.path)
	}

	res := gjson.GetBytes(doc, escapeKey(key))
	if !res.Exists() {
		return nil, false, nil
	}
	if res.Type != gjson.String {
		// Raw JSON written by hand is accepted as-is.
		return []byte(res.Raw), true, nil
	}
	return []byte(res.Str), true, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	doc, err := f.read()
	if err != nil {
		return err
	}
	if len(doc) == 0 || !gjson.ValidBytes(doc) || !gjson.ParseBytes(doc).IsObject() {
		doc = []byte("{}")
	}

	updated, err := sjson.SetBytes(doc, escapeKey(key), string(value))
	if err != nil {
		return fmt.Errorf("file store: set %q: %w", key, err)
	}
	return writeFileAtomic(f.path, updated)
}

func (f *File) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *File) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	return data, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// escapeKey makes key a literal gjson/sjson path. A leading ':' is escaped
// too; sjson reads it as "force an object key" but gjson does not.
func escapeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		case ':':
			if i == 0 {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
