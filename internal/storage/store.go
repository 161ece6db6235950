// Package storage provides the key-value stores that hold the persisted task
// snapshot.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
	// ErrEmptyKey is returned when a caller passes an empty key.
	ErrEmptyKey = errors.New("empty key")
)

// Store is a string-keyed value store. Values are opaque bytes.
type Store interface {
	// Get returns the value for key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases the store's resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string // memory, file, sqlite or mysql
	Path    string // file path for the file and sqlite backends
	DSN     string // data source name for the mysql backend
}

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMySQL, BackendMemory}
}

// Open opens the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		s = NewMemory()
	case BackendFile, "":
		s, err = openFileStore(opts.Path)
	case BackendSQLite:
		s, err = openSQLStore(OpenSQLite(ctx, opts.Path))
	case BackendMySQL:
		s, err = openSQLStore(OpenMySQL(ctx, opts.DSN))
	default:
		return nil, fmt.Errorf("unknown store backend %q (want one of %s)",
			opts.Backend, strings.Join(Backends(), ", "))
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// openFileStore and openSQLStore keep a nil *File or *SQLStore from
// becoming a non-nil Store.
func openFileStore(path string) (Store, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func openSQLStore(s *SQLStore, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
