// store/store.go
package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vinizap/notes-api/domain"
)

// Collection is the name of the table or collection holding notes.
const Collection = "notes"

// Store is a note persistence backend. Implementations return
// domain.ErrNotFound when an id matches nothing.
type Store interface {
	List(ctx context.Context) ([]domain.Note, error)
	Get(ctx context.Context, id string) (domain.Note, error)
	Create(ctx context.Context, note domain.Note) (string, error)
	Update(ctx context.Context, id string, patch domain.NotePatch) error
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

type Backend string

const (
	BackendMongo    Backend = "mongodb"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// BackendFor picks the backend from the connection string scheme.
func BackendFor(connStr string) (Backend, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", fmt.Errorf("parse connection string: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "memory":
		return BackendMemory, nil
	case "":
		return "", fmt.Errorf("connection string has no scheme")
	default:
		return "", fmt.Errorf("unsupported connection scheme %q", u.Scheme)
	}
}

func open(ctx context.Context, connStr, database string) (Store, error) {
	backend, err := BackendFor(connStr)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendMongo:
		s, err := OpenMongo(ctx, connStr, database)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		s, err := OpenPostgres(ctx, connStr)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return NewMemory(), nil
	}
}
