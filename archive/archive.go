// archive/archive.go
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/vinizap/notes-api/domain"
)

type Lister interface {
	List(ctx context.Context) ([]domain.Note, error)
}

type Creator interface {
	Create(ctx context.Context, note domain.Note) (string, error)
}

// Export writes every note to dir, one Markdown file per note.
func Export(ctx context.Context, src Lister, dir string, log zerolog.Logger) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	notes, err := src.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list notes: %w", err)
	}
	for _, n := range notes {
		path, err := WriteNote(dir, n)
		if err != nil {
			return 0, fmt.Errorf("write note %s: %w", n.ID, err)
		}
		log.Debug().Str("id", n.ID).Str("path", path).Msg("exported note")
	}
	return len(notes), nil
}

// Import creates a note for each Markdown file under dir. Files that do
// not parse or lack a title are skipped. The store assigns fresh ids.
func Import(ctx context.Context, dst Creator, dir string, log zerolog.Logger) (int, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.md")
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}

	imported := 0
	for _, rel := range matches {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		n, err := ReadNote(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping note")
			continue
		}
		if strings.TrimSpace(n.Title) == "" {
			log.Warn().Str("path", path).Msg("skipping note without title")
			continue
		}

		prevID := n.ID
		n.ID = ""
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now().UTC()
		}
		id, err := dst.Create(ctx, n)
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", path, err)
		}
		log.Debug().Str("path", path).Str("from", prevID).Str("id", id).Msg("imported note")
		imported++
	}
	return imported, nil
}
