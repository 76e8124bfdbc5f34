// archive/parser.go
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vinizap/notes-api/domain"
)

var ErrInvalidFrontmatter = errors.New("invalid frontmatter format")

var delimiter = []byte("---")

type frontmatter struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Completed bool      `yaml:"completed"`
	CreatedAt time.Time `yaml:"created_at"`
}

// ParseNote reads a Markdown document with a YAML frontmatter block.
func ParseNote(data []byte) (domain.Note, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !bytes.HasPrefix(data, delimiter) {
		return domain.Note{}, ErrInvalidFrontmatter
	}
	rest := data[len(delimiter):]

	// The block ends at the first line that is exactly "---".
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return domain.Note{}, ErrInvalidFrontmatter
	}
	head, body := rest[:end], rest[end+len("\n---"):]

	var fm frontmatter
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return domain.Note{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	return domain.Note{
		ID:        fm.ID,
		Title:     fm.Title,
		Content:   noteBody(body),
		Completed: fm.Completed,
		CreatedAt: fm.CreatedAt,
	}, nil
}

// noteBody undoes the framing FormatNote adds around the content: the
// newline closing the delimiter line, one blank line, one final newline.
func noteBody(body []byte) string {
	body = bytes.TrimPrefix(body, []byte("\n"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	body = bytes.TrimSuffix(body, []byte("\n"))
	return string(body)
}

// FormatNote renders n as frontmatter followed by its content.
func FormatNote(n domain.Note) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(frontmatter{
		ID:        n.ID,
		Title:     n.Title,
		Completed: n.Completed,
		CreatedAt: n.CreatedAt.UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	if n.Content != "" {
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func ReadNote(path string) (domain.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Note{}, err
	}
	return ParseNote(data)
}

// WriteNote stores n as <dir>/<id>.md.
func WriteNote(dir string, n domain.Note) (string, error) {
	data, err := FormatNote(n)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(n.ID)+".md")
	return path, os.WriteFile(path, data, 0o644)
}
