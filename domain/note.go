// domain/note.go
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("note not found")
	ErrValidation  = errors.New("validation failed")
	ErrMalformedID = errors.New("malformed note id")
)

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotePatch lists the fields a client may change on an existing note.
// Nil fields are left untouched.
type NotePatch struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// NewNote builds a pending note stamped with createdAt.
func NewNote(title, content string, createdAt time.Time) (Note, error) {
	if strings.TrimSpace(title) == "" {
		return Note{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	return Note{
		Title:     title,
		Content:   content,
		Completed: false,
		CreatedAt: createdAt,
	}, nil
}

func (p NotePatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	return nil
}

func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Completed == nil
}

// Apply merges the patch into n and returns the result.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Completed != nil {
		n.Completed = *p.Completed
	}
	return n
}
