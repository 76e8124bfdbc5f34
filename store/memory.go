// store/memory.go
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vinizap/notes-api/domain"
)

// Memory keeps notes in process. It backs memory:// connection strings.
type Memory struct {
	mu    sync.RWMutex
	notes map[string]domain.Note
}

func NewMemory() *Memory {
	return &Memory{notes: make(map[string]domain.Note)}
}

func (m *Memory) List(_ context.Context) ([]domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := make([]domain.Note, 0, len(m.notes))
	for _, n := range m.notes {
		notes = append(notes, n)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID > notes[j].ID
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (m *Memory) Get(_ context.Context, id string) (domain.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notes[id]
	if !ok {
		return domain.Note{}, domain.ErrNotFound
	}
	return n, nil
}

func (m *Memory) Create(_ context.Context, note domain.Note) (string, error) {
	note.ID = uuid.NewString()

	m.mu.Lock()
	m.notes[note.ID] = note
	m.mu.Unlock()
	return note.ID, nil
}

func (m *Memory) Update(_ context.Context, id string, patch domain.NotePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notes[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.notes[n.ID] = patch.Apply(n)
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *Memory) Close(context.Context) error { return nil }
