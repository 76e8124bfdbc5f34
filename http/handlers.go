// http/handlers.go
package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/vinizap/notes-api/domain"
)

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createNoteResponse struct {
	InsertedID string `json:"insertedId"`
	Message    string `json:"message"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.SendString("Notes API is running")
}

func (s *Server) HandleListNotes(c *fiber.Ctx) error {
	notes, err := s.backend.Store().List(c.UserContext())
	if err != nil {
		return s.storeFailure(c, err, "Failed to fetch notes")
	}
	return c.JSON(notes)
}

func (s *Server) HandleGetNote(c *fiber.Ctx) error {
	id := c.Params("id")
	note, err := s.backend.Store().Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "note not found")
	}
	if err != nil {
		return s.storeFailure(c, err, "Failed to fetch note")
	}
	return c.JSON(note)
}

func (s *Server) HandleCreateNote(c *fiber.Ctx) error {
	var req createNoteRequest
	if err := decodeBody(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	note, err := domain.NewNote(req.Title, req.Content, s.now().UTC())
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Title is required")
	}

	id, err := s.backend.Store().Create(c.UserContext(), note)
	if err != nil {
		return s.storeFailure(c, err, "Failed to create note")
	}

	return c.Status(fiber.StatusCreated).JSON(createNoteResponse{
		InsertedID: id,
		Message:    fmt.Sprintf("A document was inserted with the _id: %s", id),
	})
}

func (s *Server) HandlePatchNote(c *fiber.Ctx) error {
	id := c.Params("id")

	var patch domain.NotePatch
	if err := decodeBody(c, &patch); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := patch.Validate(); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Title must not be empty")
	}

	err := s.backend.Store().Update(c.UserContext(), id, patch)
	if errors.Is(err, domain.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "this note does not exist")
	}
	if err != nil {
		return s.storeFailure(c, err, "Failed to update note")
	}
	return c.JSON(successResponse{Success: true})
}

func (s *Server) HandleDeleteNote(c *fiber.Ctx) error {
	id := c.Params("id")

	err := s.backend.Store().Delete(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "Note not found")
	}
	if err != nil {
		return s.storeFailure(c, err, "Failed to delete note")
	}
	return c.JSON(successResponse{Success: true})
}

// storeFailure logs the store error and answers with a generic 500.
func (s *Server) storeFailure(c *fiber.Ctx, err error, msg string) error {
	s.log.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Bool("malformed_id", errors.Is(err, domain.ErrMalformedID)).
		Msg(msg)
	return writeError(c, fiber.StatusInternalServerError, msg)
}

// decodeBody reads a JSON body regardless of the Content-Type header, the
// way the bundled client and curl users both send it.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return errors.New("empty body")
	}
	return c.App().Config().JSONDecoder(body, v)
}
