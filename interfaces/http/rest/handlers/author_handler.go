package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bookshelf-backend/application/ports"
	"bookshelf-backend/domain/catalog"
	"bookshelf-backend/pkg/common"
	apperrors "bookshelf-backend/pkg/errors"
	"bookshelf-backend/pkg/utils"
)

// AuthorHandler serves the author CRUD endpoints
type AuthorHandler struct {
	authors ports.AuthorRepository
	logger  *zap.Logger
	errors  *apperrors.ErrorHandler
}

// NewAuthorHandler creates an author handler
func NewAuthorHandler(authors ports.AuthorRepository, logger *zap.Logger) *AuthorHandler {
	return &AuthorHandler{
		authors: authors,
		logger:  logger,
		errors:  apperrors.NewErrorHandler(logger, false),
	}
}

type createAuthorRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// Create registers a new author
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	author, err := catalog.NewAuthor(req.Name)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.authors.Save(r.Context(), author); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, author)
}

// List returns every author
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authors.FindAll(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, authors)
}

// Get returns one author by id
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "authorID")

	author, err := h.authors.FindByID(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if author == nil {
		h.errors.Handle(w, r, apperrors.NewNotFoundError("author"))
		return
	}
	common.RespondJSON(w, http.StatusOK, author)
}

// Delete removes an author; idempotent
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "authorID")

	if err := h.authors.Delete(r.Context(), id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// Stats returns every author with its book count
func (h *AuthorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.authors.AuthorsWithBookCount(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}
