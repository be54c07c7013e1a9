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

// BookHandler serves the book CRUD and aggregate endpoints
type BookHandler struct {
	books  ports.BookRepository
	logger *zap.Logger
	errors *apperrors.ErrorHandler
}

// NewBookHandler creates a book handler
func NewBookHandler(books ports.BookRepository, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		books:  books,
		logger: logger,
		errors: apperrors.NewErrorHandler(logger, false),
	}
}

type createBookRequest struct {
	Title  string `json:"title" validate:"required,max=255"`
	Author string `json:"author" validate:"required,max=255"`
}

// Create catalogs a new book. The author must already exist under the
// given name.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	book, err := catalog.NewBook(req.Title, req.Author)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.books.Save(r.Context(), book); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, book)
}

// List returns every book
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.FindAll(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, books)
}

// Latest returns the five most recently catalogued books
func (h *BookHandler) Latest(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.FindLastFive(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, books)
}

// ByAuthor returns book counts grouped by author name
func (h *BookHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	stats, err := h.books.AuthorStats(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}

// Get returns one book by id
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookID")

	book, err := h.books.FindByID(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if book == nil {
		h.errors.Handle(w, r, apperrors.NewNotFoundError("book"))
		return
	}
	common.RespondJSON(w, http.StatusOK, book)
}

// Delete removes a book; a no-op when the book does not exist
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bookID")

	if err := h.books.Delete(r.Context(), id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}
