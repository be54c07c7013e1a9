package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bookshelf-backend/application/csrf"
	"bookshelf-backend/application/ports"
	"bookshelf-backend/interfaces/http/rest/middleware"
	"bookshelf-backend/pkg/common"
	apperrors "bookshelf-backend/pkg/errors"
	"bookshelf-backend/pkg/utils"
)

// AuthHandler serves registration, login, logout and CSRF issuance
type AuthHandler struct {
	users     ports.UserRepository
	csrfStore *csrf.Store
	logger    *zap.Logger
	errors    *apperrors.ErrorHandler
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(users ports.UserRepository, csrfStore *csrf.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		csrfStore: csrfStore,
		logger:    logger,
		errors:    apperrors.NewErrorHandler(logger, false),
	}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates an account. Duplicate registration answers 409.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to hash password").WithCause(err))
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, string(hash))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

// Login verifies credentials and marks the session authenticated
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("invalid email or password"))
		return
	}

	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("session middleware is not installed"))
		return
	}
	sess.Set(middleware.SessionKeyUser, user.Email)

	h.logger.Info("User logged in", zap.String("email", user.Email))
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"email": user.Email,
	})
}

// Logout destroys the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFrom(r.Context()); sess != nil {
		sess.Destroy()
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"logged_out": true,
	})
}

// IssueCSRFToken hands out a single-use token for the next
// state-changing request
func (h *AuthHandler) IssueCSRFToken(w http.ResponseWriter, r *http.Request) {
	tokenID := uuid.NewString()
	value, err := h.csrfStore.GenerateToken(r.Context(), tokenID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"token_id": tokenID,
		"token":    value,
	})
}
