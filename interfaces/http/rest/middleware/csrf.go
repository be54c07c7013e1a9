package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"bookshelf-backend/application/csrf"
	"bookshelf-backend/pkg/common"
)

// Header and form field names for the CSRF double-submit
const (
	CSRFTokenIDHeader = "X-CSRF-Token-ID"
	CSRFTokenHeader   = "X-CSRF-Token"
	csrfTokenIDField  = "_csrf_id"
	csrfTokenField    = "_csrf"
)

// CSRF validates state-changing requests against the server-side
// token store. Tokens are single use: validation consumes them.
func CSRF(store *csrf.Store, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			tokenID := r.Header.Get(CSRFTokenIDHeader)
			value := r.Header.Get(CSRFTokenHeader)
			if tokenID == "" {
				tokenID = r.PostFormValue(csrfTokenIDField)
				value = r.PostFormValue(csrfTokenField)
			}
			if tokenID == "" || value == "" {
				common.RespondError(w, http.StatusForbidden, "FORBIDDEN", "missing csrf token")
				return
			}

			valid, err := store.ConsumeToken(r.Context(), tokenID, value)
			if err != nil {
				logger.Error("CSRF validation failed against the token store", zap.Error(err))
				common.RespondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "token store is unavailable")
				return
			}
			if !valid {
				common.RespondError(w, http.StatusForbidden, "FORBIDDEN", "invalid csrf token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
