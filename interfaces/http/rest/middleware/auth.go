package middleware

import (
	"net/http"

	"bookshelf-backend/pkg/common"
)

// RequireUser guards routes behind the authenticated-user predicate:
// the session must carry a logged-in user. The user's email is placed
// on the request context for handlers.
func RequireUser() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFrom(r.Context())
			if sess == nil || !sess.IsAuthenticated() {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			ctx := common.WithUserEmail(r.Context(), sess.Get(SessionKeyUser))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
