package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/heartmarshall/keepnotes/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// Auth validates bearer tokens and stores the subject in the context.
// Requests without a token pass through anonymously unless required is set.
func Auth(validator tokenValidator, required bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				if required {
					w.Header().Set("WWW-Authenticate", `Bearer realm="keepnotes"`)
					writeError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			subject, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="keepnotes", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			recordSubject(r.Context(), subject)
			ctx := ctxutil.WithSubject(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

type subjectHolderKey struct{}

// subjectHolder lets Logger see the subject that Auth resolves on an
// inner request.
type subjectHolder struct {
	subject string
}

func withSubjectHolder(ctx context.Context, h *subjectHolder) context.Context {
	return context.WithValue(ctx, subjectHolderKey{}, h)
}

func recordSubject(ctx context.Context, subject string) {
	if h, ok := ctx.Value(subjectHolderKey{}).(*subjectHolder); ok {
		h.subject = subject
	}
}
