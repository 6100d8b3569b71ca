package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-collection-api/internal/model"
	"go-collection-api/internal/permission"
	"go-collection-api/pkg/apierror"
)

type tokenValidator interface {
	ValidateToken(token string) (model.Identity, error)
}

type credentialChecker interface {
	Authenticate(ctx context.Context, username string, password string) (model.Identity, error)
}

type authorizer interface {
	Authorize(role string, action permission.Action, collection string) bool
}

type contextKey string

const identityContextKey contextKey = "auth_identity"

// AuthMiddleware holds the request pipeline stages that establish who the
// caller is and what they may do. Each stage either calls next with an
// enriched context or writes a terminal error.
type AuthMiddleware struct {
	validator   tokenValidator
	credentials credentialChecker
	authorizer  authorizer
}

func NewAuthMiddleware(validator tokenValidator, credentials credentialChecker, authorizer authorizer) *AuthMiddleware {
	return &AuthMiddleware{validator: validator, credentials: credentials, authorizer: authorizer}
}

// RequireBasic verifies a Basic username/password pair.
func (m *AuthMiddleware) RequireBasic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || strings.TrimSpace(username) == "" {
			w.Header().Set("WWW-Authenticate", `Basic realm="api"`)
			writeAuthError(w, apierror.Unauthorized("missing or invalid basic credentials"))
			return
		}

		identity, err := m.credentials.Authenticate(r.Context(), username, password)
		if err != nil {
			var apiErr *apierror.APIError
			if !errors.As(err, &apiErr) {
				slog.Error("basic authentication failed", "error", err)
				apiErr = apierror.New(apierror.CodeInternal, "Unexpected server error", "", http.StatusInternalServerError)
			}
			writeAuthError(w, apiErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireBearer verifies an "Authorization: Bearer <token>" header. Bad
// signatures and expired tokens get the same response.
func (m *AuthMiddleware) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
			writeAuthError(w, apierror.Unauthorized("missing or invalid authorization header"))
			return
		}

		token := strings.TrimSpace(header[7:])
		identity, err := m.validator.ValidateToken(token)
		if err != nil {
			writeAuthError(w, apierror.Unauthorized("invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireAction gates a route on one fixed capability.
func (m *AuthMiddleware) RequireAction(action permission.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.authorize(w, r, next, action, "")
		})
	}
}

// RequireCollectionAccess derives the action from the HTTP method and the
// collection from the {collection} route parameter.
func (m *AuthMiddleware) RequireCollectionAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action, ok := permission.ActionForMethod(r.Method)
		if !ok {
			writeAuthError(w, apierror.Forbidden("method not permitted"))
			return
		}

		m.authorize(w, r, next, action, chi.URLParam(r, "collection"))
	})
}

func (m *AuthMiddleware) authorize(w http.ResponseWriter, r *http.Request, next http.Handler, action permission.Action, collection string) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeAuthError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if !m.authorizer.Authorize(identity.Role, action, collection) {
		writeAuthError(w, apierror.Forbidden("insufficient permissions"))
		return
	}

	next.ServeHTTP(w, r)
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

func writeAuthError(w http.ResponseWriter, apiErr *apierror.APIError) {
	writeJSONError(w, apiErr.HTTPStatus, apiErr.Code, apiErr.Message)
}
