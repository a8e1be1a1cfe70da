package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/unclebandit/neura-backend/internal/respond"
)

type contextKey string

const userContextKey contextKey = "neuraUser"

var (
	errMissingToken  = errors.New("missing bearer token")
	errInvalidToken  = errors.New("invalid token")
	errInvalidClaims = errors.New("invalid subject claim")
)

// JWTAuth validates HS256 bearer tokens issued by the identity provider and
// stores the subject as the caller's user ID.
type JWTAuth struct {
	secret []byte
	logger *slog.Logger
}

func NewJWTAuth(secret string, logger *slog.Logger) *JWTAuth {
	if secret == "" {
		logger.Warn("JWT_SECRET not set, auth will deny all requests")
	}
	return &JWTAuth{secret: []byte(secret), logger: logger}
}

func (m *JWTAuth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
			respond.Error(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *JWTAuth) authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenStr) == "" {
		return "", errMissingToken
	}
	if len(m.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(tokenStr), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", errInvalidClaims
	}
	return id.String(), nil
}

// UserID returns the authenticated caller, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userContextKey).(string)
	return id, ok && id != ""
}

// WithUserID is used by tests and internal callers to impersonate a user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}
