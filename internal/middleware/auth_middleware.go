package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-account-go/internal/session"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "userID"
	ContextEmail    = "userEmail"
	ContextName     = "userDisplayName"
	ContextPhotoURL = "userPhotoURL"
	ContextIDToken  = "idToken"
)

// ErrorResponse is a local definition for sending standardized error messages.
// It mirrors the one in internal/api to avoid import cycles.
type ErrorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// TokenVerifier is the part of *auth.Client the middleware needs.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware provides Gin middleware for Firebase token authentication.
type AuthMiddleware struct {
	verifier  TokenVerifier
	loginPath string
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
// It panics if verifier is nil, as this is a critical setup dependency.
func NewAuthMiddleware(verifier TokenVerifier, loginPath string, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("token verifier is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{verifier: verifier, loginPath: loginPath, logger: logger}
}

// bearerToken extracts the token from "Authorization: Bearer {token}". The
// access_token query parameter is accepted for EventSource clients, which
// cannot set headers.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if t := c.Query("access_token"); t != "" {
			return t, true
		}
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: msg, RedirectTo: m.loginPath})
}

// VerifyToken rejects requests without a valid, unrevoked Firebase ID token.
// On success the identity claims are stored in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		idToken, ok := bearerToken(c)
		if !ok {
			m.unauthorized(c, "Authorization header format must be 'Bearer {token}'")
			return
		}
		token, err := m.verifier.VerifyIDTokenAndCheckRevoked(c.Request.Context(), idToken)
		if err != nil {
			m.logger.Info("Rejected Firebase ID token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			m.unauthorized(c, "Invalid or expired authentication token")
			return
		}
		setIdentity(c, idToken, token)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through. An invalid token is still rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" && c.Query("access_token") == "" {
			c.Next()
			return
		}
		m.VerifyToken()(c)
	}
}

func setIdentity(c *gin.Context, idToken string, token *auth.Token) {
	identity := session.IdentityFromToken(token)
	c.Set(ContextUserID, identity.UID)
	c.Set(ContextEmail, identity.Email)
	c.Set(ContextName, identity.DisplayName)
	c.Set(ContextPhotoURL, identity.PhotoURL)
	c.Set(ContextIDToken, idToken)
}

// IdentityFrom returns the identity stored by the auth middleware, or nil.
func IdentityFrom(c *gin.Context) *session.Identity {
	uid := c.GetString(ContextUserID)
	if uid == "" {
		return nil
	}
	return &session.Identity{
		UID:         uid,
		Email:       c.GetString(ContextEmail),
		DisplayName: c.GetString(ContextName),
		PhotoURL:    c.GetString(ContextPhotoURL),
	}
}
