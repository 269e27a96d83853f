package session

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// TokenVerifier is the part of *auth.Client used to resolve ID tokens.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// TokenRevoker is the part of *auth.Client used for sign-out.
type TokenRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseSource resolves an ID token and re-checks it periodically. Once the
// token is rejected (expired, revoked or malformed) it reports signed out and stops.
type FirebaseSource struct {
	verifier TokenVerifier
	idToken  string
	interval time.Duration
	logger   *zap.Logger
}

func NewFirebaseSource(verifier TokenVerifier, idToken string, interval time.Duration, logger *zap.Logger) *FirebaseSource {
	return &FirebaseSource{
		verifier: verifier,
		idToken:  idToken,
		interval: interval,
		logger:   logger,
	}
}

func (s *FirebaseSource) Watch(ctx context.Context, notify func(*Identity)) error {
	identity, err := s.verify(ctx)
	if err != nil {
		s.logger.Info("Session token rejected", zap.Error(err))
		notify(nil)
		return nil
	}
	notify(identity)

	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			next, err := s.verify(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Info("Session ended", zap.String("uid", identity.UID), zap.Error(err))
				notify(nil)
				return nil
			}
			if *next != *identity {
				identity = next
				notify(identity)
			}
		}
	}
}

func (s *FirebaseSource) verify(ctx context.Context) (*Identity, error) {
	token, err := s.verifier.VerifyIDTokenAndCheckRevoked(ctx, s.idToken)
	if err != nil {
		return nil, err
	}
	return IdentityFromToken(token), nil
}

// IdentityFromToken extracts the identity fields from verified token claims.
func IdentityFromToken(token *auth.Token) *Identity {
	identity := &Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		identity.PhotoURL = picture
	}
	return identity
}

// SignOut revokes every refresh token of uid, which ends all of its sessions
// at their next re-check.
func SignOut(ctx context.Context, revoker TokenRevoker, uid string) error {
	if uid == "" {
		return fmt.Errorf("sign out: empty uid")
	}
	if err := revoker.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for %s: %w", uid, err)
	}
	return nil
}
