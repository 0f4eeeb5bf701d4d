package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// Session is the gate's view of an authenticated session.
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	State string `json:"state"`
}

// Gate runs the two-step session flow: primary email/password credential,
// then the configured second factor. Failing the second factor keeps the
// primary_verified session; it only withholds the admin role.
type Gate struct {
	creds  CredentialStore
	tokens *JWTManager
	second SecondFactor
	logger *slog.Logger
}

// NewGate creates a new session gate.
func NewGate(creds CredentialStore, tokens *JWTManager, second SecondFactor, logger *slog.Logger) *Gate {
	return &Gate{
		creds:  creds,
		tokens: tokens,
		second: second,
		logger: logger,
	}
}

// SignIn verifies the primary credential and issues a primary_verified
// session token.
func (g *Gate) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}

	if err := g.creds.Verify(ctx, email, password); err != nil {
		g.logger.WarnContext(ctx, "primary credential rejected",
			slog.String("email", email),
		)
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := g.tokens.GenerateToken(email, "", StatePrimaryVerified)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	g.logger.InfoContext(ctx, "primary credential verified",
		slog.String("email", email),
		slog.String("second_factor", g.second.Kind()),
	)

	return &Session{
		Token: token,
		Email: email,
		State: StatePrimaryVerified,
	}, nil
}

// VerifySecondFactor checks the proof for a primary_verified session and, on
// success, upgrades it to fully_authenticated with the admin role claim. On
// second-factor failure the original session stays valid; the returned error
// carries 403.
func (g *Gate) VerifySecondFactor(ctx context.Context, token string, proof Proof) (*Session, error) {
	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid session token")
	}
	if claims.State != StatePrimaryVerified && claims.State != StateFullyAuthenticated {
		return nil, apperrors.Unauthorized("primary credential required first")
	}

	if err := g.second.Verify(ctx, claims.Email, proof); err != nil {
		if errors.Is(err, ErrSecondFactorFailed) {
			g.logger.WarnContext(ctx, "second factor rejected",
				slog.String("email", claims.Email),
				slog.String("factor", g.second.Kind()),
			)
			return nil, apperrors.Forbidden("second factor verification failed")
		}
		return nil, fmt.Errorf("verify second factor: %w", err)
	}

	upgraded, err := g.tokens.GenerateToken(claims.Email, RoleAdmin, StateFullyAuthenticated)
	if err != nil {
		return nil, fmt.Errorf("issue upgraded session token: %w", err)
	}

	g.logger.InfoContext(ctx, "second factor verified",
		slog.String("email", claims.Email),
		slog.String("factor", g.second.Kind()),
	)

	return &Session{
		Token: upgraded,
		Email: claims.Email,
		Role:  RoleAdmin,
		State: StateFullyAuthenticated,
	}, nil
}

// Validate parses a session token and returns its claims.
func (g *Gate) Validate(token string) (*Claims, error) {
	return g.tokens.ValidateToken(token)
}
