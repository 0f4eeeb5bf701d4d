package auth

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

func newTestGate(t *testing.T, second SecondFactor) *Gate {
	t.Helper()
	hash, err := HashPassword("hunter2-but-better")
	require.NoError(t, err)

	creds := NewStaticCredentialStore("admin@editing.store", hash)
	tokens := NewJWTManager("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewGate(creds, tokens, second, logger)
}

func TestSignIn_Success(t *testing.T) {
	gate := newTestGate(t, NoneFactor{})
	ctx := context.Background()

	session, err := gate.SignIn(ctx, "admin@editing.store", "hunter2-but-better")

	require.NoError(t, err)
	assert.Equal(t, StatePrimaryVerified, session.State)
	assert.Empty(t, session.Role, "the admin role only appears after the second factor")
	assert.NotEmpty(t, session.Token)

	claims, err := gate.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, StatePrimaryVerified, claims.State)
}

func TestSignIn_WrongPassword(t *testing.T) {
	gate := newTestGate(t, NoneFactor{})

	_, err := gate.SignIn(context.Background(), "admin@editing.store", "wrong")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSignIn_UnknownEmailIndistinguishable(t *testing.T) {
	gate := newTestGate(t, NoneFactor{})
	ctx := context.Background()

	_, errUnknown := gate.SignIn(ctx, "nobody@editing.store", "hunter2-but-better")
	_, errWrongPass := gate.SignIn(ctx, "admin@editing.store", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
}

func TestSignIn_MissingFields(t *testing.T) {
	gate := newTestGate(t, NoneFactor{})

	_, err := gate.SignIn(context.Background(), "", "")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestVerifySecondFactor_UpgradesSession(t *testing.T) {
	gate := newTestGate(t, NewFaceMatchFactor(NewMemoryDescriptorStore()))
	ctx := context.Background()

	session, err := gate.SignIn(ctx, "admin@editing.store", "hunter2-but-better")
	require.NoError(t, err)

	upgraded, err := gate.VerifySecondFactor(ctx, session.Token, Proof{
		FaceDescriptor: descriptor(0.1, 0.2, 0.3),
	})

	require.NoError(t, err)
	assert.Equal(t, StateFullyAuthenticated, upgraded.State)
	assert.Equal(t, RoleAdmin, upgraded.Role)
	assert.NotEqual(t, session.Token, upgraded.Token)
}

func TestVerifySecondFactor_FailureKeepsPrimarySession(t *testing.T) {
	store := NewMemoryDescriptorStore()
	gate := newTestGate(t, NewFaceMatchFactor(store))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "admin@editing.store", descriptor(0.1, 0.2, 0.3)))

	session, err := gate.SignIn(ctx, "admin@editing.store", "hunter2-but-better")
	require.NoError(t, err)

	_, err = gate.VerifySecondFactor(ctx, session.Token, Proof{
		FaceDescriptor: descriptor(0.9, -0.5, 0.7),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// The primary_verified token still validates after the rejection.
	claims, err := gate.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, StatePrimaryVerified, claims.State)
	assert.Empty(t, claims.Role)
}

func TestVerifySecondFactor_InvalidToken(t *testing.T) {
	gate := newTestGate(t, NoneFactor{})

	_, err := gate.VerifySecondFactor(context.Background(), "garbage", Proof{})

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
