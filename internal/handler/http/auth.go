package http

import (
	"log/slog"
	"net/http"

	"github.com/dont21900-lgtm/editing-store/internal/auth"
	"github.com/dont21900-lgtm/editing-store/pkg/httputil"
	"github.com/dont21900-lgtm/editing-store/pkg/validator"
)

// AuthHandler handles HTTP requests for the two-step session gate.
type AuthHandler struct {
	gate   *auth.Gate
	logger *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(gate *auth.Gate, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		gate:   gate,
		logger: logger,
	}
}

// SignInRequest is the JSON request body for the primary credential step.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyFaceRequest is the JSON request body for the second factor step.
type VerifyFaceRequest struct {
	Token          string    `json:"token" validate:"required"`
	FaceDescriptor []float64 `json:"face_descriptor"`
}

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	session, err := h.gate.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}

// VerifyFace handles POST /api/v1/auth/verify-face
func (h *AuthHandler) VerifyFace(w http.ResponseWriter, r *http.Request) {
	var req VerifyFaceRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	session, err := h.gate.VerifySecondFactor(r.Context(), req.Token, auth.Proof{
		FaceDescriptor: req.FaceDescriptor,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: session})
}
