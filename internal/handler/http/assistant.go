package http

import (
	"log/slog"
	"net/http"

	"github.com/dont21900-lgtm/editing-store/internal/assistant"
	"github.com/dont21900-lgtm/editing-store/pkg/httputil"
	"github.com/dont21900-lgtm/editing-store/pkg/validator"
)

// AssistantHandler handles HTTP requests for the AI shopping assistant.
type AssistantHandler struct {
	service *assistant.Service
	logger  *slog.Logger
}

// NewAssistantHandler creates a new assistant HTTP handler.
func NewAssistantHandler(svc *assistant.Service, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: svc,
		logger:  logger,
	}
}

// ChatRequest is the JSON request body for an assistant turn.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// Chat handles POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	reply, err := h.service.Chat(r.Context(), req.Message)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reply})
}
