package http

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	catalogservice "github.com/dont21900-lgtm/editing-store/internal/catalog/service"
	checkoutservice "github.com/dont21900-lgtm/editing-store/internal/checkout/service"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
	"github.com/dont21900-lgtm/editing-store/pkg/httputil"
)

// maxComposeMemory bounds the in-memory portion of multipart parsing; larger
// file parts spill to disk.
const maxComposeMemory = 32 << 20 // 32 MiB

// AdminHandler handles the admin-only surfaces: product composition and the
// payment journal.
type AdminHandler struct {
	composer *catalogservice.Composer
	checkout *checkoutservice.CheckoutService
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(composer *catalogservice.Composer, checkout *checkoutservice.CheckoutService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		composer: composer,
		checkout: checkout,
		logger:   logger,
	}
}

// ComposeProduct handles POST /api/v1/admin/products (multipart).
//
// Form fields: title, description, category, price (minor units),
// gradient_tag. File parts: preview_video, thumbnail (both optional),
// asset (required).
func (h *AdminHandler) ComposeProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxComposeMemory); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form: "+err.Error()), h.logger)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	price, err := strconv.ParseInt(r.FormValue("price"), 10, 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("price must be an integer in minor units"), h.logger)
		return
	}

	input := &catalogservice.ComposeInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Price:       price,
		GradientTag: r.FormValue("gradient_tag"),
	}

	var closers []interface{ Close() error }
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	openPart := func(field string) (*catalogservice.FileInput, error) {
		file, header, err := r.FormFile(field)
		if err != nil {
			if err == http.ErrMissingFile {
				return nil, nil
			}
			return nil, apperrors.InvalidInput("invalid file part " + field)
		}
		closers = append(closers, file)
		return &catalogservice.FileInput{
			Filename:    header.Filename,
			ContentType: partContentType(header),
			Size:        header.Size,
			Data:        file,
		}, nil
	}

	if input.PreviewVideo, err = openPart("preview_video"); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if input.Thumbnail, err = openPart("thumbnail"); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if input.Asset, err = openPart("asset"); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.composer.CreateProduct(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// ListJournal handles GET /api/v1/admin/journal
func (h *AdminHandler) ListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := h.checkout.ListUnrecordedPayments(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entries})
}

// ResolveJournalEntry handles POST /api/v1/admin/journal/{id}/resolve
func (h *AdminHandler) ResolveJournalEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.checkout.ResolveUnrecordedPayment(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "resolved"}})
}

func partContentType(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Header.Get("Content-Type")
}
