package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dont21900-lgtm/editing-store/internal/assets"
	"github.com/dont21900-lgtm/editing-store/internal/catalog/repository"
	"github.com/dont21900-lgtm/editing-store/internal/domain"
	"github.com/dont21900-lgtm/editing-store/internal/event"
	apperrors "github.com/dont21900-lgtm/editing-store/pkg/errors"
)

// Upload step names reported when composition aborts.
const (
	StepPreviewVideo = "preview_video"
	StepThumbnail    = "thumbnail"
	StepAsset        = "asset"
	StepCatalogWrite = "catalog_write"
)

// FileInput is a single file streamed into the composer.
type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// ComposeInput holds the admin's product draft plus the files to upload.
// Asset (the purchasable download) is required; the presentation media are
// optional.
type ComposeInput struct {
	Title       string
	Description string
	Category    string
	Price       int64
	GradientTag string

	PreviewVideo *FileInput
	Thumbnail    *FileInput
	Asset        *FileInput
}

// ComposeResult is returned to the composing admin. AssetURL is the one and
// only surface where the raw asset location appears: it is never written to
// the catalog record.
type ComposeResult struct {
	Product  *domain.Product `json:"product"`
	AssetURL string          `json:"asset_url"`
}

// Composer sequences the asset uploads and the catalog write for a new
// product. Any step failure aborts the whole composition: uploads that
// already happened are deleted and no catalog entry is written.
type Composer struct {
	repo     repository.ProductRepository
	storage  assets.Storage
	producer *event.Producer
	logger   *slog.Logger
}

// NewComposer creates a new product composer.
func NewComposer(repo repository.ProductRepository, storage assets.Storage, producer *event.Producer, logger *slog.Logger) *Composer {
	return &Composer{
		repo:     repo,
		storage:  storage,
		producer: producer,
		logger:   logger,
	}
}

// CreateProduct runs the composition: preview video, then thumbnail, then the
// raw asset, then the catalog entry. The returned error names the failing
// step via its UPLOAD_FAILED code.
func (c *Composer) CreateProduct(ctx context.Context, input *ComposeInput) (*ComposeResult, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("product title is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("product price must not be negative")
	}
	if input.Asset == nil {
		return nil, apperrors.InvalidInput("product asset file is required")
	}

	var uploaded []string
	abort := func(step string, err error) (*ComposeResult, error) {
		c.cleanup(ctx, uploaded)
		c.logger.ErrorContext(ctx, "product composition aborted",
			slog.String("step", step),
			slog.String("title", input.Title),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.UploadFailed(step, err)
	}

	media := domain.Media{Kind: domain.MediaNone}
	if input.GradientTag != "" {
		media = domain.Media{Kind: domain.MediaGradient, GradientTag: input.GradientTag}
	}

	if input.PreviewVideo != nil {
		res, err := c.storage.Upload(ctx, &assets.UploadInput{
			Kind:        assets.KindVideo,
			Filename:    input.PreviewVideo.Filename,
			ContentType: input.PreviewVideo.ContentType,
			Size:        input.PreviewVideo.Size,
			Data:        input.PreviewVideo.Data,
		})
		if err != nil {
			return abort(StepPreviewVideo, err)
		}
		uploaded = append(uploaded, res.Key)
		media = domain.Media{Kind: domain.MediaVideo, VideoURL: res.URL}
	}

	if input.Thumbnail != nil {
		res, err := c.storage.Upload(ctx, &assets.UploadInput{
			Kind:        assets.KindImage,
			Filename:    input.Thumbnail.Filename,
			ContentType: input.Thumbnail.ContentType,
			Size:        input.Thumbnail.Size,
			Data:        input.Thumbnail.Data,
		})
		if err != nil {
			return abort(StepThumbnail, err)
		}
		uploaded = append(uploaded, res.Key)
		if media.Kind == domain.MediaVideo {
			media.ThumbnailURL = res.URL
		}
	}

	assetRes, err := c.storage.Upload(ctx, &assets.UploadInput{
		Kind:        assets.KindRaw,
		Filename:    input.Asset.Filename,
		ContentType: input.Asset.ContentType,
		Size:        input.Asset.Size,
		Data:        input.Asset.Data,
	})
	if err != nil {
		return abort(StepAsset, err)
	}
	uploaded = append(uploaded, assetRes.Key)

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Media:       media,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := product.Validate(); err != nil {
		c.cleanup(ctx, uploaded)
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := c.repo.Create(ctx, product); err != nil {
		return abort(StepCatalogWrite, err)
	}

	if err := c.producer.PublishProductCreated(ctx, product); err != nil {
		c.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	c.logger.InfoContext(ctx, "product composed",
		slog.String("product_id", product.ID),
		slog.String("title", product.Title),
		slog.String("media_kind", string(product.Media.Kind)),
	)

	// The raw asset URL leaves the system exactly once, in this response.
	return &ComposeResult{
		Product:  product,
		AssetURL: assetRes.URL,
	}, nil
}

// cleanup best-effort deletes uploads from an aborted composition.
func (c *Composer) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := c.storage.Delete(ctx, key); err != nil {
			c.logger.WarnContext(ctx, "failed to delete orphaned upload",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}
