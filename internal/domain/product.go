package domain

import (
	"fmt"
	"time"
)

// MediaKind discriminates the presentation media attached to a product.
type MediaKind string

const (
	// MediaNone means the product card renders with no preview media.
	MediaNone MediaKind = "none"
	// MediaGradient means the card renders a gradient placeholder chosen by tag.
	MediaGradient MediaKind = "gradient"
	// MediaVideo means the card renders a hover-playable preview video.
	MediaVideo MediaKind = "video"
)

// Media is a tagged variant describing how a product is presented in the
// storefront. Exactly the fields for its kind are set; the rest stay empty.
type Media struct {
	Kind MediaKind `json:"kind"`

	// GradientTag selects the placeholder gradient. Set only for MediaGradient.
	GradientTag string `json:"gradient_tag,omitempty"`

	// VideoURL is the preview clip location. Set only for MediaVideo.
	VideoURL string `json:"video_url,omitempty"`

	// ThumbnailURL is the optional poster frame for the preview clip.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Validate checks that the media fields are consistent with the kind.
func (m Media) Validate() error {
	switch m.Kind {
	case MediaNone:
		if m.GradientTag != "" || m.VideoURL != "" || m.ThumbnailURL != "" {
			return fmt.Errorf("media kind %q must not carry presentation fields", m.Kind)
		}
	case MediaGradient:
		if m.GradientTag == "" {
			return fmt.Errorf("media kind %q requires a gradient tag", m.Kind)
		}
		if m.VideoURL != "" || m.ThumbnailURL != "" {
			return fmt.Errorf("media kind %q must not carry video fields", m.Kind)
		}
	case MediaVideo:
		if m.VideoURL == "" {
			return fmt.Errorf("media kind %q requires a video url", m.Kind)
		}
	default:
		return fmt.Errorf("unknown media kind %q", m.Kind)
	}
	return nil
}

// Product is a digital asset listed in the storefront catalog.
//
// Price is in minor currency units (paise). The downloadable asset itself is
// never referenced here: its storage URL is handed to the composing admin once
// and deliberately kept out of the catalog record.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Media       Media     `json:"media"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks product invariants.
func (p *Product) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("product title is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price must not be negative")
	}
	return p.Media.Validate()
}
