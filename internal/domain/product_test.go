package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaValidate(t *testing.T) {
	tests := []struct {
		name    string
		media   Media
		wantErr bool
	}{
		{"none", Media{Kind: MediaNone}, false},
		{"none with leftover fields", Media{Kind: MediaNone, GradientTag: "sunset"}, true},
		{"gradient", Media{Kind: MediaGradient, GradientTag: "sunset"}, false},
		{"gradient without tag", Media{Kind: MediaGradient}, true},
		{"gradient with video", Media{Kind: MediaGradient, GradientTag: "sunset", VideoURL: "https://cdn/x.mp4"}, true},
		{"video", Media{Kind: MediaVideo, VideoURL: "https://cdn/x.mp4"}, false},
		{"video with thumbnail", Media{Kind: MediaVideo, VideoURL: "https://cdn/x.mp4", ThumbnailURL: "https://cdn/x.jpg"}, false},
		{"video without url", Media{Kind: MediaVideo}, true},
		{"unknown kind", Media{Kind: "gif"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.media.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	p := &Product{Title: "LUT Pack", Price: 49900, Media: Media{Kind: MediaNone}}
	assert.NoError(t, p.Validate())

	p.Title = ""
	assert.Error(t, p.Validate())

	p.Title = "LUT Pack"
	p.Price = -1
	assert.Error(t, p.Validate())
}
