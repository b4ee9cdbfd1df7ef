// File: internal/video/youtube_test.go
package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch URL with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=xyz", "dQw4w9WgXcQ", true},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"legacy v URL", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"direct file", "https://storage.googleapis.com/bucket/tour.mp4", "", false},
		{"unrelated site", "https://vimeo.com/123456", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractYouTubeID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestEmbedURL_DetailPlayerParams(t *testing.T) {
	got := EmbedURL("dQw4w9WgXcQ")

	assert.Contains(t, got, "https://www.youtube.com/embed/dQw4w9WgXcQ?")
	assert.Contains(t, got, "autoplay=0")
	assert.Contains(t, got, "mute=0")
	assert.Contains(t, got, "loop=0")
	assert.Contains(t, got, "controls=1")
	assert.Contains(t, got, "modestbranding=1")
	assert.Contains(t, got, "rel=0")
	assert.Contains(t, got, "playsinline=1")
}

func TestFeedEmbedURL_MutedLoopingAutoplay(t *testing.T) {
	got := FeedEmbedURL("dQw4w9WgXcQ")

	assert.Contains(t, got, "autoplay=1")
	assert.Contains(t, got, "mute=1")
	assert.Contains(t, got, "loop=1")
	// Looping a single video requires it to be its own playlist.
	assert.Contains(t, got, "playlist=dQw4w9WgXcQ")
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t,
		"https://img.youtube.com/vi/abc/maxresdefault.jpg",
		ThumbnailURL("abc", ThumbnailMax))
	assert.Equal(t,
		"https://img.youtube.com/vi/abc/hqdefault.jpg",
		ThumbnailURL("abc", ""), "empty quality falls back to hqdefault")
}

func TestResolveSource(t *testing.T) {
	yt := ResolveSource("https://youtu.be/dQw4w9WgXcQ")
	assert.Equal(t, SourceYouTube, yt.Kind)
	assert.Equal(t, "dQw4w9WgXcQ", yt.VideoID)
	assert.NotEmpty(t, yt.EmbedURL)
	assert.NotEmpty(t, yt.FeedEmbedURL)
	assert.NotEmpty(t, yt.ThumbnailURL)
	assert.Empty(t, yt.FileURL)

	file := ResolveSource("https://storage.googleapis.com/bucket/tour.mp4")
	assert.Equal(t, SourceFile, file.Kind)
	assert.Equal(t, "https://storage.googleapis.com/bucket/tour.mp4", file.FileURL)
	assert.Empty(t, file.EmbedURL)
}
