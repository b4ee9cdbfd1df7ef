// File: internal/video/youtube.go

// Package video handles playback source resolution for listing videos:
// YouTube URL parsing and embed construction, uploaded-file playback, and
// the preview trim selector.
package video

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// youtubeIDPattern matches the video ID across the URL shapes YouTube
// serves: watch, short links, embeds, legacy /v/ and shorts.
var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/|youtube\.com/shorts/)([^&\n?#]+)`)

// ExtractYouTubeID pulls the video ID out of a YouTube URL. The second
// return is false when the URL is not a recognizable YouTube link.
func ExtractYouTubeID(rawURL string) (string, bool) {
	m := youtubeIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsYouTubeURL reports whether the URL points at a YouTube video.
func IsYouTubeURL(rawURL string) bool {
	_, ok := ExtractYouTubeID(rawURL)
	return ok
}

// EmbedURL builds the embed player URL for a detail view: sound on, no
// autoplay, visible controls.
func EmbedURL(videoID string) string {
	params := url.Values{}
	params.Set("autoplay", "0")
	params.Set("mute", "0")
	params.Set("loop", "0")
	params.Set("controls", "1")
	params.Set("modestbranding", "1")
	params.Set("rel", "0")
	params.Set("playsinline", "1")
	return fmt.Sprintf("https://www.youtube.com/embed/%s?%s", videoID, params.Encode())
}

// FeedEmbedURL builds the embed player URL for the feed: muted autoplay in a
// loop, which requires the single-video playlist trick.
func FeedEmbedURL(videoID string) string {
	params := url.Values{}
	params.Set("autoplay", "1")
	params.Set("mute", "1")
	params.Set("loop", "1")
	params.Set("playlist", videoID)
	params.Set("controls", "1")
	params.Set("modestbranding", "1")
	params.Set("rel", "0")
	params.Set("playsinline", "1")
	return fmt.Sprintf("https://www.youtube.com/embed/%s?%s", videoID, params.Encode())
}

// ThumbnailQuality selects one of YouTube's static thumbnail renditions.
type ThumbnailQuality string

const (
	ThumbnailDefault ThumbnailQuality = "default"
	ThumbnailMedium  ThumbnailQuality = "mqdefault"
	ThumbnailHigh    ThumbnailQuality = "hqdefault"
	ThumbnailMax     ThumbnailQuality = "maxresdefault"
)

// ThumbnailURL returns the static thumbnail URL for a video at the given
// quality tier.
func ThumbnailURL(videoID string, quality ThumbnailQuality) string {
	if quality == "" {
		quality = ThumbnailHigh
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality)
}

// SourceKind distinguishes how a listing video is played back.
type SourceKind string

const (
	// SourceYouTube plays through the YouTube embed player.
	SourceYouTube SourceKind = "youtube"
	// SourceFile plays a directly hosted file through a native player.
	SourceFile SourceKind = "file"
)

// PlaybackSource is the resolved playback plan for a listing video URL.
type PlaybackSource struct {
	Kind         SourceKind `json:"kind"`
	VideoID      string     `json:"video_id,omitempty"`
	EmbedURL     string     `json:"embed_url,omitempty"`
	FeedEmbedURL string     `json:"feed_embed_url,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	FileURL      string     `json:"file_url,omitempty"`
}

// ResolveSource classifies a stored video URL. YouTube links resolve to
// embed URLs with a thumbnail; everything else is treated as a hosted file.
func ResolveSource(rawURL string) PlaybackSource {
	if id, ok := ExtractYouTubeID(rawURL); ok {
		return PlaybackSource{
			Kind:         SourceYouTube,
			VideoID:      id,
			EmbedURL:     EmbedURL(id),
			FeedEmbedURL: FeedEmbedURL(id),
			ThumbnailURL: ThumbnailURL(id, ThumbnailHigh),
		}
	}
	return PlaybackSource{
		Kind:    SourceFile,
		FileURL: strings.TrimSpace(rawURL),
	}
}
