package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/ytdown/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// Playlist naming
const (
	DefaultPlaylistName = "Unknown Playlist"
	PlaylistSuffix      = " Playlist"
	MinPrefixLength     = 10
)

// YouTubeVideoURLTemplate builds a watch URL from a video ID
const YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"

var (
	ErrNotPlaylist   = errors.New("URL does not reference a playlist")
	ErrEmptyPlaylist = errors.New("playlist has no videos")
)

// fetchFunc lists the videos of a playlist ID in playlist order
type fetchFunc func(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error)

// PlaylistExpander turns a playlist URL into the watch URLs of its videos.
type PlaylistExpander struct {
	timeout time.Duration
	fetch   fetchFunc
	logger  zerolog.Logger
}

// NewPlaylistExpander creates an expander backed by the ytdlp library
func NewPlaylistExpander(logger zerolog.Logger) *PlaylistExpander {
	return &PlaylistExpander{
		timeout: DefaultPlaylistTimeout,
		fetch:   fetchWithLibrary,
		logger:  logger.With().Str("component", "playlist").Logger(),
	}
}

// SetTimeout sets the timeout for one expansion
func (p *PlaylistExpander) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// IsPlaylistURL reports whether url carries a list= parameter
func IsPlaylistURL(url string) bool {
	return ExtractPlaylistID(url) != ""
}

// ExtractPlaylistID returns the value of the list= parameter, or ""
func ExtractPlaylistID(url string) string {
	_, after, found := strings.Cut(url, PlaylistParam)
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, ParamSeparator)
	return strings.TrimSpace(id)
}

// Expand lists the playlist's videos. It fails for non-playlist URLs and
// for playlists without videos.
func (p *PlaylistExpander) Expand(ctx context.Context, url string) (*model.Playlist, error) {
	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotPlaylist, url)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	videos, err := p.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(playlistID, url)
	for _, v := range videos {
		if v == nil || v.URL == "" {
			continue
		}
		playlist.AddVideo(v)
	}
	if len(playlist.Videos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, playlistID)
	}
	playlist.Title = playlistTitle(playlist.Videos)

	p.logger.Info().
		Str("playlist_id", playlistID).
		Int("videos", len(playlist.Videos)).
		Dur("elapsed", time.Since(start)).
		Msg("playlist expanded")
	return playlist, nil
}

func fetchWithLibrary(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	videos := make([]*model.PlaylistVideo, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		videos = append(videos, &model.PlaylistVideo{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	return videos, nil
}

// playlistTitle uses the common prefix of the first two titles when it is
// long enough, otherwise the first title.
func playlistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistName
	}
	if len(videos) > 1 {
		prefix := commonPrefix(videos[0].Title, videos[1].Title)
		if len(prefix) > MinPrefixLength {
			return strings.TrimSpace(prefix) + PlaylistSuffix
		}
	}
	if videos[0].Title == "" {
		return DefaultPlaylistName
	}
	return videos[0].Title + PlaylistSuffix
}

func commonPrefix(s1, s2 string) string {
	n := min(len(s1), len(s2))
	for i := 0; i < n; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:n]
}
