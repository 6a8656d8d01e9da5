package model

import (
	"time"
)

// PlaylistVideo is one entry of an expanded playlist
type PlaylistVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Playlist represents a YouTube playlist expanded into video URLs
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Videos    []*PlaylistVideo `json:"videos"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(id, url string) *Playlist {
	return &Playlist{
		ID:        id,
		URL:       url,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: time.Now(),
	}
}

// AddVideo adds a video to the playlist
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	p.Videos = append(p.Videos, video)
}

// VideoURLs returns video URLs in playlist order
func (p *Playlist) VideoURLs() []string {
	urls := make([]string, 0, len(p.Videos))
	for _, v := range p.Videos {
		if v.URL != "" {
			urls = append(urls, v.URL)
		}
	}
	return urls
}
