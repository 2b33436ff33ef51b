package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tunefolio/tunefolio/internal/domain"
)

const (
	apiBaseURL = "https://api.spotify.com/v1"

	// DefaultTopLimit is how many top items one sync requests.
	DefaultTopLimit = 10
)

// Profile is the subset of /me this service cares about.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Client is a thin typed accessor over the Spotify Web API. Every
// method takes the bearer token for the call; failures come back as
// *domain.UpstreamError, never as raw transport errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return &Client{
		baseURL:    apiBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// CurrentUser fetches the identity of the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, token, "/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// TopArtists fetches the user's top artists, at most limit of them, in
// Spotify's relevance ranking order. The order of the returned slice
// matches the upstream items array.
func (c *Client) TopArtists(ctx context.Context, token string, limit int) ([]domain.TopArtist, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	var payload struct {
		Items []struct {
			Name   string   `json:"name"`
			Genres []string `json:"genres"`
		} `json:"items"`
	}
	endpoint := fmt.Sprintf("/me/top/artists?limit=%d&time_range=medium_term", limit)
	if err := c.get(ctx, token, endpoint, &payload); err != nil {
		return nil, err
	}

	artists := make([]domain.TopArtist, 0, len(payload.Items))
	for _, item := range payload.Items {
		artists = append(artists, domain.TopArtist{Name: item.Name, Genres: item.Genres})
	}
	return artists, nil
}

// TopTracks fetches the user's top tracks, in ranking order. The
// primary artist is the first entry of the track's artist list.
func (c *Client) TopTracks(ctx context.Context, token string, limit int) ([]domain.TopTrack, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	var payload struct {
		Items []struct {
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name string `json:"name"`
			} `json:"album"`
			Popularity int `json:"popularity"`
		} `json:"items"`
	}
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=medium_term", limit)
	if err := c.get(ctx, token, endpoint, &payload); err != nil {
		return nil, err
	}

	tracks := make([]domain.TopTrack, 0, len(payload.Items))
	for _, item := range payload.Items {
		track := domain.TopTrack{
			Title:      item.Name,
			Album:      item.Album.Name,
			Popularity: item.Popularity,
		}
		if len(item.Artists) > 0 {
			track.Artist = item.Artists[0].Name
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// get performs an authenticated GET against the API and decodes the
// JSON response into out.
func (c *Client) get(ctx context.Context, token, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("spotify request failed", "endpoint", endpoint, "error", err)
		return &domain.UpstreamError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("spotify returned non-2xx", "endpoint", endpoint, "status", resp.StatusCode)
		return &domain.UpstreamError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("spotify response decode failed", "endpoint", endpoint, "error", err)
		return &domain.UpstreamError{StatusCode: resp.StatusCode, Endpoint: endpoint, Err: err}
	}
	return nil
}
