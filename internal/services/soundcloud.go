package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
)

const (
	DefaultBaseURL   = "https://api-v2.soundcloud.com"
	DefaultUserAgent = "SoundCloudScraper/1.0"

	acceptHeader = "application/json, text/plain, */*"
)

// SoundCloudService implements [Service] for the public SoundCloud API v2.
//
// Requests carry the configured client_id. When an access token is configured it is
// sent as "Authorization: OAuth <token>" through an [oauth2.StaticTokenSource]; it is
// never refreshed.
type SoundCloudService struct {
	baseURL    string
	userAgent  string
	clientID   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSoundCloudService creates a service from cfg. A nil client gets one with cfg's timeout.
func NewSoundCloudService(cfg shared.SoundCloudConfig, client *http.Client, logger *log.Logger) *SoundCloudService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	if logger == nil {
		logger = log.Default()
	}

	if cfg.AccessToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "OAuth"})
		client = &http.Client{
			Transport:     &oauth2.Transport{Source: src, Base: client.Transport},
			Timeout:       client.Timeout,
			CheckRedirect: client.CheckRedirect,
			Jar:           client.Jar,
		}
	}

	s := &SoundCloudService{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		clientID:   cfg.ClientID,
		httpClient: client,
		logger:     logger,
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.userAgent == "" {
		s.userAgent = DefaultUserAgent
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	if s.clientID == "" {
		logger.Warn("no SoundCloud client_id configured; API calls will fail", "env", shared.EnvClientID)
	}
	return s
}

func (s *SoundCloudService) Name() string {
	return "SoundCloud"
}

// Get performs a GET and decodes the JSON object body.
//
// Non-2xx responses wrap [shared.ErrAPIRequest] (and [shared.ErrServiceUnavailable] for 5xx);
// bodies that are not a JSON object wrap [shared.ErrDecode].
func (s *SoundCloudService) Get(ctx context.Context, pathOrURL string, params url.Values) (models.Resource, error) {
	resp, err := s.Raw(ctx, pathOrURL, params)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %w: GET %s: status %d", shared.ErrAPIRequest, shared.ErrServiceUnavailable, pathOrURL, resp.StatusCode)
	case !resp.OK():
		return nil, fmt.Errorf("%w: GET %s: status %d", shared.ErrAPIRequest, pathOrURL, resp.StatusCode)
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()

	var res models.Resource
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", shared.ErrDecode, pathOrURL, err)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: GET %s: body is not a JSON object", shared.ErrDecode, pathOrURL)
	}
	return res, nil
}

// Resolve maps any public SoundCloud URL to its API object.
func (s *SoundCloudService) Resolve(ctx context.Context, resourceURL string) (models.Resource, error) {
	res, err := s.Get(ctx, "resolve", url.Values{"url": {resourceURL}})
	if err != nil {
		return nil, err
	}

	id, _ := res.ID()
	s.logger.Debug("resolved", "url", resourceURL, "kind", res.Kind(), "id", id)
	return res, nil
}

func (s *SoundCloudService) Track(ctx context.Context, id int64) (models.Resource, error) {
	return s.Get(ctx, fmt.Sprintf("tracks/%d", id), nil)
}

func (s *SoundCloudService) User(ctx context.Context, id int64) (models.Resource, error) {
	return s.Get(ctx, fmt.Sprintf("users/%d", id), nil)
}

func (s *SoundCloudService) Playlist(ctx context.Context, id int64) (models.Resource, error) {
	return s.Get(ctx, fmt.Sprintf("playlists/%d", id), nil)
}

// CommentsPage fetches one page of comments for a track.
func (s *SoundCloudService) CommentsPage(ctx context.Context, trackID int64, limit, offset int) (models.Resource, error) {
	return s.Get(ctx, fmt.Sprintf("tracks/%d/comments", trackID), pageParams(limit, offset))
}

// SearchTracksPage fetches one page of track search results for q.
func (s *SoundCloudService) SearchTracksPage(ctx context.Context, q string, limit, offset int) (models.Resource, error) {
	params := pageParams(limit, offset)
	params.Set("q", q)
	return s.Get(ctx, "search/tracks", params)
}

func pageParams(limit, offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}
