// Raw HTTP access to the SoundCloud API
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Raw performs a GET request and returns the response regardless of status code.
//
// client_id is always added to params. The call waits on the rate limiter first.
func (s *SoundCloudService) Raw(ctx context.Context, pathOrURL string, params url.Values) (*APIResponse, error) {
	if s.clientID == "" {
		return nil, fmt.Errorf("%w: %s is not set", shared.ErrMissingCredentials, shared.EnvClientID)
	}

	fullURL, err := s.buildURL(pathOrURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", acceptHeader)

	s.logger.Debug("requesting", "path", pathOrURL, "params", redact(params))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	apiResp := &APIResponse{
		URL:        pathOrURL,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// buildURL joins relative paths to the base URL and merges params into the query,
// keeping any query already present on an absolute URL (e.g. a next_href).
func (s *SoundCloudService) buildURL(pathOrURL string, params url.Values) (string, error) {
	raw := pathOrURL
	if !strings.HasPrefix(pathOrURL, "http://") && !strings.HasPrefix(pathOrURL, "https://") {
		raw = strings.TrimRight(s.baseURL, "/") + "/" + strings.TrimLeft(pathOrURL, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	q := u.Query()
	for k, vs := range params {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("client_id", s.clientID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redact drops credentials from params before logging.
func redact(params url.Values) string {
	c := url.Values{}
	for k, vs := range params {
		if k == "client_id" {
			continue
		}
		c[k] = vs
	}
	return c.Encode()
}
