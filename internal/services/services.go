// package services defines interface Service for interacting with the SoundCloud HTTP API
package services

import (
	"context"
	"net/url"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
)

// Service is the remote call collaborator: one GET returning a decoded JSON object.
type Service interface {
	// Get fetches pathOrURL with params. Absolute URLs are used as-is; paths are joined to the base URL.
	Get(ctx context.Context, pathOrURL string, params url.Values) (models.Resource, error)

	// Name returns the name of the service.
	Name() string
}
