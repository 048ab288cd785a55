// Package urls classifies SoundCloud URLs by the kind of resource they point to.
//
// Classification is pure: it never touches the network and never fails. A URL that
// cannot be parsed, uses a non-HTTP scheme, or is not hosted on soundcloud.com is
// reported with Valid = false.
package urls

import (
	"net"
	"net/url"
	"strings"
)

// Domain is the platform domain every valid URL must belong to.
const Domain = "soundcloud.com"

// ResourceType is the kind of resource a URL refers to.
type ResourceType string

const (
	Track    ResourceType = "track"
	Playlist ResourceType = "playlist"
	Album    ResourceType = "album"
	User     ResourceType = "user"
	Search   ResourceType = "search"
	Unknown  ResourceType = "unknown"
)

// Paginated reports whether fetching this type can drive paginated requests.
func (t ResourceType) Paginated() bool {
	return t == Track || t == Search
}

// Classification is the result of [Classify].
type Classification struct {
	Valid         bool         `json:"is_valid"`
	Type          ResourceType `json:"resource_type"`
	NormalizedURL string       `json:"normalized_url"`
	SearchTerm    string       `json:"search_term,omitempty"`
	HasSearchTerm bool         `json:"-"`
}

// Skippable reports whether dispatch should skip this URL without treating it as a failure.
func (c Classification) Skippable() bool {
	return !c.Valid || c.Type == Unknown
}

func (c Classification) String() string {
	if !c.Valid {
		return "invalid"
	}
	if c.Type == Search {
		if !c.HasSearchTerm {
			return "search (no term)"
		}
		return "search: " + c.SearchTerm
	}
	return string(c.Type)
}

// Classify maps a raw URL string to a [Classification].
//
// Path rules, first match wins:
//
//	/search... or ?q=...     search
//	/{user}/sets/{slug}      playlist
//	/{user}/albums/{slug}    album
//	/{user}/{slug}           track
//	/{user}                  user
//	/                        unknown (still valid)
func Classify(raw string) Classification {
	result := Classification{Type: Unknown, NormalizedURL: raw}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return result
	}

	if !strings.HasPrefix(strings.ToLower(u.Scheme), "http") {
		return result
	}
	if !IsPlatformHost(u.Host) {
		return result
	}

	result.Valid = true
	segments := pathSegments(u.Path)
	query := u.Query()

	if containsSegment(segments, "search") || query.Has("q") {
		result.Type = Search
		if values := query["q"]; len(values) > 0 {
			result.SearchTerm = values[0]
			result.HasSearchTerm = true
		}
		return result
	}

	switch {
	case len(segments) >= 3 && segments[1] == "sets":
		result.Type = Playlist
	case len(segments) >= 3 && segments[1] == "albums":
		result.Type = Album
	case len(segments) >= 2:
		result.Type = Track
	case len(segments) == 1:
		result.Type = User
	}
	return result
}

// IsPlatformHost reports whether host (optionally with a port) is soundcloud.com or one of its subdomains.
func IsPlatformHost(host string) bool {
	host = strings.ToLower(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	return host == Domain || strings.HasSuffix(host, "."+Domain)
}

func pathSegments(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func containsSegment(segments []string, want string) bool {
	for _, s := range segments {
		if s == want {
			return true
		}
	}
	return false
}
