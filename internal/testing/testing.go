// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
)

// MockClient is a scripted SoundCloud API double.
//
// Resources are looked up by URL or id; paginated endpoints delegate to the
// CommentsFn and SearchFn funcs. Every call is appended to Calls.
type MockClient struct {
	Resolved   map[string]models.Resource
	ResolveErr map[string]error
	Tracks     map[int64]models.Resource
	Users      map[int64]models.Resource
	Playlists  map[int64]models.Resource
	CommentsFn func(trackID int64, limit, offset int) (models.Resource, error)
	SearchFn   func(q string, limit, offset int) (models.Resource, error)
	Calls      []string
}

// ErrNotFound is returned by [MockClient] for unscripted resources.
var ErrNotFound = errors.New("mock: resource not found")

func (m *MockClient) record(format string, args ...any) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

func (m *MockClient) Resolve(ctx context.Context, resourceURL string) (models.Resource, error) {
	m.record("resolve %s", resourceURL)
	if err := m.ResolveErr[resourceURL]; err != nil {
		return nil, err
	}
	if r, ok := m.Resolved[resourceURL]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *MockClient) Track(ctx context.Context, id int64) (models.Resource, error) {
	m.record("track %d", id)
	return lookup(m.Tracks, id)
}

func (m *MockClient) User(ctx context.Context, id int64) (models.Resource, error) {
	m.record("user %d", id)
	return lookup(m.Users, id)
}

func (m *MockClient) Playlist(ctx context.Context, id int64) (models.Resource, error) {
	m.record("playlist %d", id)
	return lookup(m.Playlists, id)
}

func (m *MockClient) CommentsPage(ctx context.Context, trackID int64, limit, offset int) (models.Resource, error) {
	m.record("comments %d limit=%d offset=%d", trackID, limit, offset)
	if m.CommentsFn == nil {
		return models.Resource{"collection": []any{}}, nil
	}
	return m.CommentsFn(trackID, limit, offset)
}

func (m *MockClient) SearchTracksPage(ctx context.Context, q string, limit, offset int) (models.Resource, error) {
	m.record("search %s limit=%d offset=%d", q, limit, offset)
	if m.SearchFn == nil {
		return models.Resource{"collection": []any{}}, nil
	}
	return m.SearchFn(q, limit, offset)
}

// CallCount returns how many recorded calls start with prefix.
func (m *MockClient) CallCount(prefix string) int {
	n := 0
	for _, c := range m.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func lookup(items map[int64]models.Resource, id int64) (models.Resource, error) {
	if r, ok := items[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Page builds a collection page of n objects with sequential ids from startID.
// When next is true the page carries a next_href.
func Page(n int, startID int64, next bool) models.Resource {
	items := make([]any, 0, n)
	for i := range n {
		id := startID + int64(i)
		items = append(items, map[string]any{
			"id":    json.Number(fmt.Sprint(id)),
			"kind":  "track",
			"title": fmt.Sprintf("Track %d", id),
			"body":  fmt.Sprintf("comment %d", id),
		})
	}

	page := models.Resource{"collection": items}
	if next {
		page["next_href"] = fmt.Sprintf("https://api-v2.soundcloud.com/next?offset=%d", startID+int64(n))
	}
	return page
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
