package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
)

func resource(t *testing.T, s string) models.Resource {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var r models.Resource
	if err := dec.Decode(&r); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return r
}

func TestTrack(t *testing.T) {
	t.Run("Full Track", func(t *testing.T) {
		r := resource(t, `{
			"id": 123, "kind": "track", "title": "Song", "duration": 180000,
			"artwork_url": "https://i1.sndcdn.com/a.jpg", "comment_count": 9,
			"purchase_url": "https://buy", "genre": "House",
			"user": {"username": "dj", "followers_count": 50, "verified": true},
			"media": {"transcodings": []}
		}`)

		rec := Track(r, nil)
		if rec.ID == nil || *rec.ID != 123 || rec.Title != "Song" {
			t.Errorf("unexpected identity: %+v", rec)
		}
		if *rec.CommentCount != 9 {
			t.Errorf("expected comment_count 9, got %d", *rec.CommentCount)
		}
		if rec.User.Username != "dj" || !rec.User.Verified || *rec.User.FollowersCount != 50 {
			t.Errorf("unexpected user: %+v", rec.User)
		}
		if rec.Comments == nil || len(rec.Comments) != 0 {
			t.Errorf("expected empty, non-nil comments, got %v", rec.Comments)
		}
		if _, ok := rec.Media["transcodings"]; !ok {
			t.Error("expected media to be carried through")
		}
	})

	t.Run("Fallbacks", func(t *testing.T) {
		r := resource(t, `{
			"id": 1, "artwork_url": null, "artwork_url_template": "https://i1.sndcdn.com/{size}.jpg",
			"purchase_url": "", "purchase_title": "Free Download",
			"user": {"permalink": "dj-perma"}
		}`)
		comments := []models.CommentRecord{{Body: "a"}, {Body: "b"}}

		rec := Track(r, comments)
		if rec.ArtworkURL != "https://i1.sndcdn.com/{size}.jpg" {
			t.Errorf("expected artwork template fallback, got %q", rec.ArtworkURL)
		}
		if rec.PurchaseURL != "Free Download" {
			t.Errorf("expected purchase_title fallback, got %q", rec.PurchaseURL)
		}
		if rec.User.Username != "dj-perma" {
			t.Errorf("expected permalink fallback, got %q", rec.User.Username)
		}
		if rec.CommentCount == nil || *rec.CommentCount != 2 {
			t.Errorf("expected comment_count fallback to 2, got %v", rec.CommentCount)
		}
	})

	t.Run("Missing Comment Count Without Comments", func(t *testing.T) {
		rec := Track(resource(t, `{"id": 1}`), nil)
		if rec.CommentCount != nil {
			t.Errorf("expected nil comment_count, got %d", *rec.CommentCount)
		}
	})

	t.Run("Explicit Zero Comment Count Is Kept", func(t *testing.T) {
		rec := Track(resource(t, `{"id": 1, "comment_count": 0}`), []models.CommentRecord{{Body: "x"}})
		if rec.CommentCount == nil || *rec.CommentCount != 0 {
			t.Errorf("expected comment_count 0, got %v", rec.CommentCount)
		}
	})
}

func TestComments(t *testing.T) {
	raw := []models.Resource{
		resource(t, `{"body": "nice", "timestamp": 12000, "user": {"username": "a"}}`),
		resource(t, `{"comment": "legacy", "created_at": "2024-01-01T00:00:00Z", "user": {"permalink": "b"}}`),
		resource(t, `{"body": "", "timestamp": 0, "user": {"name": "C"}}`),
		resource(t, `{}`),
	}

	got := Comments(raw)
	if len(got) != 4 {
		t.Fatalf("expected 4 comments, got %d", len(got))
	}

	tests := []struct {
		body, user string
		timestamp  any
	}{
		{"nice", "a", json.Number("12000")},
		{"legacy", "b", "2024-01-01T00:00:00Z"},
		{"", "C", nil},
		{"", "", nil},
	}
	for i, tt := range tests {
		if got[i].Body != tt.body || got[i].User.Username != tt.user || got[i].Timestamp != tt.timestamp {
			t.Errorf("comment %d: expected %+v, got %+v", i, tt, got[i])
		}
	}
}

func TestPlaylist(t *testing.T) {
	t.Run("Album With Track Count", func(t *testing.T) {
		r := resource(t, `{
			"id": 77, "kind": "album", "title": "LP", "track_count": 12,
			"user": {"id": 5, "permalink": "artist", "name": "The Artist", "verified": true},
			"tracks": [{"id": 1, "title": "One", "duration": 1000}, {"id": 2}]
		}`)

		rec := Playlist(r)
		if rec.RecordKind() != models.KindAlbum || rec.TrackCount != 12 {
			t.Errorf("unexpected album: kind=%s count=%d", rec.RecordKind(), rec.TrackCount)
		}
		if rec.User.Username != "artist" || rec.User.FullName != "The Artist" || *rec.User.ID != 5 {
			t.Errorf("unexpected user: %+v", rec.User)
		}
		if len(rec.Tracks) != 2 || rec.Tracks[0].Title != "One" || *rec.Tracks[0].Duration != 1000 {
			t.Errorf("unexpected tracks: %+v", rec.Tracks)
		}
	})

	t.Run("Track Count Fallback", func(t *testing.T) {
		rec := Playlist(resource(t, `{"id": 1, "kind": "playlist", "tracks": [{"id": 1}, {"id": 2}, {"id": 3}]}`))
		if rec.TrackCount != 3 {
			t.Errorf("expected track_count fallback to 3, got %d", rec.TrackCount)
		}
	})

	t.Run("No Tracks", func(t *testing.T) {
		rec := Playlist(resource(t, `{"id": 1, "kind": "playlist"}`))
		if rec.Tracks == nil || rec.TrackCount != 0 {
			t.Errorf("expected empty non-nil tracks, got %v (count %d)", rec.Tracks, rec.TrackCount)
		}
	})
}

func TestUser(t *testing.T) {
	r := resource(t, `{
		"id": 9, "permalink": "someone", "name": "Some One", "city": "Berlin",
		"country_code": "DE", "followers_count": 10, "followings_count": 3, "track_count": 4,
		"avatar_url_template": "https://i1.sndcdn.com/avatars/{size}.jpg"
	}`)

	rec := User(r)
	if rec.Username != "someone" || rec.FullName != "Some One" {
		t.Errorf("expected name fallbacks, got %q / %q", rec.Username, rec.FullName)
	}
	if rec.AvatarURL != "https://i1.sndcdn.com/avatars/{size}.jpg" {
		t.Errorf("expected avatar template fallback, got %q", rec.AvatarURL)
	}
	if rec.Verified {
		t.Error("expected verified to default to false")
	}
	if *rec.FollowingCount != 3 || *rec.TrackCount != 4 || rec.City != "Berlin" {
		t.Errorf("unexpected counters: %+v", rec)
	}
}
