// Package normalize converts raw SoundCloud API objects into output records.
//
// Alternate field names are declared in ordered fallback tables; the first
// key holding a usable value wins.
package normalize

import (
	"encoding/json"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
)

// Fallback tables. Order matters.
var (
	UsernameKeys        = []string{"username", "permalink"}
	CommentUsernameKeys = []string{"username", "permalink", "name"}
	FullNameKeys        = []string{"full_name", "name"}
	AvatarKeys          = []string{"avatar_url", "avatar_url_template"}
	ArtworkKeys         = []string{"artwork_url", "artwork_url_template"}
	PurchaseKeys        = []string{"purchase_url", "purchase_title"}
	CommentBodyKeys     = []string{"body", "comment"}
	CommentTimeKeys     = []string{"timestamp", "created_at"}
	CommentItemKeys     = []string{"collection", "comments"}
)

// Track builds a track record. comments are attached as-is; when the track
// carries no comment_count and comments is non-empty, the count falls back to len(comments).
func Track(r models.Resource, comments []models.CommentRecord) *models.TrackRecord {
	if comments == nil {
		comments = []models.CommentRecord{}
	}

	user := r.Object("user")
	media := r.Object("media")

	rec := &models.TrackRecord{
		ArtworkURL:    r.String(ArtworkKeys...),
		Caption:       r.String("caption"),
		CommentCount:  r.Int("comment_count"),
		CreatedAt:     r.String("created_at"),
		Description:   r.String("description"),
		Duration:      r.Int("duration"),
		Genre:         r.String("genre"),
		ID:            r.Int("id"),
		LikesCount:    r.Int("likes_count"),
		PermalinkURL:  r.String("permalink_url"),
		PlaybackCount: r.Int("playback_count"),
		PurchaseURL:   r.String(PurchaseKeys...),
		RepostsCount:  r.Int("reposts_count"),
		Title:         r.String("title"),
		URI:           r.String("uri"),
		User: models.TrackUser{
			Username:       user.String(UsernameKeys...),
			FollowersCount: user.Int("followers_count"),
			Verified:       user.Bool(false, "verified"),
		},
		Comments: comments,
		Media:    media,
	}

	if rec.CommentCount == nil && len(comments) > 0 {
		n := int64(len(comments))
		rec.CommentCount = &n
	}
	return rec
}

// Comments normalizes raw comment objects in order.
func Comments(raw []models.Resource) []models.CommentRecord {
	out := make([]models.CommentRecord, 0, len(raw))
	for _, c := range raw {
		out = append(out, models.CommentRecord{
			Body:      c.String(CommentBodyKeys...),
			Timestamp: firstValue(c, CommentTimeKeys...),
			User: models.CommentUser{
				Username: c.Object("user").String(CommentUsernameKeys...),
			},
		})
	}
	return out
}

// Playlist builds a playlist or album record with simplified embedded tracks.
// track_count falls back to the number of embedded tracks.
func Playlist(r models.Resource) *models.PlaylistRecord {
	raw := r.Objects("tracks")
	tracks := make([]models.PlaylistTrack, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, models.PlaylistTrack{
			ID:            t.Int("id"),
			Title:         t.String("title"),
			Duration:      t.Int("duration"),
			PermalinkURL:  t.String("permalink_url"),
			PlaybackCount: t.Int("playback_count"),
			LikesCount:    t.Int("likes_count"),
			RepostsCount:  t.Int("reposts_count"),
		})
	}

	count := int64(len(tracks))
	if n := r.Int("track_count"); n != nil && *n != 0 {
		count = *n
	}

	user := r.Object("user")
	return &models.PlaylistRecord{
		ID:           r.Int("id"),
		Kind:         r.Kind(),
		Title:        r.String("title"),
		Description:  r.String("description"),
		Genre:        r.String("genre"),
		TrackCount:   count,
		Duration:     r.Int("duration"),
		PermalinkURL: r.String("permalink_url"),
		ReleaseDate:  r.String("release_date"),
		User: models.PlaylistUser{
			ID:             user.Int("id"),
			Username:       user.String(UsernameKeys...),
			FullName:       user.String(FullNameKeys...),
			FollowersCount: user.Int("followers_count"),
			Verified:       user.Bool(false, "verified"),
		},
		Tracks: tracks,
	}
}

// User builds a user profile record.
func User(r models.Resource) *models.UserRecord {
	return &models.UserRecord{
		ID:             r.Int("id"),
		Username:       r.String(UsernameKeys...),
		FullName:       r.String(FullNameKeys...),
		City:           r.String("city"),
		CountryCode:    r.String("country_code"),
		FollowersCount: r.Int("followers_count"),
		FollowingCount: r.Int("followings_count"),
		TrackCount:     r.Int("track_count"),
		Verified:       r.Bool(false, "verified"),
		AvatarURL:      r.String(AvatarKeys...),
		PermalinkURL:   r.String("permalink_url"),
		URI:            r.String("uri"),
	}
}

// firstValue returns the first value among keys that is present and not empty or zero.
func firstValue(r models.Resource, keys ...string) any {
	for _, k := range keys {
		switch v := r.Raw(k).(type) {
		case nil:
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			if f, err := v.Float64(); err != nil || f != 0 {
				return v
			}
		case float64:
			if v != 0 {
				return v
			}
		case bool:
			if v {
				return v
			}
		default:
			return v
		}
	}
	return nil
}
