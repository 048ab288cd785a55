package models

// Record kinds as they appear in output and in the run history store.
const (
	KindTrack    = "track"
	KindPlaylist = "playlist"
	KindAlbum    = "album"
	KindUser     = "user"
)

// Record is a normalized output record.
type Record interface {
	RecordKind() string
	SoundCloudID() *int64
	Label() string
}

var (
	_ Record = (*TrackRecord)(nil)
	_ Record = (*PlaylistRecord)(nil)
	_ Record = (*UserRecord)(nil)
)

// TrackUser is the uploader summary embedded in a [TrackRecord].
type TrackUser struct {
	Username       string `json:"username"`
	FollowersCount *int64 `json:"followers_count"`
	Verified       bool   `json:"verified"`
}

// CommentUser identifies a comment author.
type CommentUser struct {
	Username string `json:"username"`
}

// CommentRecord is a single normalized comment.
type CommentRecord struct {
	Body      string      `json:"body"`
	Timestamp any         `json:"timestamp"` // track position in ms, or created_at when absent
	User      CommentUser `json:"user"`
}

// TrackRecord is a normalized track.
type TrackRecord struct {
	ArtworkURL    string          `json:"artwork_url"`
	Caption       string          `json:"caption"`
	CommentCount  *int64          `json:"comment_count"`
	CreatedAt     string          `json:"created_at"`
	Description   string          `json:"description"`
	Duration      *int64          `json:"duration"`
	Genre         string          `json:"genre"`
	ID            *int64          `json:"id"`
	LikesCount    *int64          `json:"likes_count"`
	PermalinkURL  string          `json:"permalink_url"`
	PlaybackCount *int64          `json:"playback_count"`
	PurchaseURL   string          `json:"purchase_url"`
	RepostsCount  *int64          `json:"reposts_count"`
	Title         string          `json:"title"`
	URI           string          `json:"uri"`
	User          TrackUser       `json:"user"`
	Comments      []CommentRecord `json:"comments"`
	Media         Resource        `json:"media"`
}

func (t *TrackRecord) RecordKind() string   { return KindTrack }
func (t *TrackRecord) SoundCloudID() *int64 { return t.ID }
func (t *TrackRecord) Label() string        { return t.Title }

// PlaylistTrack is the simplified form of a track embedded in a playlist.
type PlaylistTrack struct {
	ID            *int64 `json:"id"`
	Title         string `json:"title"`
	Duration      *int64 `json:"duration"`
	PermalinkURL  string `json:"permalink_url"`
	PlaybackCount *int64 `json:"playback_count"`
	LikesCount    *int64 `json:"likes_count"`
	RepostsCount  *int64 `json:"reposts_count"`
}

// PlaylistUser is the owner summary embedded in a [PlaylistRecord].
type PlaylistUser struct {
	ID             *int64 `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	FollowersCount *int64 `json:"followers_count"`
	Verified       bool   `json:"verified"`
}

// PlaylistRecord is a normalized playlist or album.
type PlaylistRecord struct {
	ID           *int64          `json:"id"`
	Kind         string          `json:"kind"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Genre        string          `json:"genre"`
	TrackCount   int64           `json:"track_count"`
	Duration     *int64          `json:"duration"`
	PermalinkURL string          `json:"permalink_url"`
	ReleaseDate  string          `json:"release_date"`
	User         PlaylistUser    `json:"user"`
	Tracks       []PlaylistTrack `json:"tracks"`
}

// RecordKind returns album for albums and playlist otherwise.
func (p *PlaylistRecord) RecordKind() string {
	if p.Kind == KindAlbum {
		return KindAlbum
	}
	return KindPlaylist
}
func (p *PlaylistRecord) SoundCloudID() *int64 { return p.ID }
func (p *PlaylistRecord) Label() string        { return p.Title }

// UserRecord is a normalized user profile.
type UserRecord struct {
	ID             *int64 `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	City           string `json:"city"`
	CountryCode    string `json:"country_code"`
	FollowersCount *int64 `json:"followers_count"`
	FollowingCount *int64 `json:"followings_count"`
	TrackCount     *int64 `json:"track_count"`
	Verified       bool   `json:"verified"`
	AvatarURL      string `json:"avatar_url"`
	PermalinkURL   string `json:"permalink_url"`
	URI            string `json:"uri"`
}

func (u *UserRecord) RecordKind() string   { return KindUser }
func (u *UserRecord) SoundCloudID() *int64 { return u.ID }
func (u *UserRecord) Label() string        { return u.Username }
