package urls

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		want    ResourceType
		term    string
		hasTerm bool
	}{
		{name: "track", url: "https://soundcloud.com/artist/track-slug", valid: true, want: Track},
		{name: "track with www", url: "https://www.soundcloud.com/artist/track-slug", valid: true, want: Track},
		{name: "track on mobile host", url: "http://m.soundcloud.com/artist/track-slug", valid: true, want: Track},
		{name: "track with trailing slash", url: "https://soundcloud.com/artist/track-slug/", valid: true, want: Track},
		{name: "track with extra segments", url: "https://soundcloud.com/artist/track-slug/comments", valid: true, want: Track},
		{name: "track with in= query", url: "https://soundcloud.com/artist/track?in=artist/sets/mix", valid: true, want: Track},
		{name: "playlist", url: "https://soundcloud.com/artist/sets/summer-mix", valid: true, want: Playlist},
		{name: "album", url: "https://soundcloud.com/artist/albums/debut", valid: true, want: Album},
		{name: "sets with two segments is a track", url: "https://soundcloud.com/artist/sets", valid: true, want: Track},
		{name: "user", url: "https://soundcloud.com/artist", valid: true, want: User},
		{name: "host with port", url: "https://soundcloud.com:443/artist", valid: true, want: User},
		{name: "root is unknown but valid", url: "https://soundcloud.com/", valid: true, want: Unknown},
		{name: "bare host", url: "https://soundcloud.com", valid: true, want: Unknown},
		{name: "search with q", url: "https://soundcloud.com/search?q=lofi", valid: true, want: Search, term: "lofi", hasTerm: true},
		{name: "search sounds path", url: "https://soundcloud.com/search/sounds?q=lo%20fi", valid: true, want: Search, term: "lo fi", hasTerm: true},
		{name: "search takes first q", url: "https://soundcloud.com/search?q=a&q=b", valid: true, want: Search, term: "a", hasTerm: true},
		{name: "search without q", url: "https://soundcloud.com/search", valid: true, want: Search},
		{name: "q on user path", url: "https://soundcloud.com/artist?q=house", valid: true, want: Search, term: "house", hasTerm: true},
		{name: "empty q", url: "https://soundcloud.com/search?q=", valid: true, want: Search, term: "", hasTerm: true},
		{name: "search segment deeper", url: "https://soundcloud.com/artist/search", valid: true, want: Search},
		{name: "other host", url: "https://example.com/artist/track", want: Unknown},
		{name: "lookalike host", url: "https://notsoundcloud.com/artist/track", want: Unknown},
		{name: "domain in path only", url: "https://example.com/soundcloud.com/artist", want: Unknown},
		{name: "ftp scheme", url: "ftp://soundcloud.com/artist/track", want: Unknown},
		{name: "no scheme", url: "soundcloud.com/artist/track", want: Unknown},
		{name: "malformed", url: "http://[::1]:namedport", want: Unknown},
		{name: "control characters", url: "https://soundcloud.com/\x7f", want: Unknown},
		{name: "empty", url: "", want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.url)

			if got.Valid != tt.valid {
				t.Errorf("Classify(%q).Valid = %v, want %v", tt.url, got.Valid, tt.valid)
			}
			if got.Type != tt.want {
				t.Errorf("Classify(%q).Type = %v, want %v", tt.url, got.Type, tt.want)
			}
			if got.SearchTerm != tt.term {
				t.Errorf("Classify(%q).SearchTerm = %q, want %q", tt.url, got.SearchTerm, tt.term)
			}
			if got.HasSearchTerm != tt.hasTerm {
				t.Errorf("Classify(%q).HasSearchTerm = %v, want %v", tt.url, got.HasSearchTerm, tt.hasTerm)
			}
			if got.NormalizedURL != tt.url {
				t.Errorf("Classify(%q).NormalizedURL = %q", tt.url, got.NormalizedURL)
			}
		})
	}
}

func TestClassification(t *testing.T) {
	t.Run("Skippable", func(t *testing.T) {
		cases := map[string]bool{
			"https://example.com/a/b":         true,
			"https://soundcloud.com/":         true,
			"https://soundcloud.com/artist":   false,
			"https://soundcloud.com/search":   false,
			"https://soundcloud.com/a/sets/b": false,
		}
		for u, want := range cases {
			if got := Classify(u).Skippable(); got != want {
				t.Errorf("Classify(%q).Skippable() = %v, want %v", u, got, want)
			}
		}
	})

	t.Run("String", func(t *testing.T) {
		cases := map[string]string{
			"https://example.com":                 "invalid",
			"https://soundcloud.com/a/b":          "track",
			"https://soundcloud.com/search":       "search (no term)",
			"https://soundcloud.com/search?q=dub": "search: dub",
		}
		for u, want := range cases {
			if got := Classify(u).String(); got != want {
				t.Errorf("Classify(%q).String() = %q, want %q", u, got, want)
			}
		}
	})

	t.Run("Paginated", func(t *testing.T) {
		for _, rt := range []ResourceType{Track, Search} {
			if !rt.Paginated() {
				t.Errorf("%s should be paginated", rt)
			}
		}
		for _, rt := range []ResourceType{Playlist, Album, User, Unknown} {
			if rt.Paginated() {
				t.Errorf("%s should not be paginated", rt)
			}
		}
	})
}

func TestIsPlatformHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"soundcloud.com", true},
		{"SoundCloud.com", true},
		{"on.soundcloud.com", true},
		{"api-v2.soundcloud.com:443", true},
		{"soundcloud.com.", true},
		{"soundcloud.co", false},
		{"evilsoundcloud.com", false},
		{"soundcloud.com.evil.net", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := IsPlatformHost(tt.host); got != tt.want {
				t.Errorf("IsPlatformHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}
