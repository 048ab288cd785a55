package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
)

// scrapeInput is the contents of an input JSON file.
//
// Override fields are nil when the file does not mention them.
type scrapeInput struct {
	URLs            []string
	IncludeComments *bool
	EndPage         *int
	MaxItems        *int
}

// loadInput reads an input file holding "urls" (or "url_list") and optional
// includeComments, endPage and maxItems overrides.
func loadInput(path string) (*scrapeInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return parseInput(data)
}

func parseInput(data []byte) (*scrapeInput, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: input is not a JSON object: %v", shared.ErrInvalidInput, err)
	}

	list, ok := raw["urls"].([]any)
	if !ok || len(list) == 0 {
		list, ok = raw["url_list"].([]any)
	}
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: input JSON must contain a non-empty 'urls' array", shared.ErrInvalidInput)
	}

	in := &scrapeInput{URLs: make([]string, 0, len(list))}
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: urls[%d] is not a string", shared.ErrInvalidInput, i)
		}
		in.URLs = append(in.URLs, s)
	}

	if v, ok := raw["includeComments"]; ok {
		b := truthy(v)
		in.IncludeComments = &b
	}

	// non-integer values fall back to unlimited
	if v, ok := raw["endPage"]; ok {
		n, _ := integer(v)
		n = max(n, 0)
		in.EndPage = &n
	}
	if v, ok := raw["maxItems"]; ok {
		n, ok := integer(v)
		if !ok || n <= 0 {
			n = 0
		}
		in.MaxItems = &n
	}

	return in, nil
}

func integer(v any) (int, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	n, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

// apply layers the file's overrides onto the scrape config.
func (in *scrapeInput) apply(cfg *shared.ScrapeConfig) {
	if in.IncludeComments != nil {
		cfg.IncludeComments = *in.IncludeComments
	}
	if in.EndPage != nil {
		cfg.EndPage = *in.EndPage
	}
	if in.MaxItems != nil {
		cfg.MaxItems = *in.MaxItems
	}
}
