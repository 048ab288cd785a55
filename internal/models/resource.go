package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Resource is a decoded JSON object from the SoundCloud API.
//
// Accessors take an ordered list of keys and return the first usable value,
// so fallbacks such as username → permalink are written as data, not branches.
// Numbers are expected as [json.Number] (decoder UseNumber) but float64 and int work too.
type Resource map[string]any

// Kind returns the resource "kind" field (track, playlist, user, ...).
func (r Resource) Kind() string {
	return r.String("kind")
}

// ID returns the numeric "id" field.
func (r Resource) ID() (int64, bool) {
	id := r.Int("id")
	if id == nil {
		return 0, false
	}
	return *id, true
}

// Collection returns the objects in the first of keys holding a non-empty array.
// Defaults to "collection".
func (r Resource) Collection(keys ...string) []Resource {
	if len(keys) == 0 {
		keys = []string{"collection"}
	}
	for _, k := range keys {
		if items := r.Objects(k); len(items) > 0 {
			return items
		}
	}
	return nil
}

// HasNext reports whether the page carries a next-page indicator (next_href or next).
func (r Resource) HasNext() bool {
	for _, k := range []string{"next_href", "next"} {
		switch v := r[k].(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return true
			}
		case bool:
			if v {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// String returns the first non-empty string value among keys.
func (r Resource) String(keys ...string) string {
	for _, k := range keys {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first integer-like value among keys, or nil when none is present.
func (r Resource) Int(keys ...string) *int64 {
	for _, k := range keys {
		if n, ok := toInt(r[k]); ok {
			return &n
		}
	}
	return nil
}

// Bool returns the first boolean among keys, or def when none is present.
func (r Resource) Bool(def bool, keys ...string) bool {
	for _, k := range keys {
		if b, ok := r[k].(bool); ok {
			return b
		}
	}
	return def
}

// Object returns the nested object at key; a missing or non-object value yields an empty Resource.
func (r Resource) Object(key string) Resource {
	switch v := r[key].(type) {
	case map[string]any:
		return Resource(v)
	case Resource:
		return v
	}
	return Resource{}
}

// Objects returns the nested objects in the array at key, skipping non-object elements.
func (r Resource) Objects(key string) []Resource {
	var raw []any
	switch v := r[key].(type) {
	case []any:
		raw = v
	case []Resource:
		return v
	default:
		return nil
	}

	items := make([]Resource, 0, len(raw))
	for _, item := range raw {
		switch obj := item.(type) {
		case map[string]any:
			items = append(items, Resource(obj))
		case Resource:
			items = append(items, obj)
		}
	}
	return items
}

// Raw returns the value at key untouched.
func (r Resource) Raw(key string) any {
	return r[key]
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
