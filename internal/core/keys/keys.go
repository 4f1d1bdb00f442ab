// Package keys builds deterministic, namespaced cache keys. Identical logical
// inputs always produce the identical key string; structured inputs are
// serialized to JSON (which orders map keys) and base64-encoded so the result
// stays glob-safe for pattern invalidation.
package keys

import (
	"encoding/base64"
	"encoding/json"
)

// User builds a key for a per-user resource: user:<id>:<resource>.
func User(userID, resource string) string {
	return "user:" + userID + ":" + resource
}

// Resource builds a key for a single shared entity: resource:<id>.
func Resource(id string) string {
	return "resource:" + id
}

// Search builds a key for a search result set: search:<encoded query+filters>.
func Search(query string, filters map[string]any) string {
	payload := struct {
		Query   string         `json:"query"`
		Filters map[string]any `json:"filters,omitempty"`
	}{Query: query, Filters: filters}
	return "search:" + encode(payload)
}

// Analytics builds a key for an aggregate metric: analytics:<type>:<period>
// with an optional trailing user id segment.
func Analytics(kind, period string, userID ...string) string {
	key := "analytics:" + kind + ":" + period
	if len(userID) > 0 && userID[0] != "" {
		key += ":" + userID[0]
	}
	return key
}

// API builds a key for an upstream API response: api:<endpoint> with an
// optional encoded parameter segment.
func API(endpoint string, params map[string]any) string {
	key := "api:" + endpoint
	if len(params) > 0 {
		key += ":" + encode(params)
	}
	return key
}

func encode(v any) string {
	b, _ := json.Marshal(v)
	return base64.RawURLEncoding.EncodeToString(b)
}
