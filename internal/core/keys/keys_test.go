package keys_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestmarket/cache-service/internal/core/keys"
)

func TestUser(t *testing.T) {
	assert.Equal(t, "user:42:profile", keys.User("42", "profile"))
	assert.Equal(t, "user:42:orders", keys.User("42", "orders"))
}

func TestResource(t *testing.T) {
	assert.Equal(t, "resource:product:7", keys.Resource("product:7"))
}

func TestSearch_Deterministic(t *testing.T) {
	a := keys.Search("tomato", map[string]any{"category": "produce", "organic": true})
	b := keys.Search("tomato", map[string]any{"organic": true, "category": "produce"})

	assert.Equal(t, a, b, "map insertion order must not change the key")
	assert.True(t, strings.HasPrefix(a, "search:"))
}

func TestSearch_EncodedPayload(t *testing.T) {
	key := keys.Search("tomato", map[string]any{"category": "produce", "organic": true})

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(key, "search:"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"tomato","filters":{"category":"produce","organic":true}}`, string(raw))
}

func TestSearch_EmptyFiltersNormalized(t *testing.T) {
	withNil := keys.Search("carrots", nil)
	withEmpty := keys.Search("carrots", map[string]any{})

	assert.Equal(t, withNil, withEmpty, "nil and empty filters are the same search")
}

func TestSearch_DistinctInputsDistinctKeys(t *testing.T) {
	a := keys.Search("tomato", map[string]any{"organic": true})
	b := keys.Search("tomato", map[string]any{"organic": false})
	c := keys.Search("potato", map[string]any{"organic": true})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSearch_GlobSafe(t *testing.T) {
	key := keys.Search(`odd "query" with * and ?`, map[string]any{"range": "[1-9]"})

	encoded := strings.TrimPrefix(key, "search:")
	assert.False(t, strings.ContainsAny(encoded, `*?[]\`), "encoded segment must not contain glob metacharacters")
}

func TestAnalytics(t *testing.T) {
	assert.Equal(t, "analytics:sales:2026-08", keys.Analytics("sales", "2026-08"))
	assert.Equal(t, "analytics:sales:2026-08:42", keys.Analytics("sales", "2026-08", "42"))
	assert.Equal(t, "analytics:sales:2026-08", keys.Analytics("sales", "2026-08", ""))
}

func TestAPI(t *testing.T) {
	assert.Equal(t, "api:weather/forecast", keys.API("weather/forecast", nil))

	withParams := keys.API("weather/forecast", map[string]any{"region": "valley", "days": 3})
	assert.True(t, strings.HasPrefix(withParams, "api:weather/forecast:"))

	again := keys.API("weather/forecast", map[string]any{"days": 3, "region": "valley"})
	assert.Equal(t, withParams, again)
}
