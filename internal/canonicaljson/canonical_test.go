package canonicaljson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	out, err := Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestMarshal_Scalars(t *testing.T) {
	assert.Equal(t, "null", marshal(t, nil))
	assert.Equal(t, "true", marshal(t, true))
	assert.Equal(t, "false", marshal(t, false))
	assert.Equal(t, "42", marshal(t, 42))
	assert.Equal(t, "-7", marshal(t, int64(-7)))
	assert.Equal(t, "0.5", marshal(t, 0.5))
	assert.Equal(t, `"hello"`, marshal(t, "hello"))
}

func TestMarshal_Time(t *testing.T) {
	ts := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, `"2026-01-01T12:00:00Z"`, marshal(t, ts))
}

func TestMarshal_SortsObjectKeys(t *testing.T) {
	out := marshal(t, map[string]any{
		"b": int64(2),
		"a": int64(1),
		"c": int64(3),
	})
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, out)
}

func TestMarshal_NestedStructures(t *testing.T) {
	out := marshal(t, map[string]any{
		"page": map[string]any{
			"parameters": map[string]any{"__paged_param_0": "40000000-0000-0000-0000-000000000000"},
			"query":      "{ Animal { name } }",
		},
		"advisories": []any{},
	})
	assert.Equal(t,
		`{"advisories":[],"page":{"parameters":{"__paged_param_0":"40000000-0000-0000-0000-000000000000"},"query":"{ Animal { name } }"}}`,
		out)
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	out := marshal(t, map[string]any{"op": "<"})
	assert.Equal(t, `{"op":"<"}`, out)
}

func TestMarshal_NFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	decomposed := "é"
	assert.Equal(t, `"é"`, marshal(t, decomposed))
}

func TestMarshal_UnsupportedType(t *testing.T) {
	type widget struct{ Name string }
	_, err := Marshal(widget{Name: "x"})
	assert.Error(t, err)
}

func TestLessUTF16_SupplementaryCharacters(t *testing.T) {
	// U+FF61 is a single code unit above the surrogate range; U+10000 is a
	// surrogate pair starting at 0xD800. UTF-16 order differs from UTF-8
	// byte order here.
	assert.True(t, lessUTF16("\U00010000", "｡"))
	assert.False(t, lessUTF16("｡", "\U00010000"))
}

func TestMarshal_Deterministic(t *testing.T) {
	v := map[string]any{"z": []any{int64(1), "two", 3.0}, "a": true}
	assert.Equal(t, marshal(t, v), marshal(t, v))
}
