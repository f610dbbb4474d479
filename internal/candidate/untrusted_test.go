package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUntrusted(t *testing.T) {
	u, err := ParseUntrusted([]byte(`{"Candidate_Name": "Jane", "experiences": []}`))
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.String("candidate_name"))

	u, err = ParseUntrusted([]byte(`[1, 2]`))
	assert.Error(t, err)
	assert.NotNil(t, u)

	u, err = ParseUntrusted([]byte(`not json`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
	assert.NotNil(t, u)
}

func TestUntrusted_StringCoercion(t *testing.T) {
	u := Untrusted{
		"years":   12.5,
		"count":   3,
		"flag":    true,
		"nothing": "null",
		"nested":  map[string]any{"a": 1},
		"list":    []any{"a", 2.0, nil},
		"padded":  "  text  ",
	}

	assert.Equal(t, "12.5", u.String("years"))
	assert.Equal(t, "3", u.String("count"))
	assert.Equal(t, "true", u.String("flag"))
	assert.Equal(t, "", u.String("nothing"))
	assert.Equal(t, "", u.String("nested"))
	assert.Equal(t, "a, 2", u.String("list"))
	assert.Equal(t, "text", u.String("padded"))
	assert.Equal(t, "", u.String("missing"))
}

func TestUntrusted_GetTriesAliasesInOrder(t *testing.T) {
	u := Untrusted{"full_name": "Second", "NAME": "First"}
	assert.Equal(t, "First", u.String("name", "full_name"))
	assert.Equal(t, "Second", u.String("full_name", "name"))
}

func TestUntrusted_GetSkipsNil(t *testing.T) {
	u := Untrusted{"name": nil, "full_name": "Fallback"}
	assert.Equal(t, "Fallback", u.String("name", "full_name"))
}

func TestUntrusted_List(t *testing.T) {
	u := Untrusted{"one": "single", "many": []any{"a", "b"}, "strings": []string{"x"}}
	assert.Equal(t, []any{"single"}, u.List("one"))
	assert.Equal(t, []any{"a", "b"}, u.List("many"))
	assert.Equal(t, []any{"x"}, u.List("strings"))
	assert.Nil(t, u.List("missing"))

	assert.Nil(t, u.Slice("one"))
	assert.Equal(t, []any{"a", "b"}, u.Slice("many"))
}

func TestUntrusted_Bool(t *testing.T) {
	u := Untrusted{"a": true, "b": "yes", "c": "Not Found", "d": "maybe"}

	v, ok := u.Bool("a")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = u.Bool("b")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = u.Bool("c")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = u.Bool("d")
	assert.False(t, ok)

	_, ok = u.Bool("missing")
	assert.False(t, ok)
}

func TestUntrusted_SetReplacesAliases(t *testing.T) {
	u := Untrusted{"Work_Experience": []any{"old"}, "other": 1}
	u.Set([]any{"new"}, "experiences", "work_experience")

	assert.NotContains(t, u, "Work_Experience")
	assert.Equal(t, []any{"new"}, u["experiences"])
	assert.Equal(t, 1, u["other"])
}

func TestUntrusted_CloneIsShallowCopy(t *testing.T) {
	u := Untrusted{"a": "1"}
	c := u.Clone()
	c["a"] = "2"
	assert.Equal(t, "1", u["a"])
}
