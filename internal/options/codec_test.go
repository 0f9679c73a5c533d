package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sets := []Set{
		{{Label: "A", Text: "3"}, {Label: "B", Text: "4"}},
		{{Label: "D", Text: "last"}, {Label: "A", Text: "first"}, {Label: "C", Text: "中文 选项"}},
		{{Label: "1", Text: `quote " and \ backslash`}},
		{{Label: "x", Text: ""}},
	}
	for _, s := range sets {
		raw := Encode(s)
		got, err := Decode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, s, got)
	}
}

func TestEncodePreservesOrder(t *testing.T) {
	raw := Encode(Set{{Label: "B", Text: "b"}, {Label: "A", Text: "a"}})
	assert.Equal(t, `[["B","b"],["A","a"]]`, raw)
}

func TestEncodeEmptySentinel(t *testing.T) {
	assert.Equal(t, "[]", Encode(nil))
	assert.Equal(t, "[]", Encode(Set{}))

	got, err := Decode("[]")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		"",
		"null",
		"{'A': '3', 'B': '4'}",
		`{"A":"3"}`,
		`[["A"]]`,
		`[["A","x","y"]]`,
		`[[1,2]]`,
		`[["","x"]]`,
		`[["A","x"],["A","y"]]`,
		`[["A","x"]`,
	}
	for _, in := range inputs {
		got, err := Decode(in)
		require.Error(t, err, in)
		assert.Nil(t, got, in)
		assert.True(t, errors.Is(err, ErrDecode), in)

		var decErr *DecodeError
		require.True(t, errors.As(err, &decErr), in)
		assert.Equal(t, in, decErr.Raw)
	}
}

func TestSetValidate(t *testing.T) {
	assert.NoError(t, Set{{Label: "A", Text: "a"}, {Label: "B", Text: "b"}}.Validate())
	assert.Error(t, Set{{Label: " ", Text: "a"}}.Validate())
	assert.Error(t, Set{{Label: "A,B", Text: "a"}}.Validate())
	assert.NoError(t, Set{{Label: "A", Text: " "}}.Validate())
	assert.Error(t, Set{{Label: "A", Text: "a"}, {Label: "A", Text: "b"}}.Validate())
}

func TestSetLookupAndLabels(t *testing.T) {
	s := Set{{Label: "A", Text: "3"}, {Label: "B", Text: "4"}}
	assert.Equal(t, []string{"A", "B"}, s.Labels())
	text, ok := s.Lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "4", text)
	_, ok = s.Lookup("C")
	assert.False(t, ok)
}

func TestParsePair(t *testing.T) {
	o, err := ParsePair(" A = 2 + 2 = 4 ")
	require.NoError(t, err)
	assert.Equal(t, Option{Label: "A", Text: "2 + 2 = 4"}, o)

	for _, in := range []string{"A", "=text", "A=", ""} {
		_, err := ParsePair(in)
		assert.Error(t, err, in)
	}
}
