package tagql

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagList(t *testing.T) {
	tests := []struct {
		input string
		want  TagSet
	}{
		{"", TagSet{}},
		{"   ", TagSet{}},
		{"a", TagSet{NewTag("a")}},
		{"a=1,b,c=3", TagSet{NewValueTag("a", "1"), NewTag("b"), NewValueTag("c", "3")}},
		{"a , b = c", TagSet{NewTag("a"), NewValueTag("b", "c")}},
		{"a=1,a=2", TagSet{NewValueTag("a", "1"), NewValueTag("a", "2")}},
		{"n=-5", TagSet{NewValueTag("n", "-5")}},
		{"ns:key=über", TagSet{NewValueTag("ns:key", "über")}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTagList(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseTagList(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseTagListErrors(t *testing.T) {
	tests := []struct {
		input   string
		variant Variant
		kind    error
		pos     int
	}{
		{"a,", Extended, ErrUnexpectedEOF, 2},
		{"a=", Extended, ErrUnexpectedEOF, 2},
		{",a", Extended, ErrUnexpectedCharacter, 0},
		{"a b", Extended, ErrTrailingInput, 2},
		{"a=b=c", Extended, ErrTrailingInput, 3},
		{"a.*", Extended, ErrTrailingInput, 1},
		{"über", Basic, ErrUnexpectedCharacter, 0},
		{"a;ü", Extended, ErrTrailingInput, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := tt.variant.ParseTagList(tt.input)
			require.ErrorIs(t, err, tt.kind)
			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.pos, perr.Pos)
		})
	}
}

func TestTagSetString(t *testing.T) {
	tags := mustTags(t, "a = 1 , b,c=3")
	assert.Equal(t, "a=1,b,c=3", tags.String())
	assert.Equal(t, "", TagSet{}.String())

	again, err := ParseTagList(tags.String())
	require.NoError(t, err)
	assert.Equal(t, tags, again)
}

func TestTagSetLookup(t *testing.T) {
	tags := mustTags(t, "a=1,b,a=2")

	got, ok := tags.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, NewValueTag("a", "1"), got)

	got, ok = tags.Lookup("b")
	require.True(t, ok)
	assert.False(t, got.HasValue)

	_, ok = tags.Lookup("c")
	assert.False(t, ok)
}

func TestTagSetClone(t *testing.T) {
	tags := mustTags(t, "a=1")
	clone := tags.Clone()
	clone[0].Value = "2"
	assert.Equal(t, "1", tags[0].Value)
	assert.Nil(t, TagSet(nil).Clone())
}
