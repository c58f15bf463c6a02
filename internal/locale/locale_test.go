package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]Tag{
		"ko":    Korean,
		"EN":    English,
		"en-US": English,
		"ko_KR": Korean,
		" en ":  English,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("fr")
	assert.ErrorIs(t, err, ErrUnknownLocale)
	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUnknownLocale)
}

func TestMatch(t *testing.T) {
	assert.Equal(t, English, Match("en-GB,en;q=0.9"))
	assert.Equal(t, Korean, Match("ko-KR,ko;q=0.9,en;q=0.8"))
	assert.Equal(t, English, Match("fr-FR,en;q=0.5"))
	assert.Equal(t, Default, Match(""))
	assert.Equal(t, Default, Match("!!!"))
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "Korean", Korean.Language())
	assert.Equal(t, "English", English.Language())
}

func TestStoreLookup(t *testing.T) {
	s := MustLoad()

	v, ok := s.Lookup(English, "roles.continue")
	require.True(t, ok)
	assert.Equal(t, "Continue", v)

	v, ok = s.Lookup(Korean, "purpose.title")
	require.True(t, ok)
	assert.NotEmpty(t, v)

	_, ok = s.Lookup(English, "roles.missing")
	assert.False(t, ok)
	_, ok = s.Lookup(English, "roles")
	assert.False(t, ok, "non-leaf keys are not strings")
	_, ok = s.Lookup(Tag("fr"), "roles.continue")
	assert.False(t, ok)

	assert.Equal(t, "nav.nowhere", s.Text(English, "nav.nowhere"))
	assert.Equal(t, "Yes", s.Text(English, "clarification.yes"))
}

func TestStoreList(t *testing.T) {
	s := MustLoad()
	roles := s.List(English, "roles.roleOptions.recipientRoles")
	assert.Contains(t, roles, "Legal")
	assert.Contains(t, roles, "Engineering")
	assert.Len(t, s.List(Korean, "roles.roleOptions.recipientRoles"), len(roles))
	assert.Nil(t, s.List(English, "roles.continue"))
}

func TestTablesHaveSameShape(t *testing.T) {
	s := MustLoad()
	var walk func(prefix string, a, b map[string]any)
	walk = func(prefix string, a, b map[string]any) {
		for k, av := range a {
			bv, ok := b[k]
			if !assert.True(t, ok, "missing key %s%s", prefix, k) {
				continue
			}
			if am, ok := av.(map[string]any); ok {
				bm, ok := bv.(map[string]any)
				require.True(t, ok, "key %s%s changes type", prefix, k)
				walk(prefix+k+".", am, bm)
			}
		}
	}
	walk("", s.Table(English), s.Table(Korean))
	walk("", s.Table(Korean), s.Table(English))
}
