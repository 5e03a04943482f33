package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkills(t *testing.T) {
	cases := map[string][]string{
		"a,b,c":          {"a", "b", "c"},
		" go , sql ,k8s": {"go", "sql", "k8s"},
		"a,,b,":          {"a", "b"},
		"go,Go,go":       {"go", "Go"},
		",":              {},
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseSkills(raw), raw)
	}
}

func TestClone(t *testing.T) {
	p := Profile{Bio: "x", Skills: []string{"go"}}
	c := p.Clone()
	c.Skills[0] = "rust"
	assert.Equal(t, "go", p.Skills[0])

	assert.Nil(t, Profile{}.Clone().Skills)
}
