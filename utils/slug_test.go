package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"My Test Organization", "my-test-organization"},
		{"My  Test   Organization", "my-test-organization"},
		{"  Acme Corp.  ", "acme-corp"},
		{"ACME!!!", "acme"},
		{"foo_bar/baz", "foo-bar-baz"},
		{"--hello--", "hello"},
		{"123 Go", "123-go"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.name), "Slugify(%q)", tc.name)
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	name := "Orbita — Consultoria & Serviços"
	first := Slugify(name)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Slugify(name))
	}
}
