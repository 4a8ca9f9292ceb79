package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"punctuation", "React Summit 2026!!", "react-summit-2026"},
		{"surrounding whitespace", "   Next.js Conference  ", "nextjs-conference"},
		{"hyphen runs", "Go -- Meetup --- Berlin", "go-meetup-berlin"},
		{"leading and trailing hyphens", "--TypeScript Bootcamp--", "typescript-bootcamp"},
		{"tabs and newlines", "Web\tDev\n\nHackathon", "web-dev-hackathon"},
		{"underscore separates", "go_lang  meetup", "go-lang-meetup"},
		{"non ascii letters dropped", "Café Night", "caf-night"},
		{"non breaking space", "Dev\u00a0Fest", "dev-fest"},
		{"symbols only", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slug(tc.title))
		})
	}
}

func TestSlug_AlwaysCanonical(t *testing.T) {
	titles := []string{
		"React Summit 2026!!",
		"  A  ",
		"--- x ---",
		"C# & .NET Day",
		"Node.js / Deno / Bun",
		"Hello, World! (2nd edition)",
		"__init__",
		"MIXED case TITLE 42",
	}

	for _, title := range titles {
		slug := Slug(title)
		assert.NotEmpty(t, slug, title)
		assert.True(t, IsSlug(slug), "slug %q from %q is not canonical", slug, title)
		assert.Equal(t, slug, Slug(slug), "slug of a slug should be stable")
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("react-summit-2026"))
	assert.True(t, IsSlug("a"))
	assert.False(t, IsSlug(""))
	assert.False(t, IsSlug("React-Summit"))
	assert.False(t, IsSlug("-react"))
	assert.False(t, IsSlug("react--summit"))
	assert.False(t, IsSlug("react_summit"))
}
