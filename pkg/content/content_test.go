package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()
	require.Len(t, p.Sections, 3)
	assert.Equal(t, 2, p.ChatSection())
	require.NotNil(t, p.Sections[1].Link)
	assert.Equal(t, RepoURL, p.Sections[1].Link.URL)
	assert.Equal(t, []string{"", "", ""}, p.Models())
	assert.NoError(t, validate.Struct(p))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid",
			yaml: `
tagline: hi there
accent: "#ff8800"
sections:
  - title: One
    body: [a, b]
  - title: Two
    link: {label: Repo, url: "https://example.com/repo"}
    chat: true
`,
		},
		{name: "no sections", yaml: "tagline: x\n", wantErr: "invalid content"},
		{name: "missing title", yaml: "sections:\n  - body: [x]\n", wantErr: "Title"},
		{name: "bad link", yaml: "sections:\n  - title: A\n    link: {label: L, url: not-a-url}\n", wantErr: "URL"},
		{name: "bad yaml", yaml: "sections: [\n", wantErr: "parse content"},
		{name: "short accent", yaml: "accent: \"#fff\"\nsections:\n  - title: A\n", wantErr: "Accent"},
		{name: "accent not hex", yaml: "accent: blue\nsections:\n  - title: A\n", wantErr: "Accent"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse([]byte(tc.yaml))
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hi there", p.Tagline)
			assert.Equal(t, "#ff8800", p.Accent)
			assert.Len(t, p.Sections, 2)
			assert.Equal(t, 1, p.ChatSection())
		})
	}
}

func TestLoadResolvesModelPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.yaml")
	data := "sections:\n  - title: A\n    model: models/trophy.glb\n  - title: B\n    model: /abs/cup.glb\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "models/trophy.glb"), "/abs/cup.glb"}, p.Models())
	assert.Equal(t, -1, p.ChatSection())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read content")
}

func TestTypewriter(t *testing.T) {
	tw := NewTypewriter("  hello \n  world  ", false)
	assert.Equal(t, "hello world", tw.Text())

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, ""},
		{499 * time.Millisecond, ""},
		{500 * time.Millisecond, ""},
		{540 * time.Millisecond, "h"},
		{500*time.Millisecond + 5*TypingCharDelay, "hello"},
		{time.Minute, "hello world"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tw.Visible(tc.elapsed), "elapsed %v", tc.elapsed)
	}
	assert.False(t, tw.Done(900*time.Millisecond))
	assert.False(t, tw.Done(500*time.Millisecond+10*TypingCharDelay))
	assert.True(t, tw.Done(500*time.Millisecond+11*TypingCharDelay))
	assert.True(t, tw.Done(time.Minute))
}

func TestTypewriterReducedMotion(t *testing.T) {
	tw := NewTypewriter("instant text", true)
	assert.Equal(t, "instant text", tw.Visible(0))
	assert.True(t, tw.Done(0))
}

func TestTypewriterMultibyte(t *testing.T) {
	tw := NewTypewriter("héllo", false)
	assert.Equal(t, "hé", tw.Visible(500*time.Millisecond+2*TypingCharDelay))
}
