// Package content is the text of the page: one block per section, drawn
// over the 3D background, loaded from YAML or taken from built-in defaults.
package content

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RepoURL is the agent-core repository the projects section links to.
const RepoURL = "https://github.com/sebas2906/ai-agent-core"

// Link is a clickable line, rendered as a terminal hyperlink.
type Link struct {
	Label string `yaml:"label" validate:"required"`
	URL   string `yaml:"url" validate:"required,url"`
}

// Section is one scroll-height block of the page.
type Section struct {
	Title string   `yaml:"title" validate:"required"`
	Body  []string `yaml:"body"`
	Link  *Link    `yaml:"link,omitempty" validate:"omitempty"`
	// Model optionally replaces the section's default shape with a glTF
	// or GLB file. Relative paths resolve against the content file.
	Model string `yaml:"model,omitempty"`
	// Chat marks the section that hosts the chat widget.
	Chat bool `yaml:"chat,omitempty"`
}

// Page is the whole page.
type Page struct {
	// Tagline types out under the first section's title.
	Tagline string `yaml:"tagline"`
	// Accent, as #rrggbb, replaces the default object and highlight color.
	Accent   string    `yaml:"accent,omitempty" validate:"omitempty,hexcolor,len=7"`
	Sections []Section `yaml:"sections" validate:"required,min=1,dive"`
}

// Default returns the built-in three-section page.
func Default() *Page {
	return &Page{
		Tagline: "Developer building AI agents, APIs and interactive web experiences.",
		Sections: []Section{
			{
				Title: "Welcome",
				Body: []string{
					"Scroll to explore. Move the mouse to look around.",
				},
			},
			{
				Title: "Projects",
				Body: []string{
					"ai-agent-core: a conversational agent service with",
					"retrieval, tool calling and persistent threads.",
					"It powers the chat at the bottom of this page.",
				},
				Link: &Link{Label: "View on GitHub", URL: RepoURL},
			},
			{
				Title: "Contact",
				Body: []string{
					"Ask the agent anything about my work.",
					"Press Tab to type, Enter to send.",
				},
				Chat: true,
			},
		},
	}
}

var validate = validator.New()

// Parse decodes and validates a YAML page.
func Parse(data []byte) (*Page, error) {
	var p Page
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	return &p, nil
}

// Load reads a YAML page from path.
func Load(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range p.Sections {
		if m := p.Sections[i].Model; m != "" && !filepath.IsAbs(m) {
			p.Sections[i].Model = filepath.Join(dir, m)
		}
	}
	return p, nil
}

// ChatSection returns the index of the chat section, or -1.
func (p *Page) ChatSection() int {
	for i, s := range p.Sections {
		if s.Chat {
			return i
		}
	}
	return -1
}

// Models returns each section's model path, "" for the default shape.
func (p *Page) Models() []string {
	out := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		out[i] = s.Model
	}
	return out
}
