// ABOUTME: The starpr landing page: YAML content rendered through an HTML template with markdown fields.
// ABOUTME: Produces the document every editor session starts from.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/2389-research/starpr/page"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

//go:embed templates/page.html
var templatesFS embed.FS

// Content is everything the landing page shows.
type Content struct {
	Title      string    `yaml:"title"`
	Navigation []NavLink `yaml:"navigation"`
	Hero       Hero      `yaml:"hero"`
	About      string    `yaml:"about"`
	Services   []Service `yaml:"services"`
	Team       []Member  `yaml:"team"`
	Contacts   Contacts  `yaml:"contacts"`
	Brands     []Brand   `yaml:"brands"`
	Publishers []string  `yaml:"publishers"`
	FAQ        []FAQ     `yaml:"faq"`
}

// NavLink is one header navigation entry.
type NavLink struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

type Hero struct {
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Badges   []Badge `yaml:"badges"`
}

type Badge struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type Service struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Member struct {
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Avatar string `yaml:"avatar"`
}

type Brand struct {
	Name string `yaml:"name"`
	Logo string `yaml:"logo"`
}

type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Contacts holds the raw contact values; empty means not set.
type Contacts struct {
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Telegram string `yaml:"telegram"`
}

// ContactLink is one rendered contact anchor.
type ContactLink struct {
	ID       string
	Href     string
	Text     string
	External bool
}

func contactLink(id, value, href, text string) ContactLink {
	if strings.TrimSpace(value) == "" {
		return ContactLink{ID: id, Href: "#", Text: "(not set)"}
	}
	return ContactLink{ID: id, Href: href, Text: text, External: true}
}

func (c Contacts) PhoneLink() ContactLink {
	return contactLink("phoneLink", c.Phone, "tel:"+strings.ReplaceAll(c.Phone, " ", ""), c.Phone)
}

func (c Contacts) EmailLink() ContactLink {
	return contactLink("emailLink", c.Email, "mailto:"+c.Email, c.Email)
}

func (c Contacts) TelegramLink() ContactLink {
	text := c.Telegram
	if strings.Contains(c.Telegram, "t.me") {
		text = "Message on Telegram"
	}
	return contactLink("telegramLink", c.Telegram, c.Telegram, text)
}

// DefaultContent returns the built-in page content.
func DefaultContent() (Content, error) {
	return parseContent(defaultContent, "built-in content")
}

// LoadContent reads content from a YAML file. An empty path returns the
// built-in content.
func LoadContent(path string) (Content, error) {
	if path == "" {
		return DefaultContent()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read content: %w", err)
	}
	return parseContent(data, path)
}

func parseContent(data []byte, name string) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Content{}, fmt.Errorf("parse content %s: %w", name, err)
	}
	if strings.TrimSpace(c.Hero.Title) == "" {
		return Content{}, fmt.Errorf("content %s: hero.title is required", name)
	}
	return c, nil
}

// Site renders content into the landing page.
type Site struct {
	content Content
	tmpl    *template.Template
	now     func() time.Time
}

// pageData is what the template sees: the content plus render-time values.
type pageData struct {
	Content
	Year int
}

// New parses the page template for content.
func New(content Content) (*Site, error) {
	tmpl, err := template.New("page.html").
		Funcs(template.FuncMap{"markdown": markdownToHTML}).
		ParseFS(templatesFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Site{content: content, tmpl: tmpl, now: time.Now}, nil
}

// Content returns the content the site renders.
func (s *Site) Content() Content {
	return s.content
}

// Render writes the landing page to w. The footer year is the year at
// render time.
func (s *Site) Render(w io.Writer) error {
	data := pageData{Content: s.content, Year: s.now().Year()}
	if err := s.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Document renders the page and parses it into a fresh document.
func (s *Site) Document() (*page.Document, error) {
	var buf bytes.Buffer
	if err := s.Render(&buf); err != nil {
		return nil, err
	}
	return page.Parse(&buf)
}

// markdownToHTML converts a markdown string to HTML using goldmark.
// Raw HTML in the input is dropped by goldmark's default renderer.
func markdownToHTML(input string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(input), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(input))
	}
	return template.HTML(buf.String())
}
