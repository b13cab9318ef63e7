package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"net/url"
	"text/template"
)

//go:embed *.tmpl pages/*.html
var FS embed.FS

// Pages lists the page templates parsed on top of the shared layout.
var Pages = []string{"home", "search", "story", "reader", "rankings", "author", "error"}

var (
	robotsTmpl      *template.Template
	sitemapTmpl     *template.Template
	schemaSiteTmpl  *template.Template
	schemaStoryTmpl *template.Template
	pages           map[string]*htmltemplate.Template
)

var textFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"pathEscape": url.PathEscape,
}

// Init parses every embedded template. funcs is made available to the
// page templates.
func Init(funcs htmltemplate.FuncMap) error {
	var err error

	robotsTmpl, err = template.ParseFS(FS, "robots.txt.tmpl")
	if err != nil {
		return err
	}

	sitemapTmpl, err = template.New("sitemap.xml.tmpl").Funcs(textFuncs).ParseFS(FS, "sitemap.xml.tmpl")
	if err != nil {
		return err
	}

	schemaSiteTmpl, err = template.New("schema_website.html.tmpl").Funcs(textFuncs).ParseFS(FS, "schema_website.html.tmpl")
	if err != nil {
		return err
	}

	schemaStoryTmpl, err = template.New("schema_story.html.tmpl").Funcs(textFuncs).ParseFS(FS, "schema_story.html.tmpl")
	if err != nil {
		return err
	}

	layout, err := htmltemplate.New("layout.html").Funcs(funcs).ParseFS(FS, "pages/layout.html", "pages/partials.html")
	if err != nil {
		return err
	}

	parsed := make(map[string]*htmltemplate.Template, len(Pages))
	for _, name := range Pages {
		t, err := layout.Clone()
		if err != nil {
			return err
		}
		if _, err := t.ParseFS(FS, "pages/"+name+".html"); err != nil {
			return fmt.Errorf("parse page %s: %w", name, err)
		}
		parsed[name] = t
	}
	pages = parsed

	return nil
}

// RenderPage writes the named page wrapped in the site layout.
func RenderPage(w io.Writer, name string, data any) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

type RobotsData struct {
	Domain string
}

func RenderRobots(data RobotsData) (string, error) {
	var buf bytes.Buffer
	if err := robotsTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type StaticPage struct {
	Path     string
	Priority string
}

type SitemapStory struct {
	ID        string
	UpdatedAt interface{ Format(string) string }
}

type SitemapData struct {
	Domain      string
	StaticPages []StaticPage
	Stories     []SitemapStory
	Authors     []string
}

func RenderSitemap(data SitemapData) (string, error) {
	var buf bytes.Buffer
	if err := sitemapTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type SchemaWebsiteData struct {
	Domain      string
	Canonical   string
	Title       string
	Description string
}

func RenderSchemaWebsite(data SchemaWebsiteData) (string, error) {
	var buf bytes.Buffer
	if err := schemaSiteTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type SchemaStoryData struct {
	Domain      string
	Canonical   string
	Description string
	Story       SchemaStory
}

type SchemaStory struct {
	ID       string
	Title    string
	Author   string
	Genre    string
	Status   string
	CoverURL string
	Rating   float64
	Chapters int
}

func RenderSchemaStory(data SchemaStoryData) (string, error) {
	var buf bytes.Buffer
	if err := schemaStoryTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
