// Package artifact renders the branded deployment bundle for a scanner:
// markup entry point, embed snippet, stylesheet, widget script and API
// documentation, one directory per scanner UID.
package artifact

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// File names inside a bundle directory.
const (
	MarkupFile = "index.html"
	EmbedFile  = "embed-snippet.html"
	StylesFile = "scanner-styles.css"
	ScriptFile = "scanner-script.js"
	DocsFile   = "api-docs.md"
)

const (
	defaultPrimaryColor   = "#02054c"
	defaultSecondaryColor = "#35a8c5"
)

// Bundle reports where a rendered deployment lives and how to reach it.
type Bundle struct {
	Dir        string
	EmbedURL   string
	DocsURL    string
	RenderedAt time.Time
}

// Generator renders deployment bundles under a content root. It reads no
// stores: branding comes in as an argument.
type Generator struct {
	root    string
	baseURL string

	markup *template.Template
	embed  *template.Template
	styles *texttemplate.Template
	script *texttemplate.Template
	docs   *texttemplate.Template
}

type templateData struct {
	ScannerUID     string
	BusinessName   string
	BaseURL        string
	PrimaryColor   string
	SecondaryColor string
	ButtonColor    string
	LogoPath       string
	FaviconPath    string
}

// NewGenerator constructs a Generator writing under root. baseURL is the
// public prefix under which the scanner routes are served, including any API
// mount point; every URL in a rendered bundle is built from it.
func NewGenerator(root, baseURL string) (*Generator, error) {
	g := &Generator{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	var err error
	if g.markup, err = template.New(MarkupFile).Parse(markupTemplate); err != nil {
		return nil, fmt.Errorf("parse markup template: %w", err)
	}
	if g.embed, err = template.New(EmbedFile).Parse(embedSnippetTemplate); err != nil {
		return nil, fmt.Errorf("parse embed template: %w", err)
	}
	if g.styles, err = texttemplate.New(StylesFile).Parse(stylesTemplate); err != nil {
		return nil, fmt.Errorf("parse styles template: %w", err)
	}
	if g.script, err = texttemplate.New(ScriptFile).Parse(scriptTemplate); err != nil {
		return nil, fmt.Errorf("parse script template: %w", err)
	}
	if g.docs, err = texttemplate.New(DocsFile).Parse(docsTemplate); err != nil {
		return nil, fmt.Errorf("parse docs template: %w", err)
	}

	return g, nil
}

// BundleDir returns the directory a scanner's bundle renders into.
func (g *Generator) BundleDir(scannerUID string) string {
	return filepath.Join(g.root, "deployments", scannerUID)
}

// Stale reports whether the bundle must be re-rendered: either it has never
// been rendered, or the branding changed after the last render.
func (g *Generator) Stale(scannerUID string, branding domain.Branding) bool {
	info, err := os.Stat(filepath.Join(g.BundleDir(scannerUID), MarkupFile))
	if err != nil {
		return true
	}
	return branding.UpdatedAt.After(info.ModTime())
}

// Render writes the full bundle for the scanner, overwriting any previous
// render in place.
func (g *Generator) Render(scanner domain.Scanner, businessName string) (*Bundle, error) {
	dir := g.BundleDir(scanner.UID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bundle dir: %w", err)
	}

	data := templateData{
		ScannerUID:     scanner.UID,
		BusinessName:   businessName,
		BaseURL:        g.baseURL,
		PrimaryColor:   orDefault(scanner.Branding.PrimaryColor, defaultPrimaryColor),
		SecondaryColor: orDefault(scanner.Branding.SecondaryColor, defaultSecondaryColor),
		ButtonColor:    orDefault(scanner.Branding.ButtonColor, orDefault(scanner.Branding.PrimaryColor, defaultPrimaryColor)),
		LogoPath:       scanner.Branding.LogoPath,
		FaviconPath:    scanner.Branding.FaviconPath,
	}

	files := []struct {
		name string
		exec func(f *os.File) error
	}{
		{MarkupFile, func(f *os.File) error { return g.markup.Execute(f, data) }},
		{EmbedFile, func(f *os.File) error { return g.embed.Execute(f, data) }},
		{StylesFile, func(f *os.File) error { return g.styles.Execute(f, data) }},
		{ScriptFile, func(f *os.File) error { return g.script.Execute(f, data) }},
		{DocsFile, func(f *os.File) error { return g.docs.Execute(f, data) }},
	}

	for _, file := range files {
		if err := writeFile(filepath.Join(dir, file.name), file.exec); err != nil {
			return nil, err
		}
	}

	return &Bundle{
		Dir:        dir,
		EmbedURL:   fmt.Sprintf("%s/scanner/%s/embed", g.baseURL, scanner.UID),
		DocsURL:    fmt.Sprintf("%s/scanner/%s/docs", g.baseURL, scanner.UID),
		RenderedAt: time.Now().UTC(),
	}, nil
}

// RenderIfStale renders only when the bundle is missing or out of date,
// reporting whether a render happened.
func (g *Generator) RenderIfStale(scanner domain.Scanner, businessName string) (*Bundle, bool, error) {
	if !g.Stale(scanner.UID, scanner.Branding) {
		return nil, false, nil
	}
	bundle, err := g.Render(scanner, businessName)
	if err != nil {
		return nil, false, err
	}
	return bundle, true, nil
}

func writeFile(path string, exec func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := exec(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
