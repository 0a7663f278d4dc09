// Package userform is the entry point for embedding the user management form.
// It re-exports the constructors most callers need so the internal packages
// stay hidden.
package userform

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	internalLoader "github.com/goliatone/go-userform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-userform/internal/openapi/parser"
	"github.com/goliatone/go-userform/pkg/model"
	pkgopenapi "github.com/goliatone/go-userform/pkg/openapi"
	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/html"
)

// RenderOptions aliases render.RenderOptions so callers do not need the
// render package for simple use.
type RenderOptions = render.RenderOptions

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewOrchestrator returns an orchestrator with the bundled schema, HTML and
// text renderers unless options replace them.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders an empty create-mode page for the resolved schema with
// the given users listed.
func RenderHTML(ctx context.Context, users []model.User, options ...orchestrator.Option) ([]byte, error) {
	orch := orchestrator.New(options...)
	doc, err := orch.Schema(ctx)
	if err != nil {
		return nil, err
	}
	page := render.NewPage(doc.Form, doc.Fields, nil, "", users)
	result, err := orch.Render(ctx, orchestrator.Request{Renderer: html.Name, Page: page})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeProvider registers manifests and the default theme and variant.
func WithThemeProvider(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) orchestrator.Option {
	return orchestrator.WithThemeProvider(defaultTheme, defaultVariant, manifests...)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// EmbeddedAssets exposes the bundled stylesheet for serving over HTTP.
func EmbeddedAssets() fs.FS {
	return html.AssetsFS()
}
