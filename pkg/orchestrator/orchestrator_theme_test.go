package orchestrator

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/html"
	"github.com/goliatone/go-userform/pkg/schema"
)

func TestOrchestrator_PassesThemeConfigToRenderer(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
	}
	selection := &theme.Selection{
		Theme:    "acme",
		Variant:  "custom-variant",
		Manifest: manifest,
	}
	selector := &stubThemeSelector{selection: selection}

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithThemeSelector(selector),
	)

	_, err := orch.Render(context.Background(), Request{
		Page:         testPage(),
		ThemeName:    "custom-theme",
		ThemeVariant: "custom-variant",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(selector.calls) != 1 {
		t.Fatalf("expected selector called once, got %d", len(selector.calls))
	}
	if selector.calls[0].name != "custom-theme" || selector.calls[0].variant != "custom-variant" {
		t.Fatalf("unexpected selector args: %+v", selector.calls[0])
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != selection.Theme || cfg.Variant != selection.Variant {
		t.Fatalf("selection mismatch: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.AssetURL == nil || cfg.AssetURL(html.StylesheetAsset) != "" {
		t.Fatalf("expected AssetURL resolver returning empty for unknown assets")
	}
	if got := cfg.Partials[html.PagePartial]; got != defaultThemeFallbacks()[html.PagePartial] {
		t.Fatalf("partials not merged with fallbacks: got %s", got)
	}
	if cfg.Tokens["brand"] != "#123456" || cfg.CSSVars["--brand"] != "#123456" {
		t.Fatalf("tokens not propagated: %+v %+v", cfg.Tokens, cfg.CSSVars)
	}
}

func TestOrchestrator_WithThemeProviderUsesDefaults(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			html.PagePartial: "themes/acme/page",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				html.StylesheetAsset: "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"userform.users": "themes/acme/dark/users",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"userform.logo": "logo.dark.svg",
					},
				},
			},
		},
	}

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithThemeProvider("acme", "dark", manifest),
	)

	if _, err := orch.Render(context.Background(), Request{Page: testPage()}); err != nil {
		t.Fatalf("render: %v", err)
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("selection mismatch: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials[html.PagePartial] != "themes/acme/page" {
		t.Fatalf("expected base template override, got %s", cfg.Partials[html.PagePartial])
	}
	if cfg.Partials["userform.users"] != "themes/acme/dark/users" {
		t.Fatalf("expected variant template override, got %s", cfg.Partials["userform.users"])
	}
	if cfg.Partials["userform.field"] != defaultThemeFallbacks()["userform.field"] {
		t.Fatalf("fallback partial not applied for field")
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("tokens not merged with variant override: %+v", cfg.Tokens)
	}
	if got := cfg.AssetURL("userform.logo"); got != "/assets/themes/acme/logo.dark.svg" {
		t.Fatalf("unexpected variant asset url: %s", got)
	}
	if got := cfg.AssetURL(html.StylesheetAsset); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet asset url: %s", got)
	}
}

func TestOrchestrator_UnknownVariantFallsBackToBase(t *testing.T) {
	manifest := &theme.Manifest{Name: "acme", Version: "1.0.0", Tokens: map[string]string{"brand": "#123456"}}
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(WithRegistry(registry), WithThemeProvider("acme", "", manifest))

	if _, err := orch.Render(context.Background(), Request{Page: testPage(), ThemeVariant: "neon"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if cfg := renderer.options.Theme; cfg == nil || cfg.Variant != "" || cfg.Tokens["brand"] != "#123456" {
		t.Fatalf("unexpected theme config %+v", cfg)
	}

	if _, err := orch.Render(context.Background(), Request{Page: testPage(), ThemeName: "missing"}); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}

func TestOrchestrator_DropsUnsafeThemeTokensFromCSSVars(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":        "#123456",
			"accent":       "</style><script>alert(1)</script>",
			"gap":          "1rem; color: red",
			"bad name":     "blue",
			"empty":        " ",
			"font-body_lg": "1.25rem",
		},
	}

	cfg := rendererConfig(&theme.Selection{Theme: "acme", Manifest: manifest}, nil)
	want := map[string]string{"--brand": "#123456", "--font-body_lg": "1.25rem"}
	if len(cfg.CSSVars) != len(want) {
		t.Fatalf("unexpected css vars %+v", cfg.CSSVars)
	}
	for name, value := range want {
		if cfg.CSSVars[name] != value {
			t.Fatalf("css var %s = %q, want %q", name, cfg.CSSVars[name], value)
		}
	}
	if cfg.Tokens["accent"] == "" {
		t.Fatalf("raw tokens should stay available to renderers")
	}

	registered := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":  "#123456",
			"accent": manifest.Tokens["accent"],
			"gap":    manifest.Tokens["gap"],
		},
	}
	orch := New(WithThemeProvider("acme", "", registered))
	result, err := orch.Render(context.Background(), Request{Page: testPage()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := string(result.Body)
	if strings.Contains(body, "<script>") || strings.Contains(body, "color: red") {
		t.Fatalf("unsafe token reached the page\n%s", body)
	}
	if !strings.Contains(body, "--brand: #123456;") {
		t.Fatalf("expected safe token in page\n%s", body)
	}
}

func TestOrchestrator_WithThemeProviderRejectsUnknownDefault(t *testing.T) {
	orch := New(WithThemeProvider("missing", ""))
	if _, err := orch.Schema(context.Background()); err == nil {
		t.Fatalf("expected initialisation error")
	}
}

func TestOrchestrator_NoSelectorRendersUnthemed(t *testing.T) {
	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(WithRegistry(registry), WithDefaultRenderer("missing"))
	result, err := orch.Render(context.Background(), Request{Page: testPage()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if renderer.options.Theme != nil {
		t.Fatalf("expected no theme config")
	}
	if result.ContentType != "text/plain" || string(result.Body) != "User Management App" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func testPage() render.Page {
	doc := schema.DefaultDocument()
	return render.NewPage(doc.Form, doc.Fields, nil, "", nil)
}

type captureRenderer struct {
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	return []byte(page.Form.Title), nil
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
