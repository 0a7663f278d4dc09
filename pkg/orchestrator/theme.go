package orchestrator

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-userform/pkg/renderers/html"
)

// WithThemeSelector configures the selector used to resolve a theme per
// request.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeProvider registers manifests and selects defaultTheme and
// defaultVariant when a request names none. Manifests are validated through a
// go-theme registry.
func WithThemeProvider(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) Option {
	return func(o *Orchestrator) {
		selector, err := newManifestSelector(defaultTheme, defaultVariant, manifests...)
		if err != nil {
			o.initialiseErr = err
			return
		}
		o.themeSelector = selector
		o.defaultTheme = defaultTheme
		o.defaultVariant = defaultVariant
	}
}

// WithThemeFallbacks replaces the partial names used when a theme does not
// override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = copyStrings(fallbacks)
	}
}

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		html.PagePartial: "page",
		"userform.form":  "form",
		"userform.field": "field",
		"userform.users": "users",
	}
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.defaultTheme
	}
	if variant == "" {
		variant = o.defaultVariant
	}

	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: copyStrings(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}

	manifest := selection.Manifest
	if manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}

	variant, hasVariant := manifest.Variants[selection.Variant]

	mergeInto(cfg.Tokens, manifest.Tokens)
	mergeInto(cfg.Partials, manifest.Templates)
	if hasVariant {
		mergeInto(cfg.Tokens, variant.Tokens)
		mergeInto(cfg.Partials, variant.Templates)
	}
	for key, value := range cfg.Tokens {
		if !cssIdent(key) || !cssValue(value) {
			continue
		}
		cfg.CSSVars["--"+key] = value
	}

	base := manifest.Assets
	cfg.AssetURL = func(key string) string {
		if hasVariant {
			if file, ok := variant.Assets.Files[key]; ok {
				prefix := variant.Assets.Prefix
				if prefix == "" {
					prefix = base.Prefix
				}
				return joinAsset(prefix, file)
			}
		}
		if file, ok := base.Files[key]; ok {
			return joinAsset(base.Prefix, file)
		}
		return ""
	}
	return cfg
}

// cssIdent accepts token names usable as custom property names.
func cssIdent(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// cssValue rejects values that could end the declaration or the style block.
func cssValue(value string) bool {
	return strings.TrimSpace(value) != "" && !strings.ContainsAny(value, "<>{};\\")
}

func joinAsset(prefix, file string) string {
	if prefix == "" {
		return file
	}
	if strings.HasPrefix(prefix, "http://") || strings.HasPrefix(prefix, "https://") {
		return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
	}
	return path.Join(prefix, file)
}

// manifestSelector selects from a fixed set of manifests.
type manifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*manifestSelector)(nil)

func newManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*manifestSelector, error) {
	registry := theme.NewRegistry()
	selector := &manifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("orchestrator: register theme %q: %w", manifest.Name, err)
		}
		selector.manifests[manifest.Name] = manifest
	}
	if defaultTheme != "" {
		if _, ok := selector.manifests[defaultTheme]; !ok {
			return nil, fmt.Errorf("orchestrator: default theme %q not registered", defaultTheme)
		}
	}
	return selector, nil
}

// Select resolves name (or the default theme) and keeps variant only when the
// manifest declares it.
func (s *manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	if name == "" {
		name = s.firstName()
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("theme %q not found", name)
	}

	if variant == "" {
		variant = s.defaultVariant
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func (s *manifestSelector) firstName() string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func copyStrings(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	mergeInto(out, src)
	return out
}
