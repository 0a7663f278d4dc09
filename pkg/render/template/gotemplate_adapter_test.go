package template_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-userform/pkg/render/template/gotemplate"
)

var templates = fstest.MapFS{
	"hello.tpl":      {Data: []byte("Hello {{ name }}!")},
	"use-global.tpl": {Data: []byte("env={{ settings.env }}")},
	"use-filter.tpl": {Data: []byte("{{ name|shout }} {{ phone|digits }}")},
	"escape.tpl":     {Data: []byte("<p>{{ name }}</p>")},
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithFS(templates))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func render(t *testing.T, fn func(w io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf strings.Builder
	out, err := fn(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := render(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" || written != result {
		t.Fatalf("unexpected output result=%q written=%q", result, written)
	}
}

func TestGoTemplateEngine_StructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Name string `json:"name"`
	}{Name: "Grace"}

	result, _ := render(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello.tpl", data, w)
	})
	if result != "Hello Grace!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, _ := render(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})
	if result != "env=staging" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	result, _ := render(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada", "phone": "(012) 345-6789"}, w)
	})
	if result != "ADA! 0123456789" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_AutoEscapes(t *testing.T) {
	engine := newEngine(t)
	result, _ := render(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("escape", map[string]any{"name": "<script>"}, w)
	})
	if strings.Contains(result, "<script>") {
		t.Fatalf("expected escaped output, got %q", result)
	}

	inline, _ := render(t, func(w io.Writer) (string, error) {
		return engine.RenderString("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "x"}, w)
	})
	if inline != "1-x" {
		t.Fatalf("unexpected inline output %q", inline)
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}
