package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/sirupsen/logrus"

	internalmodel "github.com/goliatone/go-userform/internal/model"
	internalLoader "github.com/goliatone/go-userform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-userform/internal/openapi/parser"
	"github.com/goliatone/go-userform/pkg/model"
	pkgopenapi "github.com/goliatone/go-userform/pkg/openapi"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/html"
	"github.com/goliatone/go-userform/pkg/renderers/text"
	"github.com/goliatone/go-userform/pkg/schema"
)

const defaultRendererName = html.Name

// SchemaBuilder turns parsed OpenAPI operations into a field schema.
type SchemaBuilder interface {
	BuildFrom(ops map[string]pkgopenapi.Operation, id, path string) (model.Schema, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithSchemaBuilder injects the builder used for OpenAPI sources.
func WithSchemaBuilder(builder SchemaBuilder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaSource reads the field schema from a JSON or YAML file in fsys.
func WithSchemaSource(fsys fs.FS, name string) Option {
	return func(o *Orchestrator) {
		o.schemaFS = fsys
		o.schemaFile = name
	}
}

// WithOpenAPISource derives the field schema from the request body of an
// OpenAPI operation. An empty operationID selects the POST on /users.
func WithOpenAPISource(src pkgopenapi.Source, operationID string) Option {
	return func(o *Orchestrator) {
		o.openapiSource = src
		o.operationID = operationID
	}
}

// WithSchemaTransformer registers a Transformer that runs once after the
// schema document is resolved.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator resolves the field schema once and renders pages through the
// registered renderers with the selected theme applied.
type Orchestrator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	builder         SchemaBuilder
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	logger          logrus.FieldLogger

	schemaFS      fs.FS
	schemaFile    string
	openapiSource pkgopenapi.Source
	operationID   string

	themeSelector  theme.ThemeSelector
	themeFallbacks map[string]string
	defaultTheme   string
	defaultVariant string

	initialiseErr   error
	defaultsApplied bool

	mu       sync.Mutex
	document *schema.Document
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a single page render.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	Page render.Page

	// ThemeName and ThemeVariant override the configured theme defaults.
	ThemeName    string
	ThemeVariant string

	// Options carries hidden inputs and the form action. Theme is filled in by
	// the orchestrator when a selector is configured.
	Options render.RenderOptions
}

// Result is the rendered output and the renderer's content type.
type Result struct {
	Body        []byte
	ContentType string
}

// Schema resolves the schema document from the configured source. The first
// successful result is cached.
func (o *Orchestrator) Schema(ctx context.Context) (schema.Document, error) {
	if ctx == nil {
		return schema.Document{}, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return schema.Document{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.document != nil {
		return *o.document, nil
	}

	doc, err := o.resolveDocument(ctx)
	if err != nil {
		return schema.Document{}, err
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &doc); err != nil {
			return schema.Document{}, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}

	o.logger.WithFields(logrus.Fields{
		"source": doc.Source,
		"fields": doc.Fields.Len(),
	}).Debug("schema resolved")

	o.document = &doc
	return doc, nil
}

// Render resolves the theme and runs the selected renderer.
func (o *Orchestrator) Render(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	options := req.Options
	if options.Theme == nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return Result{}, err
		}
		options.Theme = cfg
	}

	output, err := renderer.Render(ctx, req.Page, options)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return Result{Body: output, ContentType: renderer.ContentType()}, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) resolveDocument(ctx context.Context) (schema.Document, error) {
	switch {
	case o.openapiSource != nil:
		return o.documentFromOpenAPI(ctx)
	case o.schemaFS != nil:
		doc, err := schema.Load(o.schemaFS, o.schemaFile)
		if err != nil {
			return schema.Document{}, fmt.Errorf("orchestrator: load schema: %w", err)
		}
		return doc, nil
	default:
		return schema.DefaultDocument(), nil
	}
}

func (o *Orchestrator) documentFromOpenAPI(ctx context.Context) (schema.Document, error) {
	doc, err := o.loader.Load(ctx, o.openapiSource)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}

	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: parse operations: %w", err)
	}

	fields, err := o.builder.BuildFrom(operations, o.operationID, "/users")
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: build schema: %w", err)
	}

	return schema.Document{
		Form:   schema.DefaultForm(),
		Fields: fields,
		Source: doc.Location(),
	}, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		o.logger = logger
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions(
			pkgopenapi.WithFileSystem(pkgopenapi.EmbeddedFS()),
		))
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.builder == nil {
		o.builder = internalmodel.NewBuilder()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(text.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.schemaFS != nil && o.schemaFile == "" {
		o.schemaFile = schema.DefaultFile
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}

	o.defaultsApplied = true
}
