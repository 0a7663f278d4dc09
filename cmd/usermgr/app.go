package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	theme "github.com/goliatone/go-theme"
	"github.com/sirupsen/logrus"

	userform "github.com/goliatone/go-userform"
	"github.com/goliatone/go-userform/internal/config"
	"github.com/goliatone/go-userform/pkg/client"
	"github.com/goliatone/go-userform/pkg/controller"
	pkgopenapi "github.com/goliatone/go-userform/pkg/openapi"
	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/renderers/html"
	"github.com/goliatone/go-userform/pkg/schema"
)

// app bundles the wired components shared by every command.
type app struct {
	cfg    config.Config
	logger *logrus.Logger
	orch   *orchestrator.Orchestrator
	doc    schema.Document
	ctrl   *controller.Controller
}

func newApp(ctx context.Context, cfg config.Config, logger *logrus.Logger, ctrlOptions ...controller.Option) (*app, error) {
	orchOptions, err := orchestratorOptions(cfg, logger)
	if err != nil {
		return nil, err
	}
	orch := orchestrator.New(orchOptions...)

	doc, err := orch.Schema(ctx)
	if err != nil {
		return nil, err
	}

	users, err := client.New(cfg.API.URL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithRequestIDs(cfg.API.RequestIDs),
		client.WithLogger(logger.WithField("component", "client")),
	)
	if err != nil {
		return nil, err
	}

	ctrlOptions = append([]controller.Option{controller.WithLogger(logger.WithField("component", "controller"))}, ctrlOptions...)
	ctrl, err := controller.New(doc.Fields, users, ctrlOptions...)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"api":    cfg.API.URL,
		"schema": doc.Source,
		"fields": doc.Fields.Len(),
	}).Debug("app wired")

	return &app{cfg: cfg, logger: logger, orch: orch, doc: doc, ctrl: ctrl}, nil
}

func orchestratorOptions(cfg config.Config, logger *logrus.Logger) ([]orchestrator.Option, error) {
	options := []orchestrator.Option{
		orchestrator.WithLogger(logger.WithField("component", "orchestrator")),
	}

	switch {
	case cfg.Schema.OpenAPI != "":
		src, err := pkgopenapi.ParseSource(cfg.Schema.OpenAPI)
		if err != nil {
			return nil, err
		}
		loaderOptions := []pkgopenapi.LoaderOption{}
		if src.Kind() == pkgopenapi.SourceKindURL {
			loaderOptions = append(loaderOptions, pkgopenapi.WithHTTPFallback(cfg.API.Timeout))
		}
		options = append(options,
			orchestrator.WithLoader(userform.NewLoader(loaderOptions...)),
			orchestrator.WithOpenAPISource(src, cfg.Schema.OperationID),
		)
	case cfg.Schema.File != "":
		dir, name := splitPath(cfg.Schema.File)
		options = append(options, orchestrator.WithSchemaSource(os.DirFS(dir), name))
	}

	if cfg.Schema.Overrides != "" {
		dir, name := splitPath(cfg.Schema.Overrides)
		transformer, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(dir), name)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithSchemaTransformer(transformer))
	}

	if cfg.Theme.Name != "" {
		options = append(options, orchestrator.WithThemeProvider(cfg.Theme.Name, cfg.Theme.Variant, themeManifest(cfg.Theme)))
	}
	return options, nil
}

// themeManifest builds a single manifest from configured tokens.
func themeManifest(cfg config.ThemeConfig) *theme.Manifest {
	manifest := &theme.Manifest{
		Name:    cfg.Name,
		Version: "1.0.0",
		Tokens:  cfg.Tokens,
	}
	if cfg.Stylesheet != "" {
		manifest.Assets = theme.Assets{
			Files: map[string]string{html.StylesheetAsset: cfg.Stylesheet},
		}
	}
	if cfg.Variant != "" {
		manifest.Variants = map[string]theme.Variant{cfg.Variant: {}}
	}
	return manifest
}

func splitPath(path string) (string, string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path), filepath.Base(path)
	}
	return filepath.Dir(abs), filepath.Base(abs)
}

func describeSource(doc schema.Document) string {
	if doc.Source == "" {
		return "bundled"
	}
	return fmt.Sprintf("%q", doc.Source)
}
