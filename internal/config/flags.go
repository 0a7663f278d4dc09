package config

import (
	"flag"
	"io"
	"time"
)

type flagSet struct {
	set        *flag.FlagSet
	configFile *string
	envFile    *string
	apiURL     *string
	timeout    *time.Duration
	addr       *string
	logLevel   *string
	logFormat  *string
	schemaFile *string
	openapi    *string
	operation  *string
	overrides  *string
	theme      *string
	variant    *string
}

func newFlagSet(name string, output io.Writer) *flagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	if output == nil {
		output = io.Discard
	}
	set.SetOutput(output)

	return &flagSet{
		set:        set,
		configFile: set.String("config", "", "YAML config file"),
		envFile:    set.String("env-file", "", "dotenv file to load (default .env)"),
		apiURL:     set.String("api", "", "users collection URL"),
		timeout:    set.Duration("timeout", 0, "backend request timeout, e.g. 5s"),
		addr:       set.String("addr", "", "HTTP listen address"),
		logLevel:   set.String("log-level", "", "log level"),
		logFormat:  set.String("log-format", "", "log format: text or json"),
		schemaFile: set.String("schema", "", "field schema file (JSON or YAML)"),
		openapi:    set.String("openapi", "", "OpenAPI contract path or URL to derive fields from"),
		operation:  set.String("operation", "", "OpenAPI operation id for the form"),
		overrides:  set.String("overrides", "", "JSON file with label and copy overrides"),
		theme:      set.String("theme", "", "theme name"),
		variant:    set.String("variant", "", "theme variant"),
	}
}

// apply copies every flag the user set onto cfg.
func (f *flagSet) apply(cfg *Config) {
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "api":
			cfg.API.URL = *f.apiURL
		case "timeout":
			cfg.API.Timeout = *f.timeout
		case "addr":
			cfg.Server.Addr = *f.addr
		case "log-level":
			cfg.Log.Level = *f.logLevel
		case "log-format":
			cfg.Log.Format = *f.logFormat
		case "schema":
			cfg.Schema.File = *f.schemaFile
		case "openapi":
			cfg.Schema.OpenAPI = *f.openapi
		case "operation":
			cfg.Schema.OperationID = *f.operation
		case "overrides":
			cfg.Schema.Overrides = *f.overrides
		case "theme":
			cfg.Theme.Name = *f.theme
		case "variant":
			cfg.Theme.Variant = *f.variant
		}
	})
}
