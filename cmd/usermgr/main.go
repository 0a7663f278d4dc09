// Command usermgr manages users against a REST backend through a schema
// driven form, either as a web page, an interactive terminal session or one
// shot list commands.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-userform/internal/config"
	"github.com/goliatone/go-userform/internal/logging"
)

const usage = `usage: usermgr <command> [flags] [args]

commands:
  serve    serve the form over HTTP
  tui      run the interactive terminal form
  list     print the users (args: text|json)
  fields   print the resolved form fields

flags:
  -config, -env-file, -api, -timeout, -addr, -log-level, -log-format,
  -schema, -openapi, -operation, -overrides, -theme, -variant
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "usermgr: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return nil
	}

	command := args[0]
	cfg, rest, err := config.Load(command, config.Options{Args: args[1:], Output: stderr})
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	switch command {
	case "serve":
		return serve(ctx, cfg, logger)
	case "tui":
		return runTUI(ctx, cfg, logger, stdout)
	case "list":
		return listUsers(ctx, cfg, logger, rest, stdout)
	case "fields":
		return printFields(ctx, cfg, logger, stdout)
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func writeJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

var errUnknownFormat = errors.New("list format must be text or json")
