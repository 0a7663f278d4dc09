package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-userform/internal/config"
	"github.com/goliatone/go-userform/pkg/controller"
	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/text"
	"github.com/goliatone/go-userform/pkg/renderers/tui"
	"github.com/goliatone/go-userform/pkg/web"
)

func serve(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	handler, err := web.NewHandler(a.ctrl, a.orch,
		web.WithLogger(logger.WithField("component", "web")),
		web.WithTheme(cfg.Theme.Name, cfg.Theme.Variant),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.WithField("addr", cfg.Server.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func runTUI(ctx context.Context, cfg config.Config, logger *logrus.Logger, stdout io.Writer) error {
	driver := tui.NewSurveyDriver(stdout)
	a, err := newApp(ctx, cfg, logger, controller.WithNotifier(tui.Notifier(driver, tui.DefaultTheme)))
	if err != nil {
		return err
	}

	session, err := tui.NewSession(a.ctrl, a.doc.Form,
		tui.WithPromptDriver(driver),
		tui.WithLogger(logger.WithField("component", "tui")),
	)
	if err != nil {
		return err
	}
	return session.Run(ctx)
}

func listUsers(ctx context.Context, cfg config.Config, logger *logrus.Logger, args []string, stdout io.Writer) error {
	format := "text"
	if len(args) > 0 {
		format = args[0]
	}
	if format != "text" && format != "json" {
		return errUnknownFormat
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := a.ctrl.Refresh(ctx); err != nil {
		return err
	}
	state := a.ctrl.State()

	if format == "json" {
		return writeJSON(stdout, state.Users)
	}

	page := render.NewPage(a.doc.Form, a.doc.Fields, nil, "", state.Users)
	result, err := a.orch.Render(ctx, orchestrator.Request{Renderer: text.Name, Page: page})
	if err != nil {
		return err
	}
	_, err = stdout.Write(result.Body)
	return err
}

func printFields(ctx context.Context, cfg config.Config, logger *logrus.Logger, stdout io.Writer) error {
	orchOptions, err := orchestratorOptions(cfg, logger)
	if err != nil {
		return err
	}
	doc, err := orchestrator.New(orchOptions...).Schema(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s (source: %s)\n\n", doc.Form.Title, describeSource(doc))
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tTYPE\tREQUIRED\tPATTERN")
	for _, field := range doc.Fields.Fields() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", field.Name, field.Label, field.InputType, field.Required, field.Pattern)
	}
	return tw.Flush()
}
