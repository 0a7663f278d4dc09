// Package tui drives the user form from a terminal. A Session shows the user
// list, offers a menu and prompts for each schema field through a
// PromptDriver (survey by default).
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-userform/pkg/controller"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/text"
	"github.com/goliatone/go-userform/pkg/schema"
	"github.com/goliatone/go-userform/pkg/validation"
)

const (
	actionAdd = iota
	actionEdit
	actionDelete
	actionRefresh
	actionQuit
)

var menuOptions = []string{"Add user", "Edit user", "Delete user", "Refresh list", "Quit"}

// Notifier returns a controller.Notifier that prints through driver with the
// theme's error prefix.
func Notifier(driver PromptDriver, theme Theme) controller.Notifier {
	return controller.NotifierFunc(func(ctx context.Context, message string) error {
		return driver.Info(ctx, theme.ErrorPrefix+message)
	})
}

// Session is one interactive terminal run against a Controller.
type Session struct {
	ctrl   *controller.Controller
	form   schema.FormConfig
	driver PromptDriver
	list   render.Renderer
	theme  Theme
	logger logrus.FieldLogger
}

// NewSession wires a session. The controller should be constructed with
// Notifier(driver, theme) so validation messages reach the same terminal.
func NewSession(ctrl *controller.Controller, form schema.FormConfig, options ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("tui: controller is required")
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &Session{
		ctrl:   ctrl,
		form:   form,
		list:   text.New(),
		theme:  DefaultTheme,
		logger: quiet,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run fetches the list and loops over the menu until the user quits or aborts.
func (s *Session) Run(ctx context.Context) error {
	if err := s.ctrl.Refresh(ctx); err != nil {
		s.reportError(ctx, err)
	}

	for {
		if err := s.showList(ctx); err != nil {
			return err
		}
		choice, err := s.driver.Select(ctx, SelectConfig{Message: s.form.Title, Options: menuOptions})
		if err != nil {
			return s.exit(err)
		}

		switch choice {
		case actionAdd:
			if s.ctrl.Mode() == controller.ModeEdit {
				s.ctrl.CancelEdit()
			}
			err = s.fillAndSubmit(ctx)
		case actionEdit:
			err = s.edit(ctx)
		case actionDelete:
			err = s.remove(ctx)
		case actionRefresh:
			if refreshErr := s.ctrl.Refresh(ctx); refreshErr != nil {
				s.reportError(ctx, refreshErr)
			}
		case actionQuit:
			return nil
		default:
			continue
		}
		if err != nil {
			return s.exit(err)
		}
	}
}

func (s *Session) exit(err error) error {
	if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) showList(ctx context.Context) error {
	state := s.ctrl.State()
	page := render.NewPage(s.form, s.ctrl.Schema(), state.Values, state.Edit.ID, state.Users)
	out, err := s.list.Render(ctx, page, render.RenderOptions{})
	if err != nil {
		return fmt.Errorf("tui: render list: %w", err)
	}
	return s.driver.Info(ctx, s.theme.InfoPrefix+strings.TrimRight(string(out), "\n"))
}

// fillAndSubmit prompts every field with its current value as the default and
// submits. A validation failure has already been shown by the notifier, so the
// user is offered another pass with the entered values kept.
func (s *Session) fillAndSubmit(ctx context.Context) error {
	for {
		values := s.ctrl.State().Values
		for _, field := range s.ctrl.Schema().Fields() {
			answer, err := s.driver.Input(ctx, InputConfig{
				Message: promptLabel(field),
				Default: values.Get(field.Name),
				Help:    field.DisplayPlaceholder(),
			})
			if err != nil {
				return err
			}
			s.ctrl.UpdateField(field.Name, strings.TrimSpace(answer))
		}

		label := render.Page{Form: s.form, EditID: s.ctrl.State().Edit.ID}.SubmitLabel()
		err := s.ctrl.Submit(ctx)
		if err == nil {
			return s.driver.Info(ctx, s.theme.InfoPrefix+label+": done")
		}

		var verr *validation.Error
		if !errors.As(err, &verr) {
			s.reportError(ctx, err)
			return nil
		}
		again, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Fix the form and try again?", Default: true})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (s *Session) edit(ctx context.Context) error {
	user, ok, err := s.pickUser(ctx, "Edit which user?")
	if err != nil || !ok {
		return err
	}
	s.ctrl.StartEdit(user)
	return s.fillAndSubmit(ctx)
}

func (s *Session) remove(ctx context.Context) error {
	user, ok, err := s.pickUser(ctx, "Delete which user?")
	if err != nil || !ok {
		return err
	}
	confirmed, err := s.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Delete %s?", user.FullName())})
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}
	if err := s.ctrl.DeleteUser(ctx, user.ID); err != nil {
		s.reportError(ctx, err)
	}
	return nil
}

func (s *Session) pickUser(ctx context.Context, message string) (model.User, bool, error) {
	users := s.ctrl.State().Users
	if len(users) == 0 {
		return model.User{}, false, s.driver.Info(ctx, s.theme.ErrorPrefix+ErrNoUsers.Error())
	}
	options := make([]string, len(users))
	for i, user := range users {
		options[i] = fmt.Sprintf("%s (%s | %s)", user.FullName(), user.Phone, user.Email)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return model.User{}, false, err
	}
	if idx < 0 || idx >= len(users) {
		return model.User{}, false, nil
	}
	return users[idx], true, nil
}

func (s *Session) reportError(ctx context.Context, err error) {
	s.logger.WithError(err).Warn("tui operation failed")
	if infoErr := s.driver.Info(ctx, s.theme.ErrorPrefix+err.Error()); infoErr != nil {
		s.logger.WithError(infoErr).Warn("print error")
	}
}

func promptLabel(field model.FieldSpec) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}
