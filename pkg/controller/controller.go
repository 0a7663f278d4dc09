// Package controller implements the form controller: it owns the FormState and
// EditContext, validates on submit and delegates CRUD calls to a UserClient,
// refetching the full list after every successful mutation.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-userform/pkg/client"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/validation"
)

var (
	// ErrUnknownUser is returned when an edit targets an id missing from the
	// current list.
	ErrUnknownUser = errors.New("controller: user not in list")
	errClientNil   = errors.New("controller: user client is required")
)

// Notifier surfaces a blocking message to the person filling in the form.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, message string) error

// Notify calls the underlying function.
func (fn NotifierFunc) Notify(ctx context.Context, message string) error {
	return fn(ctx, message)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string) error { return nil }

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the validation notifier.
func WithNotifier(notifier Notifier) Option {
	return func(c *Controller) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller holds one form's state. The mutex guards state transitions only;
// it is never held across a network call, so overlapping operations settle in
// completion order.
type Controller struct {
	schema   model.Schema
	client   client.UserClient
	notifier Notifier
	logger   logrus.FieldLogger

	mu    sync.Mutex
	state State
}

// New constructs a Controller in create mode with an empty list.
func New(schema model.Schema, users client.UserClient, options ...Option) (*Controller, error) {
	if users == nil {
		return nil, errClientNil
	}
	if schema.Len() == 0 {
		return nil, errors.New("controller: schema has no fields")
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	c := &Controller{
		schema:   schema,
		client:   users,
		notifier: nopNotifier{},
		logger:   quiet,
		state:    Initial(schema),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Schema returns the field schema driving the form.
func (c *Controller) Schema() model.Schema {
	return c.schema
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Mode reports create or edit mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode()
}

// UpdateField stores value without validating it.
func (c *Controller) UpdateField(name, value string) {
	c.apply(func(s State) State { return UpdateField(s, name, value) })
}

// StartEdit loads user into the form and switches to edit mode.
func (c *Controller) StartEdit(user model.User) {
	c.apply(func(s State) State { return StartEdit(s, c.schema, user) })
	c.logger.WithField("user_id", user.ID.String()).Debug("edit started")
}

// StartEditByID looks the user up in the current list before editing.
func (c *Controller) StartEditByID(id model.ID) error {
	c.mu.Lock()
	user, ok := c.state.FindUser(id)
	if ok {
		c.state = StartEdit(c.state, c.schema, user)
	}
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	return nil
}

// CancelEdit clears the form and returns to create mode.
func (c *Controller) CancelEdit() {
	c.apply(func(s State) State { return Reset(s, c.schema) })
}

// Validate checks the current values.
func (c *Controller) Validate() error {
	c.mu.Lock()
	values := c.state.Values.Clone()
	c.mu.Unlock()
	return validation.Validate(c.schema, values)
}

// Submit validates the form and, when valid, creates or updates the user,
// resets the form and refreshes the list. A validation failure is reported
// through the Notifier and returned without any network call.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	values := c.state.Values.Clone()
	edit := c.state.Edit
	c.mu.Unlock()

	if err := validation.Validate(c.schema, values); err != nil {
		msg, _ := validation.Message(err)
		if notifyErr := c.notifier.Notify(ctx, msg); notifyErr != nil {
			c.logger.WithError(notifyErr).Warn("notify validation failure")
		}
		return err
	}

	user := values.User()
	log := c.logger.WithField("mode", string(modeOf(edit)))
	if edit.Editing() {
		log = log.WithField("user_id", edit.ID.String())
		if _, err := c.client.Update(ctx, edit.ID, user); err != nil {
			log.WithError(err).Error("update user")
			return fmt.Errorf("controller: update user %s: %w", edit.ID, err)
		}
	} else {
		if _, err := c.client.Create(ctx, user); err != nil {
			log.WithError(err).Error("create user")
			return fmt.Errorf("controller: create user: %w", err)
		}
	}
	log.Info("user saved")

	c.apply(func(s State) State { return Reset(s, c.schema) })
	return c.Refresh(ctx)
}

// DeleteUser removes the user and refreshes the list.
func (c *Controller) DeleteUser(ctx context.Context, id model.ID) error {
	log := c.logger.WithField("user_id", id.String())
	if err := c.client.Delete(ctx, id); err != nil {
		log.WithError(err).Error("delete user")
		return fmt.Errorf("controller: delete user %s: %w", id, err)
	}
	log.Info("user deleted")
	return c.Refresh(ctx)
}

// Refresh refetches the list and replaces it wholesale.
func (c *Controller) Refresh(ctx context.Context) error {
	users, err := c.client.List(ctx)
	if err != nil {
		c.logger.WithError(err).Error("list users")
		return fmt.Errorf("controller: list users: %w", err)
	}
	c.apply(func(s State) State { return WithUsers(s, users) })
	c.logger.WithField("count", len(users)).Debug("users refreshed")
	return nil
}

func (c *Controller) apply(transition func(State) State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = transition(c.state)
}

func modeOf(edit model.EditContext) Mode {
	if edit.Editing() {
		return ModeEdit
	}
	return ModeCreate
}
