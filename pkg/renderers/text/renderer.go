// Package text renders the user list as aligned plain-text columns for
// terminals and logs.
package text

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-userform/pkg/render"
)

// Name is the registry key for this renderer.
const Name = "text"

// Renderer implements render.Renderer for plain text.
type Renderer struct {
	showIDs bool
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures the renderer.
type Option func(*Renderer)

// WithIDs prefixes each row with the user id.
func WithIDs(enabled bool) Option {
	return func(r *Renderer) {
		r.showIDs = enabled
	}
}

// New constructs a text renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the list title followed by one "Name | phone | email" row per
// user. Messages from the page are appended after the list.
func (r *Renderer) Render(ctx context.Context, page render.Page, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	title := page.Form.ListTitle
	if title == "" {
		title = "Users"
	}
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("-", len(title)))

	if len(page.Users) == 0 {
		fmt.Fprintln(&buf, "(no users)")
	} else {
		tw := tabwriter.NewWriter(&buf, 0, 4, 1, ' ', 0)
		for _, user := range page.Users {
			if r.showIDs {
				fmt.Fprintf(tw, "%s\t", user.ID)
			}
			fmt.Fprintf(tw, "%s\t| %s\t| %s\n", user.FullName(), user.Phone, user.Email)
		}
		if err := tw.Flush(); err != nil {
			return nil, fmt.Errorf("text renderer: flush: %w", err)
		}
	}

	if page.Notice != "" {
		fmt.Fprintf(&buf, "\n%s\n", page.Notice)
	}
	for _, message := range page.FormErrors {
		fmt.Fprintf(&buf, "error: %s\n", message)
	}
	return buf.Bytes(), nil
}
