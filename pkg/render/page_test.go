package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/schema"
)

func TestPage_SubmitLabelAndHiddenFields(t *testing.T) {
	doc := schema.DefaultDocument()
	page := render.NewPage(doc.Form, doc.Fields, nil, "", nil)

	if page.SubmitLabel() != "Add User" {
		t.Fatalf("create label mismatch: %q", page.SubmitLabel())
	}
	if len(page.Values) != doc.Fields.Len() {
		t.Fatalf("expected empty state for every field, got %v", page.Values)
	}
	if got := page.HiddenFields(nil); got != nil {
		t.Fatalf("create mode should carry no hidden fields, got %v", got)
	}

	page.EditID = model.ID("42")
	if page.SubmitLabel() != "Update User" {
		t.Fatalf("update label mismatch: %q", page.SubmitLabel())
	}
	want := []render.HiddenField{{Name: "_csrf", Value: "t"}, {Name: "id", Value: "42"}}
	if diff := cmp.Diff(want, page.HiddenFields(map[string]string{"_csrf": "t"})); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}

	if (render.Page{EditID: "1"}).SubmitLabel() != "Update User" {
		t.Fatalf("zero form config should fall back to default labels")
	}
}
