package report

import (
	"context"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/retext/internal/session"
)

func TestRender(t *testing.T) {
	ctx := context.Background()
	sess := session.New()
	sess.Insert(ctx, 0, "say \"hi\"")
	sess.Insert(ctx, 8, "!")
	sess.Undo(ctx)

	doc, err := Render(sess.State())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !gjson.Valid(doc) {
		t.Fatalf("invalid JSON: %s", doc)
	}

	checks := []struct {
		path string
		want string
	}{
		{"text", `say "hi"`},
		{"past_depth", "1"},
		{"future_depth", "1"},
		{"can_undo", "true"},
		{"can_redo", "true"},
		{"past.#", "1"},
		{"past.0", `(0,8,0) + say "hi" - <none>`},
		{"future.0", "(8,1,0) + ! - <none>"},
	}
	for _, c := range checks {
		r := gjson.Get(doc, c.path)
		if !r.Exists() {
			t.Errorf("%s missing from %s", c.path, doc)
			continue
		}
		if r.String() != c.want {
			t.Errorf("%s = %q, want %q", c.path, r.String(), c.want)
		}
	}
}

func TestRenderEmptyStacksAreArrays(t *testing.T) {
	doc, err := Render(session.State{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, path := range []string{"past", "future"} {
		r := gjson.Get(doc, path)
		if !r.IsArray() || len(r.Array()) != 0 {
			t.Errorf("%s = %s, want []", path, r.Raw)
		}
	}
	if r := gjson.Get(doc, "can_undo"); r.Type != gjson.False {
		t.Errorf("can_undo = %s", r.Raw)
	}
	if gjson.Get(doc, "text").String() != "" {
		t.Errorf("text = %s, want empty", gjson.Get(doc, "text").Raw)
	}
}
