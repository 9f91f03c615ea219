// Package report renders session state as JSON for scripting and tests.
package report

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/retext/internal/session"
)

// Render returns st as a JSON object with the keys text, past_depth,
// future_depth, can_undo, can_redo, past and future. The stacks are
// always arrays, most recent first.
func Render(st session.State) (string, error) {
	past, future := st.Past, st.Future
	if past == nil {
		past = []string{}
	}
	if future == nil {
		future = []string{}
	}

	fields := []struct {
		path  string
		value any
	}{
		{"text", st.Text},
		{"past_depth", st.PastDepth},
		{"future_depth", st.FutureDepth},
		{"can_undo", st.CanUndo},
		{"can_redo", st.CanRedo},
		{"past", past},
		{"future", future},
	}

	doc := "{}"
	for _, f := range fields {
		var err error
		doc, err = sjson.Set(doc, f.path, f.value)
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", f.path, err)
		}
	}
	return doc, nil
}
