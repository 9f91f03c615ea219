package topic

import (
	"testing"
)

func TestTopicSegments(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected []string
	}{
		{Topic("history.undone"), []string{"history", "undone"}},
		{Topic("single"), []string{"single"}},
		{Topic(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			got := tt.topic.Segments()
			if len(got) != len(tt.expected) {
				t.Fatalf("Segments() = %v, want %v", got, tt.expected)
			}
			for i, seg := range got {
				if seg != tt.expected[i] {
					t.Errorf("Segments()[%d] = %v, want %v", i, seg, tt.expected[i])
				}
			}
		})
	}
}

func TestTopicIsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		valid bool
	}{
		{"history.recorded", true},
		{"config", true},
		{"", false},
		{".history", false},
		{"history.", false},
		{"history..undone", false},
	}

	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.valid)
		}
	}
}

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		match   bool
	}{
		{"history.recorded", "history.recorded", true},
		{"history.recorded", "history.undone", false},
		{"history.recorded", "history.*", true},
		{"history.recorded", "*.recorded", true},
		{"history.recorded", "*", false},
		{"history.recorded", "**", true},
		{"history.recorded", "history.**", true},
		{"history", "history.**", true},
		{"config.reloaded", "history.**", false},
		{"a.b.c", "a.**.c", true},
		{"a.c", "a.**.c", true},
		{"a.b.c.d", "a.*.d", false},
	}

	for _, tt := range tests {
		if got := tt.topic.Matches(tt.pattern); got != tt.match {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.match)
		}
	}
}

func TestTopicIsWildcard(t *testing.T) {
	if !Topic("history.*").IsWildcard() || !Topic("**").IsWildcard() {
		t.Error("wildcard not detected")
	}
	if Topic("history.undone").IsWildcard() {
		t.Error("plain topic reported as wildcard")
	}
}
