package metrics

import "testing"

func TestIsZero(t *testing.T) {
	cases := []struct {
		name  string
		usage TokenUsage
		want  bool
	}{
		{"empty", TokenUsage{}, true},
		{"prompt only", TokenUsage{PromptTokens: 1}, false},
		{"completion only", TokenUsage{CompletionTokens: 1}, false},
		{"total only", TokenUsage{TotalTokens: 1}, false},
		{"full", TokenUsage{PromptTokens: 120, CompletionTokens: 180, TotalTokens: 300}, false},
	}
	for _, tc := range cases {
		if got := tc.usage.IsZero(); got != tc.want {
			t.Errorf("%s: IsZero() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
