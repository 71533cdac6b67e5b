package domain

import "testing"

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		response string
		want     bool
	}{
		{"Not Interested", true},
		{"not interested", true},
		{"NOT INTERESTED", true},
		{"Closed", true},
		{"new", true},
		{"New", true},
		{"Wrong Number", true},
		{"  closed  ", true},
		{"Interested", false},
		{"Visit Confirmed", false},
		{"Visiting Soon", false},
		{"order completed", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsTerminal(tc.response); got != tc.want {
			t.Errorf("IsTerminal(%q) = %v, want %v", tc.response, got, tc.want)
		}
	}
}

func TestVocabularyContainsTerminalStatuses(t *testing.T) {
	labels := make(map[string]bool, len(StatusVocabulary))
	for _, label := range StatusVocabulary {
		labels[label] = true
	}
	for _, label := range []string{"Not Interested", "Closed", "new", "Wrong Number"} {
		if !labels[label] {
			t.Errorf("vocabulary is missing %q", label)
		}
	}
}
