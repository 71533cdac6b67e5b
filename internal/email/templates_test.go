package email

import (
	"strings"
	"testing"
)

func TestRenderNewLeadTemplate(t *testing.T) {
	content, err := renderEmailTemplate("new_lead.html", newLeadEmailData{
		baseEmailData: baseEmailData{Title: "New Lead Received", Heading: "New Lead Received!"},
		Name:          "A",
		Contact:       "123",
		City:          "X",
		Platform:      "meta",
		Time:          "2025-01-01 10:00",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{"New Lead Received!", "A", "123", "X", "meta"} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}
