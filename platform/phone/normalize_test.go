package phone

import "testing"

func TestNormalizeE164FormatsIndianMobiles(t *testing.T) {
	cases := map[string]string{
		"9876543210":      "+919876543210",
		"+91 98765 43210": "+919876543210",
		"098765 43210":    "+919876543210",
	}

	for input, want := range cases {
		if got := NormalizeE164(input); got != want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeE164KeepsUnparseableInput(t *testing.T) {
	if got := NormalizeE164("  not-a-number "); got != "not-a-number" {
		t.Errorf("expected trimmed passthrough, got %q", got)
	}

	if got := NormalizeE164(""); got != "" {
		t.Errorf("expected empty passthrough, got %q", got)
	}
}
