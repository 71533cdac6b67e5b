package transport

import (
	"encoding/json"
	"testing"
)

func TestParseAccessArray(t *testing.T) {
	ids, supplied, err := ParseAccess(json.RawMessage(`[3, 5, 5]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !supplied {
		t.Fatal("array should count as supplied")
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 5 || ids[2] != 5 {
		t.Fatalf("ids = %v, want [3 5 5]", ids)
	}
}

func TestParseAccessEmptyArrayClears(t *testing.T) {
	ids, supplied, err := ParseAccess(json.RawMessage(`[]`))
	if err != nil || !supplied {
		t.Fatalf("empty array: supplied=%v err=%v", supplied, err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v, want empty", ids)
	}
}

func TestParseAccessNumericScalarFallback(t *testing.T) {
	for _, raw := range []string{`7`, `"7"`} {
		ids, supplied, err := ParseAccess(json.RawMessage(raw))
		if err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
		if !supplied || len(ids) != 1 || ids[0] != 7 {
			t.Fatalf("parse %s: ids = %v, want [7]", raw, ids)
		}
	}
}

func TestParseAccessAbsent(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`)} {
		_, supplied, err := ParseAccess(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if supplied {
			t.Fatal("absent access must leave the list unchanged")
		}
	}
}

func TestParseAccessRejectsGarbage(t *testing.T) {
	if _, _, err := ParseAccess(json.RawMessage(`"not-a-number"`)); err == nil {
		t.Fatal("expected an error for a non-numeric scalar")
	}
}

func TestParseTimestampFormats(t *testing.T) {
	for _, value := range []string{
		"2026-09-04T15:30:00Z",
		"2026-09-04T15:30:00",
		"2026-09-04 15:30",
		"2026-09-04",
	} {
		parsed, err := ParseTimestamp(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if parsed == nil {
			t.Fatalf("parse %q returned nil", value)
		}
	}
}

func TestParseTimestampEmptyMeansAbsent(t *testing.T) {
	parsed, err := ParseTimestamp("  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != nil {
		t.Fatal("blank timestamps must be treated as absent")
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	if _, err := ParseTimestamp("next tuesday"); err == nil {
		t.Fatal("expected an error for an unrecognized format")
	}
}
