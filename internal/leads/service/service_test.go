package service

import (
	"testing"
	"time"

	"leadportal_backend/internal/leads/repository"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func baseLead() repository.Lead {
	return repository.Lead{
		ID:       1,
		Name:     "Ravi",
		Contact:  "+919876543210",
		Response: "new",
		Comment:  []repository.Comment{},
		Access:   []int64{},
	}
}

func TestApplyPatchReplacesStatus(t *testing.T) {
	lead := baseLead()
	applyPatch(&lead, TransitionPatch{Response: strPtr("Interested")}, time.Now())

	if lead.Response != "Interested" {
		t.Fatalf("response = %q, want Interested", lead.Response)
	}
}

func TestApplyPatchKeepsStatusWhenAbsent(t *testing.T) {
	lead := baseLead()
	lead.Response = "Busy"
	applyPatch(&lead, TransitionPatch{City: strPtr("Chennai")}, time.Now())

	if lead.Response != "Busy" {
		t.Fatalf("response = %q, want Busy", lead.Response)
	}
}

func TestTerminalStatusClearsSuppliedSchedule(t *testing.T) {
	lead := baseLead()
	sched := time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)

	applyPatch(&lead, TransitionPatch{
		Response:      strPtr("Not Interested"),
		VisitSchedule: timePtr(sched),
	}, time.Now())

	if lead.VisitSchedule != nil {
		t.Fatal("terminal status must clear the visit schedule")
	}
}

func TestTerminalStatusClearsExistingSchedule(t *testing.T) {
	lead := baseLead()
	lead.Response = "Visit Confirmed"
	existing := time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)
	lead.VisitSchedule = &existing

	applyPatch(&lead, TransitionPatch{Response: strPtr("closed")}, time.Now())

	if lead.VisitSchedule != nil {
		t.Fatal("transition to a terminal status must clear an existing schedule")
	}
}

func TestTerminalCheckUsesEffectiveStatus(t *testing.T) {
	// Prior status is terminal, new one is not: the supplied schedule sticks.
	lead := baseLead()
	lead.Response = "new"
	sched := time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)

	applyPatch(&lead, TransitionPatch{
		Response:      strPtr("Visit Confirmed"),
		VisitSchedule: timePtr(sched),
	}, time.Now())

	if lead.VisitSchedule == nil || !lead.VisitSchedule.Equal(sched) {
		t.Fatal("non-terminal effective status must keep the supplied schedule")
	}
}

func TestCommentAppendWithAuthorFallback(t *testing.T) {
	lead := baseLead()
	now := time.Now()

	applyPatch(&lead, TransitionPatch{NewComment: strPtr("called, busy")}, now)

	if len(lead.Comment) != 1 {
		t.Fatalf("comment log length = %d, want 1", len(lead.Comment))
	}
	if lead.Comment[0].Author != "User" {
		t.Fatalf("author = %q, want fallback User", lead.Comment[0].Author)
	}
	if lead.Comment[0].Text != "called, busy" {
		t.Fatalf("text = %q", lead.Comment[0].Text)
	}
}

func TestBlankCommentIsIgnored(t *testing.T) {
	lead := baseLead()

	applyPatch(&lead, TransitionPatch{NewComment: strPtr("   ")}, time.Now())

	if len(lead.Comment) != 0 {
		t.Fatal("whitespace-only comments must not be appended")
	}
}

func TestScheduleSuppliedAppendsSystemComment(t *testing.T) {
	lead := baseLead()
	lead.Response = "Interested"
	sched := time.Date(2026, 9, 4, 15, 30, 0, 0, time.UTC)

	applyPatch(&lead, TransitionPatch{
		NewComment:    strPtr("wants a visit"),
		VisitSchedule: timePtr(sched),
		Author:        "Asha",
	}, time.Now())

	if len(lead.Comment) != 2 {
		t.Fatalf("comment log length = %d, want 2 (user + system)", len(lead.Comment))
	}
	if lead.Comment[0].Author != "Asha" {
		t.Fatalf("first author = %q, want Asha", lead.Comment[0].Author)
	}
	if lead.Comment[1].Author != systemAuthor {
		t.Fatalf("second author = %q, want %s", lead.Comment[1].Author, systemAuthor)
	}
	want := "Update: Call scheduled for 04/09/2026, 03:30 PM"
	if lead.Comment[1].Text != want {
		t.Fatalf("system comment = %q, want %q", lead.Comment[1].Text, want)
	}
}

func TestSystemCommentAppendedEvenWhenTerminalClearsSchedule(t *testing.T) {
	lead := baseLead()
	sched := time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)

	applyPatch(&lead, TransitionPatch{
		Response:      strPtr("Wrong Number"),
		VisitSchedule: timePtr(sched),
	}, time.Now())

	if lead.VisitSchedule != nil {
		t.Fatal("schedule should be cleared")
	}
	if len(lead.Comment) != 1 || lead.Comment[0].Author != systemAuthor {
		t.Fatal("the schedule request should still be recorded as a system comment")
	}
}

func TestCommentsAppendInOrder(t *testing.T) {
	lead := baseLead()
	lead.Comment = []repository.Comment{{Author: "Asha", Text: "first", Date: time.Now()}}

	applyPatch(&lead, TransitionPatch{NewComment: strPtr("second"), Author: "Ravi"}, time.Now())

	if len(lead.Comment) != 2 {
		t.Fatalf("comment log length = %d, want 2", len(lead.Comment))
	}
	if lead.Comment[0].Text != "first" || lead.Comment[1].Text != "second" {
		t.Fatal("new entries must append after all prior entries")
	}
}

func TestAccessReplacementIsWholesale(t *testing.T) {
	cases := []struct {
		name   string
		before []int64
		patch  []int64
	}{
		{"clear", []int64{1, 2, 3}, []int64{}},
		{"single", []int64{1}, []int64{7}},
		{"multi", []int64{1}, []int64{2, 5, 9}},
		{"duplicates kept", []int64{1}, []int64{4, 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := baseLead()
			lead.Access = tc.before

			applyPatch(&lead, TransitionPatch{Access: tc.patch, AccessSupplied: true}, time.Now())

			if len(lead.Access) != len(tc.patch) {
				t.Fatalf("access length = %d, want %d", len(lead.Access), len(tc.patch))
			}
			for i := range tc.patch {
				if lead.Access[i] != tc.patch[i] {
					t.Fatalf("access = %v, want %v", lead.Access, tc.patch)
				}
			}
		})
	}
}

func TestAccessUnchangedWhenAbsent(t *testing.T) {
	lead := baseLead()
	lead.Access = []int64{3, 4}

	applyPatch(&lead, TransitionPatch{Response: strPtr("Busy")}, time.Now())

	if len(lead.Access) != 2 || lead.Access[0] != 3 || lead.Access[1] != 4 {
		t.Fatalf("access = %v, want unchanged [3 4]", lead.Access)
	}
}
