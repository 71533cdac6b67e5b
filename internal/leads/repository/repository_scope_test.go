package repository

import (
	"strings"
	"testing"
)

func TestScopedQueriesUseArrayContainment(t *testing.T) {
	for name, query := range map[string]string{
		"list":       listLeadsScopedQuery,
		"count":      countNewScopedQuery,
		"due visits": dueVisitsScopedQuery,
	} {
		if !strings.Contains(strings.ToLower(query), "access @> array[$1]::bigint[]") {
			t.Errorf("%s query is missing the access containment predicate", name)
		}
	}
}

func TestAdminQueriesAreUnscoped(t *testing.T) {
	for name, query := range map[string]string{
		"list":       listLeadsAdminQuery,
		"count":      countNewAdminQuery,
		"due visits": dueVisitsAdminQuery,
	} {
		if strings.Contains(strings.ToLower(query), "access @>") {
			t.Errorf("%s admin query must not restrict by access", name)
		}
	}
}

func TestListOrdersByPlatformTimeDescending(t *testing.T) {
	for _, query := range []string{listLeadsAdminQuery, listLeadsScopedQuery} {
		if !strings.Contains(strings.ToLower(query), "order by time desc") {
			t.Error("lead listing must order by platform time descending")
		}
	}
}

func TestDueVisitsCompareDatePartAndExcludeComments(t *testing.T) {
	query := strings.ToLower(dueVisitsAdminQuery)

	if !strings.Contains(query, "visit_schedule::date <= current_date") {
		t.Error("due-visit query must compare the date part, not the timestamp")
	}
	if strings.Contains(query, "comment") {
		t.Error("due-visit projection must exclude the comment log")
	}
	if !strings.Contains(query, "order by visit_schedule asc") {
		t.Error("due visits must be ordered ascending by schedule")
	}
}
