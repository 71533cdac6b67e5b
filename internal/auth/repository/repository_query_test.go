package repository

import (
	"strings"
	"testing"
)

func TestListPushTokensQueryExcludesUnregisteredDevices(t *testing.T) {
	query := strings.ToLower(listPushTokensQuery)

	for _, fragment := range []string{
		"fcm_token is not null",
		"fcm_token != ''",
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected push token query fragment %q to be present", fragment)
		}
	}
}

func TestListPushTokensForUsersIncludesAdmins(t *testing.T) {
	query := strings.ToLower(listPushTokensForUsersQuery)

	if !strings.Contains(query, "id = any($1)") {
		t.Fatal("expected reminder token query to filter by user id list")
	}
	if !strings.Contains(query, "role = 'admin'") {
		t.Fatal("expected reminder token query to always include admins")
	}
}

func TestUserRosterQueryIsNonAdminOnly(t *testing.T) {
	query := strings.ToLower(listUserRosterQuery)

	if !strings.Contains(query, "role = 'user'") {
		t.Fatal("expected roster query to select non-admin users only")
	}
}
