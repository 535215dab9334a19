package models

import (
	"encoding/json"
	"testing"
)

func TestParseIssueStatus(t *testing.T) {
	cases := map[string]IssueStatus{
		"Open":       IssueStatusOpen,
		"inprogress": IssueStatusInProgress,
		" RESOLVED ": IssueStatusResolved,
		"0":          IssueStatusOpen,
		"2":          IssueStatusResolved,
	}
	for in, want := range cases {
		got, err := ParseIssueStatus(in)
		if err != nil || got != want {
			t.Fatalf("ParseIssueStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "Closed", "3", "-1"} {
		if _, err := ParseIssueStatus(bad); err == nil {
			t.Fatalf("ParseIssueStatus(%q) should fail", bad)
		}
	}
}

func TestIssueStatus_UnmarshalJSON(t *testing.T) {
	var v struct {
		Status IssueStatus `json:"status"`
	}
	for body, want := range map[string]IssueStatus{
		`{"status":"Resolved"}`: IssueStatusResolved,
		`{"status":1}`:          IssueStatusInProgress,
		`{"status":null}`:       "",
		`{"status":""}`:         "",
		`{}`:                    "",
	} {
		v.Status = ""
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if v.Status != want {
			t.Fatalf("%s: got %q want %q", body, v.Status, want)
		}
	}
	for _, body := range []string{`{"status":"Closed"}`, `{"status":1.5}`, `{"status":true}`} {
		if err := json.Unmarshal([]byte(body), &v); err == nil {
			t.Fatalf("%s: expected error", body)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("Admin"); !ok || r != RoleAdmin {
		t.Fatalf("Admin: %q %v", r, ok)
	}
	if r, ok := ParseRole("User"); !ok || r != RoleUser {
		t.Fatalf("User: %q %v", r, ok)
	}
	for _, s := range []string{"admin", "ADMIN", " Admin", "user", "root", ""} {
		if r, ok := ParseRole(s); ok {
			t.Fatalf("%q should be rejected, got %q", s, r)
		}
	}
}
