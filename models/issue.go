package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// IssueStatus represents the progress of an issue.
// Any status may be set to any other status; no transition graph is enforced.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "Open"
	IssueStatusInProgress IssueStatus = "InProgress"
	IssueStatusResolved   IssueStatus = "Resolved"
)

// issueStatusOrder gives the numeric form of each status (0, 1, 2).
var issueStatusOrder = []IssueStatus{IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved}

// ParseIssueStatus accepts a status name (case-insensitive) or its numeric form.
func ParseIssueStatus(s string) (IssueStatus, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(issueStatusOrder) {
			return "", fmt.Errorf("invalid status %q", s)
		}
		return issueStatusOrder[n], nil
	}
	for _, st := range issueStatusOrder {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// Valid reports whether s is one of the known statuses.
func (s IssueStatus) Valid() bool {
	for _, st := range issueStatusOrder {
		if s == st {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts either a status name or its number.
// An empty string decodes to the empty status, which callers treat as Open.
func (s *IssueStatus) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = ""
		return nil
	case string:
		if v == "" {
			*s = ""
			return nil
		}
		st, err := ParseIssueStatus(v)
		if err != nil {
			return err
		}
		*s = st
		return nil
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("invalid status %v", v)
		}
		st, err := ParseIssueStatus(strconv.Itoa(int(v)))
		if err != nil {
			return err
		}
		*s = st
		return nil
	default:
		return fmt.Errorf("invalid status %s", string(b))
	}
}

// Issue is a trackable work item owned by exactly one project.
type Issue struct {
	ID          int64       `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description string      `db:"description" json:"description"`
	Status      IssueStatus `db:"status" json:"status"`
	ProjectID   int64       `db:"project_id" json:"projectId"`
	// Project is populated on reads; nil on freshly built values.
	Project *Project `json:"project,omitempty"`
	// Tags is the issue's tag set, ordered by tag id.
	Tags []Tag `json:"tags"`
}

// HasTag reports whether the tag id is in the issue's tag set.
func (i *Issue) HasTag(tagID int64) bool {
	for _, t := range i.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
