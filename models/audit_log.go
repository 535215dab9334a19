package models

import "time"

// Audit action labels.
const (
	AuditCreateIssue       = "Create Issue"
	AuditUpdateIssue       = "Update Issue"
	AuditUpdateIssueStatus = "Update Issue Status"
	AuditDeleteIssue       = "Delete Issue"
	AuditAddTag            = "Add Tag to Issue"
	AuditRemoveTag         = "Remove Tag from Issue"
	AuditCreateTag         = "Create Tag"
	AuditUpdateTag         = "Update Tag"
	AuditDeleteTag         = "Delete Tag"
	AuditCreateProject     = "Create Project"
	AuditUpdateProject     = "Update Project"
)

// AuditLog is an immutable record of one mutating action.
// Rows are only ever inserted.
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	Username  string    `db:"username" json:"username"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Details   string    `db:"details" json:"details"`
}
