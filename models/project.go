package models

// Project is a named container of issues with a free-text assignee.
type Project struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Assignee    string `db:"assignee" json:"assignee"`
}
