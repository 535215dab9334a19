package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"issueTracking/models"
)

const issueSelect = `SELECT i.id, i.title, i.description, i.status, i.project_id, p.id, p.name, p.description, p.assignee
FROM issues i
JOIN projects p ON p.id = i.project_id`

// SearchParams holds the optional issue filters. Nil fields are not applied;
// the ones present are combined with AND. All comparisons are case-sensitive.
type SearchParams struct {
	// Keyword matches as a substring of title or description.
	Keyword *string
	Status  *models.IssueStatus
	// Tag matches any tag name in the issue's tag set.
	Tag *string
	// Assignee matches the parent project's assignee.
	Assignee *string
}

// where builds the conjunctive predicate list for p.
// instr() is used instead of LIKE because LIKE is case-insensitive for ASCII.
func (p SearchParams) where() (string, []any) {
	var where []string
	var args []any

	if p.Keyword != nil {
		where = append(where, "(instr(i.title, ?) > 0 OR instr(i.description, ?) > 0)")
		args = append(args, *p.Keyword, *p.Keyword)
	}
	if p.Status != nil {
		where = append(where, "i.status = ?")
		args = append(args, string(*p.Status))
	}
	if p.Tag != nil {
		where = append(where, "EXISTS (SELECT 1 FROM issue_tags it JOIN tags t ON t.id = it.tag_id WHERE it.issue_id = i.id AND t.name = ?)")
		args = append(args, *p.Tag)
	}
	if p.Assignee != nil {
		where = append(where, "p.assignee = ?")
		args = append(args, *p.Assignee)
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// Search returns issues matching every present filter, ordered by id.
// With no filters it returns all issues.
func (r *IssueRepository) Search(ctx context.Context, p SearchParams) ([]models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	clause, args := p.where()
	rows, err := r.db.QueryContext(ctx, issueSelect+clause+" ORDER BY i.id", args...)
	if err != nil {
		return nil, err
	}
	list, err := scanIssueRows(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// tagBatchSize bounds the IN list of one loadTags query, keeping it well under
// SQLite's host parameter limit.
const tagBatchSize = 500

// loadTags fills the Tags field of every issue in list, one query per batch.
func (r *IssueRepository) loadTags(ctx context.Context, list []models.Issue) error {
	index := make(map[int64]int, len(list))
	for n := range list {
		list[n].Tags = []models.Tag{}
		index[list[n].ID] = n
	}
	for lo := 0; lo < len(list); lo += tagBatchSize {
		hi := min(lo+tagBatchSize, len(list))
		if err := r.loadTagBatch(ctx, list, index, list[lo:hi]); err != nil {
			return err
		}
	}
	return nil
}

func (r *IssueRepository) loadTagBatch(ctx context.Context, list []models.Issue, index map[int64]int, batch []models.Issue) error {
	placeholders := make([]string, len(batch))
	args := make([]any, len(batch))
	for n := range batch {
		placeholders[n] = "?"
		args[n] = batch[n].ID
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT it.issue_id, t.id, t.name, t.description
FROM issue_tags it
JOIN tags t ON t.id = it.tag_id
WHERE it.issue_id IN (`+strings.Join(placeholders, ",")+`)
ORDER BY it.issue_id, t.id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var issueID int64
		var t models.Tag
		if err := rows.Scan(&issueID, &t.ID, &t.Name, &t.Description); err != nil {
			return err
		}
		if n, ok := index[issueID]; ok {
			list[n].Tags = append(list[n].Tags, t)
		}
	}
	return rows.Err()
}

// scanIssueRows scans issueSelect rows and closes them.
func scanIssueRows(rows *sql.Rows) ([]models.Issue, error) {
	defer rows.Close()
	out := []models.Issue{}
	for rows.Next() {
		var i models.Issue
		var p models.Project
		var status string
		if err := rows.Scan(&i.ID, &i.Title, &i.Description, &status, &i.ProjectID, &p.ID, &p.Name, &p.Description, &p.Assignee); err != nil {
			return nil, err
		}
		i.Status = models.IssueStatus(status)
		i.Project = &p
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
