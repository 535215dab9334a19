package httpapi

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"issueTracking/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r credentialsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
	)
}

type issueRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      models.IssueStatus `json:"status"`
	ProjectID   int64              `json:"projectId"`
}

func (r issueRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ProjectID, validation.Required, validation.Min(int64(1))),
	)
}

type statusRequest struct {
	Status models.IssueStatus `json:"status"`
}

func (r statusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

// tagRefRequest names the tag to attach. Older clients send the id as "id".
type tagRefRequest struct {
	TagID  int64 `json:"tagId"`
	Legacy int64 `json:"id"`
}

func (r tagRefRequest) id() int64 {
	if r.TagID != 0 {
		return r.TagID
	}
	return r.Legacy
}

func (r tagRefRequest) Validate() error {
	id := r.id()
	return validation.Validate(id, validation.Required.Error("tagId is required"), validation.Min(int64(1)))
}

type tagRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r tagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
	)
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
}

func (r projectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Assignee, validation.Length(0, 100)),
	)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
