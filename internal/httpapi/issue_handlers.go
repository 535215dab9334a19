package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"issueTracking/internal/service"
	"issueTracking/models"
	"issueTracking/repository"
)

func (h *handler) listIssues(c *gin.Context) {
	list, err := h.Issues.List(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	i, err := h.Issues.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

// searchIssues treats an empty query parameter as absent.
func (h *handler) searchIssues(c *gin.Context) {
	var p repository.SearchParams
	optional := func(key string) *string {
		if v := c.Query(key); v != "" {
			return &v
		}
		return nil
	}
	p.Keyword = optional("keyword")
	p.Tag = optional("tag")
	p.Assignee = optional("assignee")
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st, err := models.ParseIssueStatus(raw)
		if err != nil {
			message(c, http.StatusBadRequest, "Invalid status")
			return
		}
		p.Status = &st
	}
	list, err := h.Issues.Search(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (r issueRequest) input() service.IssueInput {
	return service.IssueInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		ProjectID:   r.ProjectID,
	}
}

func (h *handler) createIssue(c *gin.Context) {
	var req issueRequest
	if !bindJSON(c, &req) {
		return
	}
	i, err := h.Issues.Create(c.Request.Context(), actor(c), req.input())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *handler) updateIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req issueRequest
	if !bindJSON(c, &req) {
		return
	}
	i, err := h.Issues.Update(c.Request.Context(), actor(c), id, req.input())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *handler) updateIssueStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	i, err := h.Issues.UpdateStatus(c.Request.Context(), actor(c), id, req.Status)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *handler) deleteIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Issues.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, http.StatusOK, "Issue deleted successfully")
}

func (h *handler) addIssueTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req tagRefRequest
	if !bindJSON(c, &req) {
		return
	}
	i, err := h.Issues.AddTag(c.Request.Context(), actor(c), id, req.id())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

func (h *handler) removeIssueTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tagID, ok := pathID(c, "tagId")
	if !ok {
		return
	}
	i, err := h.Issues.RemoveTag(c.Request.Context(), actor(c), id, tagID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, i)
}
