package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"issueTracking/internal/service"
)

func (h *handler) listTags(c *gin.Context) {
	list, err := h.Tags.List(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.Tags.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handler) createTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Tags.Create(c.Request.Context(), actor(c), service.TagInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handler) updateTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req tagRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Tags.Update(c.Request.Context(), actor(c), id, service.TagInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handler) deleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Tags.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, http.StatusOK, "Tag deleted successfully")
}

func (h *handler) listProjects(c *gin.Context) {
	list, err := h.Projects.List(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Projects.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (r projectRequest) input() service.ProjectInput {
	return service.ProjectInput{Name: r.Name, Description: r.Description, Assignee: r.Assignee}
}

func (h *handler) createProject(c *gin.Context) {
	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Projects.Create(c.Request.Context(), actor(c), req.input())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) updateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req projectRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Projects.Update(c.Request.Context(), actor(c), id, req.input())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) listAuditLogs(c *gin.Context) {
	limit, err1 := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, err2 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err1 != nil || err2 != nil || limit < 0 || offset < 0 {
		message(c, http.StatusBadRequest, "Invalid limit or offset")
		return
	}
	list, err := h.Audit.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
