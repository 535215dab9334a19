package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
)

// bindJSON decodes and validates the body, answering 400 itself on failure.
func bindJSON(c *gin.Context, req validation.Validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		message(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathID parses the named path parameter as a positive id.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, ok := parseID(c.Param(name))
	if !ok {
		message(c, http.StatusBadRequest, "Invalid "+name)
	}
	return id, ok
}
