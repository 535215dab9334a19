package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"issueTracking/internal/service"
)

func (h *handler) register(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), principal(c), req.Username, req.Password)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": res.Message, "role": res.User.Role})
}

func (h *handler) login(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			message(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": res.Token, "expiresAt": res.ExpiresAt, "role": res.Role})
}
