package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/goclone/internal/clone"
	"github.com/jonesrussell/goclone/internal/logger"
)

// handler carries the dependencies of the route handlers.
type handler struct {
	cloner Cloner
	log    logger.Interface
}

// CloneRequest is the POST /api/clone payload.
type CloneRequest struct {
	URL string `json:"url" binding:"required"`
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
}

// health reports liveness.
func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// clone runs a clone request. Malformed targets are client errors; anything
// else that fails is an internal error.
func (h *handler) clone(c *gin.Context) {
	var req CloneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "url is required"})
		return
	}

	result, err := h.cloner.CloneWebsite(c.Request.Context(), req.URL)
	if err != nil {
		var validationErr *clone.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
			return
		}

		h.log.Error("clone failed", "url", req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
