package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasksapi/internal/core/model/response"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthResponse{Status: "healthy"})
}
