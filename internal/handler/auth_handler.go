package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-scheduler/internal/service"
)

func (h *Handler) Login(c *gin.Context) {
	var cred service.Credentials
	if err := c.ShouldBindJSON(&cred); err != nil {
		badBody(c)
		return
	}
	res, err := h.svc.Login(c.Request.Context(), cred)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) PatternStatus(c *gin.Context) {
	has, err := h.svc.PatternStatus(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_pattern": has})
}

func (h *Handler) SetupPattern(c *gin.Context) {
	var req struct {
		Pattern []int `json:"pattern"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	if err := h.svc.SetupPattern(c.Request.Context(), req.Pattern); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pattern setup successful"})
}
