package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/service"
)

func (h *Handler) CreateType(c *gin.Context) {
	var in service.TypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	t, err := h.svc.CreateType(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTypes(c *gin.Context) {
	ts, err := h.svc.ListTypes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (h *Handler) UpdateType(c *gin.Context) {
	var p model.TypePatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badBody(c)
		return
	}
	t, err := h.svc.UpdateType(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteType(c *gin.Context) {
	if err := h.svc.DeleteType(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment type deleted successfully"})
}
