package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-scheduler/internal/middleware"
	"driver-scheduler/internal/service"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// fail maps service errors to {"detail": msg}. Anything without a kind
// is logged and reported as a bare 500.
func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrBadRequest):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	}
	msg := service.Message(err)
	if code == http.StatusInternalServerError || msg == "" {
		log.Printf("[HTTP] request_id=%s path=%s error: %v", middleware.GetRequestID(c), c.Request.URL.Path, err)
		code, msg = http.StatusInternalServerError, "Internal server error"
	}
	c.JSON(code, gin.H{"detail": msg})
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		log.Printf("[HTTP] health: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
