package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/service"
)

func (h *Handler) CreateAppointment(c *gin.Context) {
	var in service.AppointmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}
	a, err := h.svc.CreateAppointment(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	f := model.AppointmentFilter{
		Status:            c.Query("status"),
		ClientName:        c.Query("client_name"),
		DatePrefix:        c.Query("date"),
		AppointmentTypeID: c.Query("appointment_type_id"),
	}
	as, err := h.svc.ListAppointments(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	a, err := h.svc.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var p model.AppointmentPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badBody(c)
		return
	}
	a, err := h.svc.UpdateAppointment(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.svc.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

func incomeFilter(c *gin.Context) model.IncomeFilter {
	return model.IncomeFilter{
		StartDate:         c.Query("start_date"),
		EndDate:           c.Query("end_date"),
		ClientName:        c.Query("client_name"),
		AppointmentTypeID: c.Query("appointment_type_id"),
		Period:            c.Query("period"),
	}
}

func (h *Handler) IncomeStats(c *gin.Context) {
	st, err := h.svc.IncomeStats(c.Request.Context(), incomeFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) IncomeReport(c *gin.Context) {
	b, name, err := h.svc.IncomeReport(c.Request.Context(), incomeFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", b)
}

func (h *Handler) RenderSMS(c *gin.Context) {
	text, err := h.svc.RenderSMS(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sms": text})
}

func (h *Handler) SMSTemplate(c *gin.Context) {
	t, err := h.svc.SMSTemplate(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) SaveSMSTemplate(c *gin.Context) {
	var t model.SMSTemplate
	if err := c.ShouldBindJSON(&t); err != nil {
		badBody(c)
		return
	}
	saved, err := h.svc.SaveSMSTemplate(c.Request.Context(), t)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
