package rpc

import "driver-scheduler/internal/model"

type Empty struct{}

type IDRequest struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PatternStatusResponse struct {
	HasPattern bool `json:"has_pattern"`
}

type SetupPatternRequest struct {
	Pattern []int `json:"pattern"`
}

type UpdateTypeRequest struct {
	ID string `json:"id"`
	model.TypePatch
}

type TypeList struct {
	Types []model.AppointmentType `json:"types"`
}

type ListAppointmentsRequest struct {
	Status            string `json:"status"`
	ClientName        string `json:"client_name"`
	Date              string `json:"date"`
	AppointmentTypeID string `json:"appointment_type_id"`
}

type AppointmentList struct {
	Appointments []model.Appointment `json:"appointments"`
}

type UpdateAppointmentRequest struct {
	ID string `json:"id"`
	model.AppointmentPatch
}

type IncomeRequest struct {
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	ClientName        string `json:"client_name"`
	AppointmentTypeID string `json:"appointment_type_id"`
	Period            string `json:"period"`
}

func (r *IncomeRequest) filter() model.IncomeFilter {
	return model.IncomeFilter{
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		ClientName:        r.ClientName,
		AppointmentTypeID: r.AppointmentTypeID,
		Period:            r.Period,
	}
}

// ReportResponse carries the PDF; JSON encodes it as base64.
type ReportResponse struct {
	Filename string `json:"filename"`
	PDF      []byte `json:"pdf"`
}

type SMSResponse struct {
	SMS string `json:"sms"`
}
