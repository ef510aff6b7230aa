package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

// SMS field ids in display order, with their labels.
var smsFields = []struct{ id, label string }{
	{"client_name", "客戶名稱"},
	{"type", "預約類型"},
	{"pickup_time", "接客時間"},
	{"pickup_location", "接客地點"},
	{"arrival_time", "抵達時間"},
	{"arrival_location", "抵達地點"},
	{"flight_info", "航班資訊"},
	{"other_details", "備註"},
}

func DefaultSMSTemplate() *model.SMSTemplate {
	t := &model.SMSTemplate{
		Greeting: "您好，以下是我們接下來的行程：",
		Closing:  "期待為您服務！",
	}
	for _, f := range smsFields {
		t.Fields = append(t.Fields, f.id)
	}
	return t
}

func smsLabel(id string) (string, bool) {
	for _, f := range smsFields {
		if f.id == id {
			return f.label, true
		}
	}
	return "", false
}

// SMSTemplate returns the saved template or the default one.
func (s *Service) SMSTemplate(ctx context.Context) (*model.SMSTemplate, error) {
	t, err := s.store.GetSMSTemplate(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return DefaultSMSTemplate(), nil
	}
	return t, err
}

func (s *Service) SaveSMSTemplate(ctx context.Context, t model.SMSTemplate) (*model.SMSTemplate, error) {
	seen := map[string]bool{}
	for _, id := range t.Fields {
		if _, ok := smsLabel(id); !ok {
			return nil, badRequest("Unknown SMS field: %s", id)
		}
		if seen[id] {
			return nil, badRequest("Duplicate SMS field: %s", id)
		}
		seen[id] = true
	}
	if t.Fields == nil {
		t.Fields = []string{}
	}
	t.UpdatedAt = s.stamp()
	if err := s.store.SaveSMSTemplate(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// RenderSMS builds the reminder text for one appointment.
func (s *Service) RenderSMS(ctx context.Context, id string) (string, error) {
	a, err := s.GetAppointment(ctx, id)
	if err != nil {
		return "", err
	}
	tpl, err := s.SMSTemplate(ctx)
	if err != nil {
		return "", err
	}
	typeName := ""
	if a.AppointmentTypeID != "" {
		t, err := s.store.GetType(ctx, a.AppointmentTypeID)
		switch {
		case err == nil:
			typeName = t.Name
		case !errors.Is(err, store.ErrNotFound):
			return "", err
		}
	}
	return renderSMS(tpl, a, typeName), nil
}

func renderSMS(tpl *model.SMSTemplate, a *model.Appointment, typeName string) string {
	values := map[string]string{
		"client_name":      a.ClientName,
		"type":             typeName,
		"pickup_time":      smsTime(a.PickupTime),
		"pickup_location":  a.PickupLocation,
		"arrival_time":     smsTime(a.ArrivalTime),
		"arrival_location": a.ArrivalLocation,
		"flight_info":      a.FlightInfo,
		"other_details":    a.OtherDetails,
	}
	var lines []string
	for _, id := range tpl.Fields {
		label, ok := smsLabel(id)
		if !ok || values[id] == "" {
			continue
		}
		lines = append(lines, "【"+label+"】"+values[id])
	}

	var parts []string
	for _, p := range []string{tpl.Greeting, strings.Join(lines, "\n"), tpl.Closing} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// smsTime renders an ISO pickup/arrival time as 2006年01月02日 15:04,
// leaving unparseable values as given.
func smsTime(v string) string {
	for _, l := range inputLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t.Format("2006年01月02日 15:04")
		}
	}
	return v
}
