package service_test

import (
	"context"
	"strings"
	"testing"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/service"
)

func TestSMSTemplateDefaults(t *testing.T) {
	f := setup(t)
	tpl, err := f.svc.SMSTemplate(context.Background())
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if tpl.Greeting != "您好，以下是我們接下來的行程：" || tpl.Closing != "期待為您服務！" {
		t.Errorf("defaults: %+v", tpl)
	}
	if len(tpl.Fields) != 8 || tpl.Fields[0] != "client_name" {
		t.Errorf("default fields: %v", tpl.Fields)
	}
}

func TestSaveSMSTemplateRejectsUnknownField(t *testing.T) {
	f := setup(t)
	_, err := f.svc.SaveSMSTemplate(context.Background(), model.SMSTemplate{Fields: []string{"client_name", "phone"}})
	wantKind(t, err, service.ErrBadRequest, "Unknown SMS field: phone")
	_, err = f.svc.SaveSMSTemplate(context.Background(), model.SMSTemplate{Fields: []string{"type", "type"}})
	wantKind(t, err, service.ErrBadRequest, "Duplicate SMS field: type")
}

func TestRenderSMS(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tp, _ := f.svc.CreateType(ctx, service.TypeInput{Name: "機場接送", Color: "#9333ea", Icon: "Plane"})
	in := validInput()
	in.AppointmentTypeID = tp.ID
	a, _ := f.svc.CreateAppointment(ctx, in)

	if _, err := f.svc.SaveSMSTemplate(ctx, model.SMSTemplate{
		Greeting: "您好",
		Fields:   []string{"pickup_time", "type", "flight_info", "client_name"},
		Closing:  "謝謝",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := f.svc.RenderSMS(ctx, a.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"您好",
		"",
		"【接客時間】2025年10月20日 08:00",
		"【預約類型】機場接送",
		"【客戶名稱】Chen",
		"",
		"謝謝",
	}, "\n")
	if got != want {
		t.Errorf("sms:\n%s\nwant:\n%s", got, want)
	}

	_, err = f.svc.RenderSMS(ctx, "missing")
	wantKind(t, err, service.ErrNotFound, "Appointment not found")
}
