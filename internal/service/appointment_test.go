package service_test

import (
	"context"
	"testing"
	"time"

	"driver-scheduler/internal/events"
	"driver-scheduler/internal/model"
	"driver-scheduler/internal/service"
)

func validInput() service.AppointmentInput {
	return service.AppointmentInput{
		ClientName:      "Chen",
		PickupTime:      "2025-10-20T08:00",
		PickupLocation:  "桃園機場第二航廈",
		ArrivalTime:     "2025-10-20T09:10",
		ArrivalLocation: "台北市信義區",
	}
}

func TestCreateAppointmentDefaults(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	in := validInput()
	in.FlightInfo = "BR198"
	a, err := f.svc.CreateAppointment(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != model.StatusScheduled || a.Amount != 0 {
		t.Errorf("defaults not applied: %+v", a)
	}

	got, err := f.svc.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *a {
		t.Errorf("stored record differs:\n got %+v\nwant %+v", got, a)
	}
	if got.CreatedAt != got.UpdatedAt {
		t.Errorf("timestamps should match on create: %s %s", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := setup(t)
	tests := []struct {
		name   string
		mutate func(*service.AppointmentInput)
		msg    string
	}{
		{"missing client", func(in *service.AppointmentInput) { in.ClientName = "" }, "client_name is required"},
		{"missing arrival", func(in *service.AppointmentInput) { in.ArrivalLocation = "" }, "arrival_location is required"},
		{"bad status", func(in *service.AppointmentInput) { in.Status = "confirmed" }, "Invalid status: confirmed"},
		{"negative amount", func(in *service.AppointmentInput) { in.Amount = -1 }, "amount must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := f.svc.CreateAppointment(context.Background(), in)
			wantKind(t, err, service.ErrBadRequest, tt.msg)
		})
	}
}

func TestCreateAppointmentDoesNotCheckType(t *testing.T) {
	f := setup(t)
	in := validInput()
	in.AppointmentTypeID = "no-such-type"
	if _, err := f.svc.CreateAppointment(context.Background(), in); err != nil {
		t.Fatalf("dangling type reference should be accepted: %v", err)
	}
}

func TestUpdateAppointmentPartial(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	in := validInput()
	in.FlightInfo = "BR198"
	in.Amount = 1800
	a, _ := f.svc.CreateAppointment(ctx, in)

	f.clock.Advance(time.Minute)
	status := model.StatusCompleted
	got, err := f.svc.UpdateAppointment(ctx, a.ID, model.AppointmentPatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != status || got.FlightInfo != "BR198" || got.Amount != 1800 || got.ClientName != "Chen" {
		t.Errorf("unexpected merge: %+v", got)
	}
	if !(got.UpdatedAt > a.UpdatedAt) {
		t.Errorf("updated_at did not advance: %s -> %s", a.UpdatedAt, got.UpdatedAt)
	}
	if got.CreatedAt != a.CreatedAt {
		t.Error("created_at must not change")
	}

	stored, _ := f.svc.GetAppointment(ctx, a.ID)
	if *stored != *got {
		t.Errorf("returned record differs from stored:\n got %+v\nwant %+v", got, stored)
	}

	// empty patch still refreshes updated_at
	f.clock.Advance(time.Minute)
	again, err := f.svc.UpdateAppointment(ctx, a.ID, model.AppointmentPatch{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if !(again.UpdatedAt > got.UpdatedAt) {
		t.Errorf("empty patch should refresh updated_at")
	}

	// a clock that steps back never moves updated_at backwards
	f.clock.Advance(-time.Hour)
	back, err := f.svc.UpdateAppointment(ctx, a.ID, model.AppointmentPatch{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if back.UpdatedAt < again.UpdatedAt {
		t.Errorf("updated_at moved backwards: %s -> %s", again.UpdatedAt, back.UpdatedAt)
	}
}

func TestUpdateAppointmentErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a, _ := f.svc.CreateAppointment(ctx, validInput())

	_, err := f.svc.UpdateAppointment(ctx, "missing", model.AppointmentPatch{})
	wantKind(t, err, service.ErrNotFound, "Appointment not found")

	bad := "done"
	_, err = f.svc.UpdateAppointment(ctx, a.ID, model.AppointmentPatch{Status: &bad})
	wantKind(t, err, service.ErrBadRequest, "Invalid status: done")

	empty := ""
	_, err = f.svc.UpdateAppointment(ctx, a.ID, model.AppointmentPatch{Status: &empty})
	wantKind(t, err, service.ErrBadRequest, "Invalid status: ")

	neg := -5.0
	_, err = f.svc.UpdateAppointment(ctx, a.ID, model.AppointmentPatch{Amount: &neg})
	wantKind(t, err, service.ErrBadRequest, "amount must not be negative")

	// a supplied zero amount is valid
	zero := 0.0
	if _, err := f.svc.UpdateAppointment(ctx, a.ID, model.AppointmentPatch{Amount: &zero}); err != nil {
		t.Errorf("zero amount: %v", err)
	}
}

func TestListAppointmentsFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	seed := []struct {
		client, pickup, status string
	}{
		{"Wang Da-Ming", "2025-10-20T08:00", model.StatusScheduled},
		{"WANG Xiao", "2025-10-20T18:00", model.StatusCompleted},
		{"Lin", "2025-10-21T08:00", model.StatusScheduled},
	}
	for _, s := range seed {
		in := validInput()
		in.ClientName, in.PickupTime, in.Status = s.client, s.pickup, s.status
		if _, err := f.svc.CreateAppointment(ctx, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter model.AppointmentFilter
		want   int
	}{
		{"status", model.AppointmentFilter{Status: model.StatusScheduled}, 2},
		{"client case-insensitive", model.AppointmentFilter{ClientName: "wang"}, 2},
		{"date", model.AppointmentFilter{DatePrefix: "2025-10-20"}, 2},
		{"conjunction", model.AppointmentFilter{Status: model.StatusScheduled, ClientName: "wang"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.ListAppointments(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d, want %d", len(got), tt.want)
			}
			for _, a := range got {
				if tt.filter.Status != "" && a.Status != tt.filter.Status {
					t.Errorf("status filter leaked %s", a.Status)
				}
			}
		})
	}
}

func TestDeleteAppointment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a, _ := f.svc.CreateAppointment(ctx, validInput())

	if err := f.svc.DeleteAppointment(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := f.svc.GetAppointment(ctx, a.ID)
	wantKind(t, err, service.ErrNotFound, "Appointment not found")
	err = f.svc.DeleteAppointment(ctx, a.ID)
	wantKind(t, err, service.ErrNotFound, "Appointment not found")

	got := f.events.Types()
	if len(got) != 2 || got[0] != events.AppointmentCreated || got[1] != events.AppointmentDeleted {
		t.Errorf("events: %v", got)
	}
}
