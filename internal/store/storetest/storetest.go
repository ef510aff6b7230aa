// Package storetest is a behavioural suite shared by the store drivers.
package storetest

import (
	"context"
	"errors"
	"testing"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/store"
)

// Opener returns an empty store for one subtest.
type Opener func(t *testing.T) store.Store

func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(t *testing.T, st store.Store)
	}{
		{"TypesKeepInsertionOrder", typesKeepInsertionOrder},
		{"UpdateMergesFields", updateMergesFields},
		{"MissingIDs", missingIDs},
		{"AppointmentFilters", appointmentFilters},
		{"CountByType", countByType},
		{"Settings", settings},
		{"Migrations", migrations},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

func typesKeepInsertionOrder(t *testing.T, st store.Store) {
	ctx := context.Background()
	ts := []model.AppointmentType{
		{ID: "t-z", Name: "機場接送", Color: "#9333ea", Icon: "Plane"},
		{ID: "t-a", Name: "市區接送", Color: "#06b6d4", Icon: "Car"},
	}
	if err := st.InsertTypes(ctx, ts); err != nil {
		t.Fatalf("insert types: %v", err)
	}
	if err := st.InsertType(ctx, &model.AppointmentType{ID: "t-m", Name: "VIP 專屬"}); err != nil {
		t.Fatalf("insert type: %v", err)
	}

	got, err := st.ListTypes(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != "t-z" || got[1].ID != "t-a" || got[2].ID != "t-m" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Name != "機場接送" {
		t.Errorf("name not round-tripped: %q", got[0].Name)
	}

	got, err = st.ListTypes(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limit ignored: %d", len(got))
	}

	n, err := st.CountTypes(ctx)
	if err != nil || n != 3 {
		t.Errorf("count: %d %v", n, err)
	}
}

func updateMergesFields(t *testing.T, st store.Store) {
	ctx := context.Background()
	a := &model.Appointment{
		ID: "a1", ClientName: "Chen", PickupTime: "2025-10-20T08:00",
		FlightInfo: "BR123", Amount: 1500, Status: model.StatusScheduled,
	}
	if err := st.InsertAppointment(ctx, a); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := st.UpdateAppointment(ctx, "a1", map[string]any{"status": model.StatusCompleted, "amount": 0.0})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := st.GetAppointment(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.StatusCompleted || got.Amount != 0 {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.FlightInfo != "BR123" || got.ClientName != "Chen" {
		t.Errorf("untouched fields changed: %+v", got)
	}

	if err := st.InsertType(ctx, &model.AppointmentType{ID: "t1", Name: "a", Color: "#000", Icon: "Car"}); err != nil {
		t.Fatalf("insert type: %v", err)
	}
	if err := st.UpdateType(ctx, "t1", map[string]any{"icon": "Plane"}); err != nil {
		t.Fatalf("update type: %v", err)
	}
	tp, err := st.GetType(ctx, "t1")
	if err != nil {
		t.Fatalf("get type: %v", err)
	}
	if tp.Icon != "Plane" || tp.Name != "a" {
		t.Errorf("type patch: %+v", tp)
	}
}

func missingIDs(t *testing.T, st store.Store) {
	ctx := context.Background()
	checks := map[string]error{}
	_, checks["get type"] = st.GetType(ctx, "nope")
	checks["update type"] = st.UpdateType(ctx, "nope", map[string]any{"name": "x"})
	checks["delete type"] = st.DeleteType(ctx, "nope")
	_, checks["get appointment"] = st.GetAppointment(ctx, "nope")
	checks["update appointment"] = st.UpdateAppointment(ctx, "nope", map[string]any{"status": "completed"})
	checks["delete appointment"] = st.DeleteAppointment(ctx, "nope")
	_, checks["auth config"] = st.GetAuthConfig(ctx, "driver")
	_, checks["sms template"] = st.GetSMSTemplate(ctx)
	for name, err := range checks {
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func appointmentFilters(t *testing.T, st store.Store) {
	ctx := context.Background()
	seed := []model.Appointment{
		{ID: "1", ClientName: "Wang Da-Ming", PickupTime: "2025-10-20T08:00", Status: "completed", AppointmentTypeID: "t1"},
		{ID: "2", ClientName: "wang xiao", PickupTime: "2025-10-21T09:30", Status: "scheduled", AppointmentTypeID: "t2"},
		{ID: "3", ClientName: "Lin", PickupTime: "2025-10-20T17:00", Status: "completed", AppointmentTypeID: "t1"},
		{ID: "4", ClientName: "A.B (VIP)", PickupTime: "2025-11-01T07:00", Status: "completed", AppointmentTypeID: "t2"},
		{ID: "5", ClientName: "Élodie Martin", PickupTime: "2025-12-01T07:00", Status: "scheduled", AppointmentTypeID: "t3"},
		{ID: "6", ClientName: "Иван Петров", PickupTime: "2025-12-02T07:00", Status: "scheduled", AppointmentTypeID: "t3"},
	}
	for i := range seed {
		if err := st.InsertAppointment(ctx, &seed[i]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter model.AppointmentFilter
		want   []string
	}{
		{"all", model.AppointmentFilter{}, []string{"1", "2", "3", "4", "5", "6"}},
		{"status", model.AppointmentFilter{Status: "completed"}, []string{"1", "3", "4"}},
		{"client case-insensitive", model.AppointmentFilter{ClientName: "WANG"}, []string{"1", "2"}},
		{"client accented", model.AppointmentFilter{ClientName: "élodie"}, []string{"5"}},
		{"client cyrillic", model.AppointmentFilter{ClientName: "иван"}, []string{"6"}},
		{"client literal", model.AppointmentFilter{ClientName: "(vip)"}, []string{"4"}},
		{"client dot is literal", model.AppointmentFilter{ClientName: "a.b"}, []string{"4"}},
		{"date prefix", model.AppointmentFilter{DatePrefix: "2025-10-20"}, []string{"1", "3"}},
		{"type", model.AppointmentFilter{AppointmentTypeID: "t2"}, []string{"2", "4"}},
		{"conjunction", model.AppointmentFilter{Status: "completed", AppointmentTypeID: "t1", ClientName: "lin"}, []string{"3"}},
		{"range", model.AppointmentFilter{PickupFrom: "2025-10-20T12:00", PickupTo: "2025-10-31"}, []string{"2", "3"}},
		{"no match", model.AppointmentFilter{Status: "cancelled"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.ListAppointments(ctx, tt.filter, 100)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %v", len(got), tt.want)
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("record %d: got %s want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}

	got, err := st.ListAppointments(ctx, model.AppointmentFilter{}, 2)
	if err != nil || len(got) != 2 {
		t.Errorf("limit: %d %v", len(got), err)
	}
}

func countByType(t *testing.T, st store.Store) {
	ctx := context.Background()
	for _, id := range []string{"x", "y", "z"} {
		a := &model.Appointment{ID: id, AppointmentTypeID: "t1", Status: "scheduled"}
		if id == "z" {
			a.AppointmentTypeID = "t2"
		}
		if err := st.InsertAppointment(ctx, a); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	n, err := st.CountAppointmentsByType(ctx, "t1")
	if err != nil || n != 2 {
		t.Errorf("count t1: %d %v", n, err)
	}
	if err := st.DeleteAppointment(ctx, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n, err = st.CountAppointmentsByType(ctx, "t1")
	if err != nil || n != 1 {
		t.Errorf("count after delete: %d %v", n, err)
	}
}

func settings(t *testing.T, st store.Store) {
	ctx := context.Background()
	if err := st.UpsertPattern(ctx, "driver", []int{0, 1, 2, 5}, "2025-10-18T00:00:00.000000Z"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := st.UpsertPattern(ctx, "driver", []int{6, 3, 0, 1, 2}, "2025-10-19T00:00:00.000000Z"); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	cfg, err := st.GetAuthConfig(ctx, "driver")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cfg.Pattern) != 5 || cfg.Pattern[0] != 6 || cfg.UpdatedAt != "2025-10-19T00:00:00.000000Z" {
		t.Errorf("pattern not replaced: %+v", cfg)
	}

	tpl := &model.SMSTemplate{Greeting: "您好", Fields: []string{"client_name", "pickup_time"}, Closing: "謝謝"}
	if err := st.SaveSMSTemplate(ctx, tpl); err != nil {
		t.Fatalf("save template: %v", err)
	}
	tpl.Fields = []string{"flight_info"}
	if err := st.SaveSMSTemplate(ctx, tpl); err != nil {
		t.Fatalf("save template again: %v", err)
	}
	got, err := st.GetSMSTemplate(ctx)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if got.Greeting != "您好" || len(got.Fields) != 1 || got.Fields[0] != "flight_info" {
		t.Errorf("template: %+v", got)
	}
}

// migrations drives the bulk primitives with legacy documents written
// through the regular insert path and then patched into the old shape.
func migrations(t *testing.T, st store.Store) {
	ctx := context.Background()
	if err := st.InsertTypes(ctx, []model.AppointmentType{
		{ID: "t-air", Name: "機場接送"}, {ID: "t-city", Name: "市區接送"},
	}); err != nil {
		t.Fatalf("insert types: %v", err)
	}

	for _, id := range []string{"airport", "mystery", "current"} {
		if err := st.InsertAppointment(ctx, &model.Appointment{ID: id, Status: "scheduled"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	mustLegacy(t, st, "airport", "airport", 2)
	mustLegacy(t, st, "mystery", "helicopter", 0)

	n, err := st.MigrateLegacyTypes(ctx, map[string]string{"airport": "t-air"}, "t-city")
	if err != nil || n != 2 {
		t.Fatalf("migrate: %d %v", n, err)
	}
	check := func(id, want string) {
		t.Helper()
		a, err := st.GetAppointment(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if a.AppointmentTypeID != want {
			t.Errorf("%s: type id %q, want %q", id, a.AppointmentTypeID, want)
		}
	}
	check("airport", "t-air")
	check("mystery", "t-city")

	n, err = st.MigrateLegacyTypes(ctx, map[string]string{"airport": "t-air"}, "t-city")
	if err != nil || n != 0 {
		t.Errorf("second migrate should be a no-op: %d %v", n, err)
	}

	n, err = st.NormalizeLuggage(ctx)
	if err != nil || n != 1 {
		t.Fatalf("luggage: %d %v", n, err)
	}
	a, _ := st.GetAppointment(ctx, "airport")
	if a.LuggagePassengers != "2" {
		t.Errorf("luggage_passengers %q", a.LuggagePassengers)
	}
	n, err = st.NormalizeLuggage(ctx)
	if err != nil || n != 0 {
		t.Errorf("second luggage pass should be a no-op: %d %v", n, err)
	}

	n, err = st.RenameType(ctx, "市區接送", "市區接駁")
	if err != nil || n != 1 {
		t.Fatalf("rename: %d %v", n, err)
	}
	tp, _ := st.GetType(ctx, "t-city")
	if tp.Name != "市區接駁" {
		t.Errorf("rename not applied: %q", tp.Name)
	}
}

// mustLegacy rewrites an appointment into the pre-registry shape.
func mustLegacy(t *testing.T, st store.Store, id, code string, luggage int) {
	t.Helper()
	l, ok := st.(Legacy)
	if !ok {
		t.Skip("driver cannot write legacy documents")
	}
	if err := l.WriteLegacy(context.Background(), id, code, luggage); err != nil {
		t.Fatalf("write legacy %s: %v", id, err)
	}
}

// Legacy is implemented by test wrappers that can strip appointment_type_id
// and write the old coded fields.
type Legacy interface {
	WriteLegacy(ctx context.Context, id, code string, luggage int) error
}
