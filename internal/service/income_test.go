package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"driver-scheduler/internal/model"
	"driver-scheduler/internal/service"
)

func seedRide(t *testing.T, f *fixture, client, pickup, status string, amount float64) {
	t.Helper()
	in := validInput()
	in.ClientName, in.PickupTime, in.Status, in.Amount = client, pickup, status, amount
	if _, err := f.svc.CreateAppointment(context.Background(), in); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestIncomeStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	seedRide(t, f, "Chen", "2025-10-01T08:00", model.StatusCompleted, 100)
	seedRide(t, f, "Lin", "2025-10-02T08:00", model.StatusCompleted, 200)
	seedRide(t, f, "Chen", "2025-10-03T08:00", model.StatusCompleted, 300)
	seedRide(t, f, "Chen", "2025-10-04T08:00", model.StatusScheduled, 999)
	seedRide(t, f, "Chen", "2025-10-05T08:00", model.StatusCancelled, 999)

	st, err := f.svc.IncomeStats(ctx, model.IncomeFilter{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalIncome != 600 || st.TotalCount != 3 || st.AverageIncome != 200 {
		t.Errorf("totals: %+v", st)
	}
	if c := st.ByClient["Chen"]; c.Count != 2 || c.Total != 400 {
		t.Errorf("Chen: %+v", c)
	}
	if c := st.ByClient["Lin"]; c.Count != 1 || c.Total != 200 {
		t.Errorf("Lin: %+v", c)
	}

	st, err = f.svc.IncomeStats(ctx, model.IncomeFilter{StartDate: "2025-10-02", EndDate: "2025-10-03T23:59"})
	if err != nil {
		t.Fatalf("bounded stats: %v", err)
	}
	if st.TotalIncome != 500 || st.TotalCount != 2 {
		t.Errorf("bounds: %+v", st)
	}

	st, err = f.svc.IncomeStats(ctx, model.IncomeFilter{ClientName: "chen"})
	if err != nil {
		t.Fatalf("client stats: %v", err)
	}
	if st.TotalIncome != 400 {
		t.Errorf("client filter: %+v", st)
	}
}

func TestIncomeStatsEmpty(t *testing.T) {
	f := setup(t)
	st, err := f.svc.IncomeStats(context.Background(), model.IncomeFilter{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalCount != 0 || st.AverageIncome != 0 || len(st.ByClient) != 0 {
		t.Errorf("empty stats: %+v", st)
	}
}

func TestIncomeStatsKeepsClientSpelling(t *testing.T) {
	f := setup(t)
	seedRide(t, f, "Chen", "2025-10-01T08:00", model.StatusCompleted, 100)
	seedRide(t, f, "chen", "2025-10-01T09:00", model.StatusCompleted, 100)

	// creation requires a client name, so write the blank one directly
	if err := f.store.InsertAppointment(context.Background(), &model.Appointment{
		ID: "blank", PickupTime: "2025-10-01T10:00", Status: model.StatusCompleted, Amount: 50,
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := f.store.InsertAppointment(context.Background(), &model.Appointment{
		ID: "named-unknown", ClientName: "Unknown", PickupTime: "2025-10-01T11:00", Status: model.StatusCompleted, Amount: 70,
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	st, err := f.svc.IncomeStats(context.Background(), model.IncomeFilter{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(st.ByClient) != 4 {
		t.Errorf("expected Chen, chen, Unknown and the empty name: %v", st.ByClient)
	}
	if c := st.ByClient[""]; c.Count != 1 || c.Total != 50 {
		t.Errorf("empty name must keep its own key: %+v", st.ByClient)
	}
	if c := st.ByClient["Unknown"]; c.Count != 1 || c.Total != 70 {
		t.Errorf("a client called Unknown must not absorb empty names: %+v", st.ByClient)
	}
}

func TestIncomePeriods(t *testing.T) {
	f := setup(t)
	// Saturday 2025-10-18
	f.clock.t = time.Date(2025, 10, 18, 9, 30, 0, 0, time.UTC)
	seedRide(t, f, "Chen", "2025-09-30T23:00", model.StatusCompleted, 10)
	seedRide(t, f, "Chen", "2025-10-01T00:00", model.StatusCompleted, 20)
	seedRide(t, f, "Chen", "2025-10-31T23:59", model.StatusCompleted, 40)

	tests := []struct {
		period     string
		start, end string
		total      float64
	}{
		{service.PeriodMonth, "2025-10-01", "2025-10-31T23:59:59.999999999", 60},
		{service.PeriodLastMonth, "2025-09-01", "2025-09-30T23:59:59.999999999", 10},
		{service.PeriodWeek, "2025-10-13", "2025-10-19T23:59:59.999999999", 0},
		{service.PeriodYear, "2025-01-01", "2025-12-31T23:59:59.999999999", 70},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			st, err := f.svc.IncomeStats(context.Background(), model.IncomeFilter{Period: tt.period})
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if st.StartDate != tt.start || st.EndDate != tt.end {
				t.Errorf("bounds: %s .. %s", st.StartDate, st.EndDate)
			}
			if st.TotalIncome != tt.total {
				t.Errorf("total: %v want %v", st.TotalIncome, tt.total)
			}
		})
	}

	st, err := f.svc.IncomeStats(context.Background(), model.IncomeFilter{Period: service.PeriodMonth, StartDate: "2025-10-15"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.StartDate != "2025-10-15" || st.TotalIncome != 40 {
		t.Errorf("explicit start should win: %+v", st)
	}

	_, err = f.svc.IncomeStats(context.Background(), model.IncomeFilter{Period: "decade"})
	wantKind(t, err, service.ErrBadRequest, "Invalid period: decade")
}

func TestIncomeReport(t *testing.T) {
	f := setup(t)
	seedRide(t, f, "Chen", "2025-10-01T08:00", model.StatusCompleted, 1200)
	seedRide(t, f, "Lin", "2025-10-02T08:00", model.StatusCompleted, 800.5)

	b, name, err := f.svc.IncomeReport(context.Background(), model.IncomeFilter{StartDate: "2025-10-01", EndDate: "2025-10-31"})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Errorf("not a pdf: %q", b[:min(len(b), 16)])
	}
	if name != "income_2025-10-01_2025-10-31.pdf" {
		t.Errorf("filename: %s", name)
	}
}

func TestIncomeReportMissingFont(t *testing.T) {
	f := setup(t, func(o *service.Options) { o.ReportFont = "/nonexistent/font.ttf" })
	seedRide(t, f, "陳先生", "2025-10-01T08:00", model.StatusCompleted, 1200)

	b, name, err := f.svc.IncomeReport(context.Background(), model.IncomeFilter{})
	if err != nil {
		t.Fatalf("report should fall back to the core font: %v", err)
	}
	if len(b) == 0 || name != "income_report.pdf" {
		t.Errorf("report: %d bytes, %s", len(b), name)
	}
}
