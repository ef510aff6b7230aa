package service

import (
	"context"
	"time"

	"github.com/jinzhu/now"

	"driver-scheduler/internal/model"
)

// Periods accepted by IncomeStats.
const (
	PeriodWeek      = "week"
	PeriodMonth     = "month"
	PeriodLastMonth = "last_month"
	PeriodYear      = "year"
)

// periodBounds returns inclusive lexicographic bounds on pickup_time. The
// start is a bare date so that any time on that day sorts after it; the
// end is the last representable instant of the final day.
func periodBounds(period string, t time.Time) (string, string, bool) {
	n := (&now.Config{WeekStartDay: time.Monday, TimeLocation: t.Location()}).With(t)
	var from, to time.Time
	switch period {
	case PeriodWeek:
		from, to = n.BeginningOfWeek(), n.EndOfWeek()
	case PeriodMonth:
		from, to = n.BeginningOfMonth(), n.EndOfMonth()
	case PeriodLastMonth:
		prev := now.With(n.BeginningOfMonth().AddDate(0, 0, -1))
		from, to = prev.BeginningOfMonth(), prev.EndOfMonth()
	case PeriodYear:
		from, to = n.BeginningOfYear(), n.EndOfYear()
	default:
		return "", "", false
	}
	return from.Format("2006-01-02"), to.Format("2006-01-02") + "T23:59:59.999999999", true
}

// IncomeStats folds completed appointments into per-client totals. When
// Period is set it fills whichever bound was not given explicitly.
func (s *Service) IncomeStats(ctx context.Context, f model.IncomeFilter) (*model.IncomeStats, error) {
	start, end := f.StartDate, f.EndDate
	if f.Period != "" {
		from, to, ok := periodBounds(f.Period, s.now())
		if !ok {
			return nil, badRequest("Invalid period: %s", f.Period)
		}
		if start == "" {
			start = from
		}
		if end == "" {
			end = to
		}
	}

	appts, err := s.store.ListAppointments(ctx, model.AppointmentFilter{
		Status:            model.StatusCompleted,
		ClientName:        f.ClientName,
		AppointmentTypeID: f.AppointmentTypeID,
		PickupFrom:        start,
		PickupTo:          end,
	}, StatsLimit)
	if err != nil {
		return nil, err
	}

	st := aggregate(appts)
	st.StartDate, st.EndDate = start, end
	return st, nil
}

func aggregate(appts []model.Appointment) *model.IncomeStats {
	st := &model.IncomeStats{ByClient: map[string]model.ClientIncome{}}
	for _, a := range appts {
		c := st.ByClient[a.ClientName]
		c.Count++
		c.Total += a.Amount
		st.ByClient[a.ClientName] = c
		st.TotalIncome += a.Amount
		st.TotalCount++
	}
	if st.TotalCount > 0 {
		st.AverageIncome = st.TotalIncome / float64(st.TotalCount)
	}
	return st
}
