package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"driver-scheduler/internal/model"
)

type clientRow struct {
	Name string
	model.ClientIncome
}

// rankClients orders clients by income, highest first, then by name.
func rankClients(byClient map[string]model.ClientIncome) []clientRow {
	rows := make([]clientRow, 0, len(byClient))
	for name, c := range byClient {
		rows = append(rows, clientRow{Name: name, ClientIncome: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// IncomeReport renders IncomeStats for f as an A4 PDF and suggests a
// download filename.
func (s *Service) IncomeReport(ctx context.Context, f model.IncomeFilter) ([]byte, string, error) {
	st, err := s.IncomeStats(ctx, f)
	if err != nil {
		return nil, "", err
	}
	b, err := s.buildIncomePDF(st, f)
	if err != nil {
		return nil, "", fmt.Errorf("income report: %w", err)
	}
	return b, reportFilename(st), nil
}

func reportFilename(st *model.IncomeStats) string {
	if st.StartDate == "" && st.EndDate == "" {
		return "income_report.pdf"
	}
	part := func(s string) string {
		if len(s) > 10 {
			s = s[:10]
		}
		if s == "" {
			return "all"
		}
		return s
	}
	return fmt.Sprintf("income_%s_%s.pdf", part(st.StartDate), part(st.EndDate))
}

func (s *Service) buildIncomePDF(st *model.IncomeStats, f model.IncomeFilter) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Income Report", true)

	family := "Helvetica"
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if s.reportFont != "" {
		pdf.AddUTF8Font("report", "", s.reportFont)
		pdf.AddUTF8Font("report", "B", s.reportFont)
		if err := pdf.Error(); err != nil {
			log.Printf("[report] font %s unusable, falling back to Helvetica: %v", s.reportFont, err)
			pdf.ClearError()
		} else {
			family = "report"
			text = func(s string) string { return s }
		}
	}

	pdf.AddPage()
	pdf.SetFont(family, "B", 18)
	pdf.Cell(0, 10, "INCOME REPORT")
	pdf.Ln(12)

	pdf.SetFont(family, "", 11)
	lines := []string{
		"Period      : " + orDash(st.StartDate) + " ~ " + orDash(st.EndDate),
		"Generated   : " + s.now().Format("2006-01-02 15:04"),
	}
	if f.ClientName != "" {
		lines = append(lines, "Client      : "+f.ClientName)
	}
	if f.AppointmentTypeID != "" {
		lines = append(lines, "Type        : "+f.AppointmentTypeID)
	}
	lines = append(lines,
		fmt.Sprintf("Total income: %s", money(st.TotalIncome)),
		fmt.Sprintf("Rides       : %d", st.TotalCount),
		fmt.Sprintf("Average     : %s", money(st.AverageIncome)),
	)
	for _, l := range lines {
		pdf.Cell(0, 7, text(l))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont(family, "B", 11)
	pdf.CellFormat(100, 8, "Client", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Rides", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, "Income", "1", 1, "R", false, 0, "")
	pdf.SetFont(family, "", 11)
	for _, r := range rankClients(st.ByClient) {
		pdf.CellFormat(100, 7, text(orDash(r.Name)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprint(r.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, money(r.Total), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

var printer = message.NewPrinter(language.English)

// money formats an amount with thousands separators and no decimals
// unless the amount has cents.
func money(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	cents := math.Round(v * 100)
	if math.Mod(cents, 100) == 0 {
		return sign + printer.Sprintf("$%d", int64(cents/100))
	}
	return sign + printer.Sprintf("$%.2f", cents/100)
}
