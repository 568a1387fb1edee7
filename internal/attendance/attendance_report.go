package attendance

import (
	"fmt"
	"strings"

	"platoon-pulse/internal/practice"
	"platoon-pulse/internal/shared/timeofday"
)

// Column widths of the plain-text report.
const (
	colName       = 30
	colAppNo      = 10
	colPlatoon    = 10
	colEntry      = 8
	colExit       = 8
	colPercentage = 6
)

type ReportLine struct {
	CadetID           string  `json:"cadet_id"`
	CadetName         string  `json:"cadet_name"`
	ApplicationNumber string  `json:"application_number"`
	Platoon           string  `json:"platoon"`
	EntryTime         *string `json:"entry_time"`
	ExitTime          *string `json:"exit_time"`
	Percentage        float64 `json:"attendance_percentage"`
}

type ReportSummary struct {
	Present    int `json:"present"`
	LeaveEarly int `json:"leave_early"`
	Absent     int `json:"absent"`
	Total      int `json:"total"`
}

type Report struct {
	SessionID       string        `json:"session_id"`
	Title           string        `json:"title"`
	Date            string        `json:"date"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	DurationMinutes int           `json:"duration_minutes"`
	Summary         ReportSummary `json:"summary"`
	Present         []ReportLine  `json:"present"`
	LeaveEarly      []ReportLine  `json:"leave_early"`
	Absent          []ReportLine  `json:"absent"`
}

// buildReport buckets every record by its stored status. Records without a
// recognised status fall back to classifying the stored percentage.
func buildReport(s practice.Session, records []Record) Report {
	rep := Report{
		SessionID:       s.ID.String(),
		Title:           s.Title,
		Date:            s.Date.Format(practice.DateLayout),
		StartTime:       timeofday.Format(s.StartTime),
		EndTime:         timeofday.Format(s.EndTime),
		DurationMinutes: s.DurationMinutes,
		Present:         []ReportLine{},
		LeaveEarly:      []ReportLine{},
		Absent:          []ReportLine{},
	}

	for _, r := range records {
		line := ReportLine{
			CadetID:    r.CadetID.String(),
			EntryTime:  timeofday.FormatPtr(r.EntryTime),
			ExitTime:   timeofday.FormatPtr(r.ExitTime),
			Percentage: r.AttendancePercentage,
		}
		if r.Cadet != nil {
			line.CadetName = r.Cadet.FullName
			line.ApplicationNumber = r.Cadet.ApplicationNumber
			line.Platoon = r.Cadet.Platoon
		}

		status := Status(r.AttendanceStatus)
		switch status {
		case StatusPresent, StatusLeaveEarly, StatusAbsent:
		default:
			status = ClassifyStatus(r.AttendancePercentage)
		}

		switch status {
		case StatusPresent:
			rep.Present = append(rep.Present, line)
		case StatusLeaveEarly:
			rep.LeaveEarly = append(rep.LeaveEarly, line)
		default:
			rep.Absent = append(rep.Absent, line)
		}
	}

	rep.Summary = ReportSummary{
		Present:    len(rep.Present),
		LeaveEarly: len(rep.LeaveEarly),
		Absent:     len(rep.Absent),
		Total:      len(rep.Present) + len(rep.LeaveEarly) + len(rep.Absent),
	}
	return rep
}

// pad left-aligns v in a cell of width w, truncating longer values.
func pad(v string, w int) string {
	r := []rune(v)
	if len(r) > w {
		return string(r[:w])
	}
	return v + strings.Repeat(" ", w-len(r))
}

func orDash(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func tableRow(name, appNo, platoon, entry, exit, pct string) string {
	return strings.Join([]string{
		pad(name, colName),
		pad(appNo, colAppNo),
		pad(platoon, colPlatoon),
		pad(entry, colEntry),
		pad(exit, colExit),
		pad(pct, colPercentage),
	}, " ")
}

// ReportLines renders the report as plain-text lines: header, summary, then
// the present, leave early and absent sections in that order.
func ReportLines(rep Report) []string {
	lines := []string{
		"ATTENDANCE REPORT",
		"Session:  " + rep.Title,
		"Date:     " + rep.Date,
		fmt.Sprintf("Time:     %s - %s", rep.StartTime, rep.EndTime),
		fmt.Sprintf("Duration: %d minutes", rep.DurationMinutes),
		"",
		"SUMMARY",
		fmt.Sprintf("Present:     %d", rep.Summary.Present),
		fmt.Sprintf("Leave Early: %d", rep.Summary.LeaveEarly),
		fmt.Sprintf("Absent:      %d", rep.Summary.Absent),
		fmt.Sprintf("Total:       %d", rep.Summary.Total),
	}

	sections := []struct {
		title string
		rows  []ReportLine
	}{
		{"PRESENT", rep.Present},
		{"LEAVE EARLY", rep.LeaveEarly},
		{"ABSENT", rep.Absent},
	}
	for _, sec := range sections {
		lines = append(lines, "", fmt.Sprintf("%s (%d)", sec.title, len(sec.rows)))
		lines = append(lines, tableRow("Name", "App No", "Platoon", "Entry", "Exit", "%"))
		if len(sec.rows) == 0 {
			lines = append(lines, "(none)")
			continue
		}
		for _, row := range sec.rows {
			lines = append(lines, tableRow(
				row.CadetName,
				row.ApplicationNumber,
				row.Platoon,
				orDash(row.EntryTime),
				orDash(row.ExitTime),
				fmt.Sprintf("%.2f", row.Percentage),
			))
		}
	}
	return lines
}

func RenderText(rep Report) []byte {
	return []byte(strings.Join(ReportLines(rep), "\n") + "\n")
}

// ReportFileName builds attendance-report-{date}-{title-with-dashes}.{ext}.
func ReportFileName(rep Report, ext string) string {
	title := strings.Join(strings.Fields(rep.Title), "-")
	title = strings.NewReplacer("/", "-", "\\", "-").Replace(title)
	return fmt.Sprintf("attendance-report-%s-%s.%s", rep.Date, title, ext)
}
