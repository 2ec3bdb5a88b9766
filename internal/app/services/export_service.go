package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/starmentor/internal/app/auth"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/repositories"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/validation"
)

const (
	attendanceSheet = "Attendance"
	summarySheet    = "Summary"
)

// Export is a generated file ready to be streamed
type Export struct {
	Filename    string
	ContentType string
	Body        *bytes.Buffer
}

// ExportService renders committee data as downloadable files
type ExportService struct {
	base
	now Clock
}

// NewExportService creates a new ExportService
func NewExportService(store repositories.Store, policy *auth.Policy, v *validation.Validator, logger zerolog.Logger) *ExportService {
	return &ExportService{base: newBase(store, policy, v, logger), now: time.Now}
}

// AttendanceWorkbook exports every attendance record of the admin's committee plus a
// per-member rate sheet
func (s *ExportService) AttendanceWorkbook(ctx context.Context, caller *models.Profile) (*Export, error) {
	if err := s.committeeWide(caller, auth.ResourceAttendance); err != nil {
		return nil, err
	}

	var (
		committee *models.Committee
		records   []*models.Attendance
		summaries []repositories.AttendanceSummary
	)
	scope := s.policy.Scope(caller)
	err := s.store.WithScope(ctx, scope, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		if committee, err = repos.Committees.GetByID(ctx, scope, scope.CommitteeID); err != nil {
			return err
		}
		if records, err = repos.Attendance.List(ctx, scope, repositories.AttendanceFilter{}); err != nil {
			return err
		}
		summaries, err = repos.Attendance.Summaries(ctx, scope)
		return err
	})
	if err != nil {
		return nil, err
	}

	buf, err := attendanceWorkbook(records, summaries)
	if err != nil {
		s.logger.Error().Err(err).Str("committee_id", committee.ID.String()).Msg("Failed to render attendance workbook")
		return nil, fmt.Errorf("failed to render attendance workbook: %w", err)
	}
	return &Export{
		Filename:    fmt.Sprintf("attendance_%s_%s.xlsx", fileSlug(committee.Name), s.now().Format(models.DateLayout)),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Body:        buf,
	}, nil
}

func attendanceWorkbook(records []*models.Attendance, summaries []repositories.AttendanceSummary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	if err := writeRows(f, attendanceSheet, headerStyle,
		[]interface{}{"Date", "Member", "Week", "Status", "Notes"},
		attendanceRows(records)); err != nil {
		return nil, err
	}
	if err := writeRows(f, summarySheet, headerStyle,
		[]interface{}{"Member", "Present", "Total", "Rate (%)"},
		summaryRows(summaries)); err != nil {
		return nil, err
	}

	f.SetColWidth(attendanceSheet, "A", "A", 12)
	f.SetColWidth(attendanceSheet, "B", "B", 28)
	f.SetColWidth(attendanceSheet, "E", "E", 40)
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func attendanceRows(records []*models.Attendance) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, a := range records {
		week := ""
		if a.WeekNumber != nil {
			week = fmt.Sprintf("Week %d", *a.WeekNumber)
		}
		notes := ""
		if a.Notes != nil {
			notes = *a.Notes
		}
		rows = append(rows, []interface{}{a.Date.Format(models.DateLayout), a.UserName, week, string(a.Status), notes})
	}
	return rows
}

func summaryRows(summaries []repositories.AttendanceSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summaries))
	for _, sum := range summaries {
		rows = append(rows, []interface{}{sum.FullName, sum.Present, sum.Total, AttendanceRate(sum.Present, sum.Total)})
	}
	return rows
}

// writeRows writes a styled header followed by rows starting at A1
func writeRows(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// WeekCalendar exports the committee's weeks as all-day iCalendar events
func (s *ExportService) WeekCalendar(ctx context.Context, caller *models.Profile) (*Export, error) {
	if caller != nil && !caller.HasCommittee() {
		return nil, apperrors.NewNotFoundError("caller is not assigned to a committee")
	}

	var (
		committee *models.Committee
		weeks     []*models.Week
	)
	err := s.run(ctx, caller, auth.ActionRead, auth.ResourceWeek, func(ctx context.Context, repos *repositories.Repositories, scope repositories.Scope) error {
		var err error
		if committee, err = repos.Committees.GetByID(ctx, scope, scope.CommitteeID); err != nil {
			return err
		}
		weeks, err = repos.Weeks.List(ctx, scope, repositories.WeekFilter{})
		return err
	})
	if err != nil {
		return nil, err
	}

	body := weekCalendar(committee, weeks, s.now().UTC())
	return &Export{
		Filename:    fmt.Sprintf("weeks_%s.ics", fileSlug(committee.Name)),
		ContentType: "text/calendar; charset=utf-8",
		Body:        bytes.NewBufferString(body),
	}, nil
}

func weekCalendar(committee *models.Committee, weeks []*models.Week, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//starmentor//weeks//EN")
	cal.SetName(committee.Name)
	cal.SetXWRCalName(committee.Name)

	for _, w := range weeks {
		event := cal.AddEvent(fmt.Sprintf("week-%s@starmentor", w.ID))
		event.SetDtStampTime(stamp)
		event.SetSummary(fmt.Sprintf("Week %d: %s", w.WeekNumber, w.Title))
		if w.Description != "" {
			event.SetDescription(w.Description)
		}
		event.SetAllDayStartAt(w.StartDate)
		// DTEND is exclusive for all-day events
		event.SetAllDayEndAt(w.EndDate.AddDate(0, 0, 1))
	}
	return cal.Serialize()
}

// fileSlug turns a committee name into a filename fragment
func fileSlug(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, strings.TrimSpace(name))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "committee"
	}
	return slug
}
