package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/encoding/charmap"
	"tripplanner/internal/models/db_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/utils"
)

const (
	textPlanFileName = "travel_plan.txt"
	icsPlanFileName  = "travel_plan.ics"
	pdfPlanFileName  = "travel_plan.pdf"
)

type PlanExportServiceInterface interface {
	ExportText(plan *db_models.SessionPlan) (*response_models.ExportFile, error)
	ExportICS(plan *db_models.SessionPlan) (*response_models.ExportFile, error)
	ExportPDF(plan *db_models.SessionPlan) (*response_models.ExportFile, error)
}

type PlanExportService struct {
	loc *time.Location
}

func NewPlanExportService(loc *time.Location) PlanExportServiceInterface {
	if loc == nil {
		loc = time.UTC
	}
	return &PlanExportService{loc: loc}
}

// ExportText returns the plan exactly as generated.
func (s *PlanExportService) ExportText(plan *db_models.SessionPlan) (*response_models.ExportFile, error) {
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return &response_models.ExportFile{
		FileName:    textPlanFileName,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(plan.Content),
	}, nil
}

// ExportICS renders the trip as one all-day event. DTEND is exclusive, so
// it is the day after the last trip day.
func (s *PlanExportService) ExportICS(plan *db_models.SessionPlan) (*response_models.ExportFile, error) {
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	form := sessionPlanForm(plan, s.loc)
	if form.StartDate.IsZero() || form.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: plan has no trip dates", utils.ErrExportFailed)
	}
	cities := FormatCities(form.Destinations)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tripplanner//travel plan//EN")

	event := cal.AddEvent(plan.PlanID + "@tripplanner")
	generated := time.Unix(plan.GeneratedAt, 0).UTC()
	event.SetCreatedTime(generated)
	event.SetDtStampTime(generated)
	event.SetAllDayStartAt(form.StartDate)
	event.SetAllDayEndAt(form.EndDate.AddDate(0, 0, 1))
	event.SetSummary("Trip to " + cities)
	event.SetLocation(cities)
	event.SetDescription(plan.Content)

	return &response_models.ExportFile{
		FileName:    icsPlanFileName,
		ContentType: "text/calendar; charset=utf-8",
		Body:        []byte(cal.Serialize()),
	}, nil
}

// ExportPDF lays out a title, the travel preferences and the plan body.
// Core PDF fonts only cover Windows-1252, see toWindows1252.
func (s *PlanExportService) ExportPDF(plan *db_models.SessionPlan) (*response_models.ExportFile, error) {
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	prefs := Preferences(sessionPlanForm(plan, s.loc))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Your Travel Plan", true)
	pdf.SetCreator("tripplanner", true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, toWindows1252("Your Travel Plan"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("From: %s", prefs.From),
		fmt.Sprintf("Destinations: %s", prefs.Destinations),
		fmt.Sprintf("Date Range: %s", prefs.DateRange),
		fmt.Sprintf("Interests: %s", prefs.Interests),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 6, toWindows1252(line), "", "", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, paragraph := range strings.Split(plan.Content, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 5, toWindows1252(paragraph), "", "", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrExportFailed, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrExportFailed, err)
	}

	return &response_models.ExportFile{
		FileName:    pdfPlanFileName,
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}

// toWindows1252 transcodes text for the core PDF fonts. Runes outside
// Windows-1252 become '?'.
func toWindows1252(text string) string {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return string(out)
}
