package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/pkg/utils"
)

var interestOptions = []string{
	"Art & Museums", "History & Culture", "Food & Cuisine",
	"Nature & Outdoors", "Shopping", "Nightlife",
	"Architecture", "Local Experiences", "Photography",
	"Sports & Recreation", "Music & Entertainment",
}

var defaultInterests = []string{"Art & Museums", "Food & Cuisine"}

var travelTips = []string{
	"Review the suggested itinerary and adjust as needed",
	"Check visa requirements for your destinations",
	"Look into travel insurance options",
	"Book accommodations and flights early for better rates",
	"Research local customs and etiquette",
}

const (
	defaultLeadDays = 30
	defaultTripDays = 7
)

// TripForm is a parsed planner request. Destinations keep input order and
// duplicates.
type TripForm struct {
	Origin       string
	Destinations []string
	StartDate    time.Time
	EndDate      time.Time
	Interests    []string
}

func InterestOptions() []string { return append([]string(nil), interestOptions...) }

func DefaultInterests() []string { return append([]string(nil), defaultInterests...) }

func TravelTips() []string { return append([]string(nil), travelTips...) }

// DefaultDates returns the prefilled range: a week starting thirty days out.
func DefaultDates(today time.Time) (time.Time, time.Time) {
	start := today.AddDate(0, 0, defaultLeadDays)
	return start, start.AddDate(0, 0, defaultTripDays)
}

func FormOptions(today time.Time) response_models.TripFormOptionsResponse {
	start, end := DefaultDates(today)
	return response_models.TripFormOptionsResponse{
		InterestOptions:  InterestOptions(),
		DefaultInterests: DefaultInterests(),
		MinStartDate:     utils.FormatDate(today),
		DefaultStartDate: utils.FormatDate(start),
		DefaultEndDate:   utils.FormatDate(end),
	}
}

// ParseDestinations splits one city per line, trimming and skipping blanks.
func ParseDestinations(text string) []string {
	lines := lo.Map(strings.Split(text, "\n"), func(line string, _ int) string {
		return strings.TrimSpace(line)
	})
	return lo.Compact(lines)
}

func FormatCities(cities []string) string {
	return strings.Join(cities, ", ")
}

func FormatInterests(interests []string) string {
	return strings.Join(interests, ", ")
}

// FormatDateRange renders "June 01-07, 2024" within one month and
// "June 28 - July 03, 2024" across months. The year is the end date's.
func FormatDateRange(start, end time.Time) string {
	if start.Year() == end.Year() && start.Month() == end.Month() {
		return fmt.Sprintf("%s-%s, %d", start.Format("January 02"), end.Format("02"), end.Year())
	}
	return fmt.Sprintf("%s - %s, %d", start.Format("January 02"), end.Format("January 02"), end.Year())
}

func Preferences(form TripForm) response_models.TravelPreferences {
	return response_models.TravelPreferences{
		From:         form.Origin,
		Destinations: FormatCities(form.Destinations),
		DateRange:    FormatDateRange(form.StartDate, form.EndDate),
		Interests:    FormatInterests(form.Interests),
	}
}

// BuildTripForm turns a request into a form. Missing dates take the
// defaults; an end date alone is kept relative to the default start.
func BuildTripForm(req request_models.GenerateTripPlanRequest, today time.Time) (TripForm, error) {
	loc := today.Location()

	destinations := lo.Compact(lo.Map(req.Destinations, func(city string, _ int) string {
		return strings.TrimSpace(city)
	}))
	destinations = append(destinations, ParseDestinations(req.DestinationsText)...)

	start, end := DefaultDates(today)
	if req.StartDate != "" {
		parsed, err := utils.ParseDate(req.StartDate, loc)
		if err != nil {
			return TripForm{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", utils.ErrInvalidInput)
		}
		start = parsed
		end = start.AddDate(0, 0, defaultTripDays)
	}
	if req.EndDate != "" {
		parsed, err := utils.ParseDate(req.EndDate, loc)
		if err != nil {
			return TripForm{}, fmt.Errorf("%w: end_date must be YYYY-MM-DD", utils.ErrInvalidInput)
		}
		end = parsed
	}

	interests := lo.Compact(lo.Map(req.Interests, func(interest string, _ int) string {
		return strings.TrimSpace(interest)
	}))

	return TripForm{
		Origin:       strings.TrimSpace(req.Origin),
		Destinations: destinations,
		StartDate:    start,
		EndDate:      end,
		Interests:    lo.Uniq(interests),
	}, nil
}

// ValidateTripForm blocks generation unless origin, destinations and
// interests are all present and the dates form a valid future range.
func ValidateTripForm(form TripForm, today time.Time) error {
	if form.Origin == "" || len(form.Destinations) == 0 || len(form.Interests) == 0 {
		return utils.ErrMissingRequiredFields
	}
	if form.EndDate.Before(form.StartDate) {
		return utils.ErrInvalidDateRange
	}
	if form.StartDate.Before(today) {
		return utils.ErrStartDateInPast
	}
	if unknown := lo.Without(form.Interests, interestOptions...); len(unknown) > 0 {
		return fmt.Errorf("%w: %s", utils.ErrUnknownInterest, strings.Join(unknown, ", "))
	}
	return nil
}
