package usecase

import (
	"regexp"
	"strings"
	"time"

	"agendabot/internal/domain"
)

// yearWindow bounds how far ahead a date may land when the user gave no
// explicit year. The classifier sometimes invents plausible future years
// when the utterance only named a day and month; anything beyond this
// window is collapsed back year by year.
const yearWindow = 370 * 24 * time.Hour

var yearPattern = regexp.MustCompile(`\b20\d{2}\b`)

var weekdayNames = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NormalizeDate turns the classifier's raw date guess into an instant that
// is strictly in the future. The original utterance supplies two signals:
// an explicit 4-digit year and a weekday name. The second return value is
// the total shift applied (normalized minus parsed), which the scheduler
// uses to translate the event end by the same amount.
//
// The function is pure and idempotent: a date already inside the safe
// future window comes back unchanged.
func NormalizeDate(rawISO, originalText string, now time.Time) (time.Time, time.Duration, error) {
	parsed, err := parseISO(rawISO, now.Location())
	if err != nil {
		return time.Time{}, 0, domain.ErrInvalidDate
	}

	d := parsed
	hasYear := yearPattern.MatchString(originalText)
	weekday, hasWeekday := mentionedWeekday(originalText)

	if !hasYear {
		for d.Sub(now) > yearWindow {
			d = d.AddDate(-1, 0, 0)
		}
	}

	if !d.After(now) {
		if hasWeekday {
			// Land on the mentioned weekday first, then advance in whole
			// weeks so "jueves" always resolves to a Thursday.
			for d.Weekday() != weekday {
				d = d.AddDate(0, 0, 1)
			}
			for !d.After(now) {
				d = d.AddDate(0, 0, 7)
			}
		} else {
			for !d.After(now) {
				d = d.AddDate(1, 0, 0)
			}
		}
	}

	return d, d.Sub(parsed), nil
}

// parseISO accepts the handful of ISO 8601 shapes the classifier emits.
// Layouts without an offset are interpreted in loc.
func parseISO(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func mentionedWeekday(text string) (time.Weekday, bool) {
	lower := strings.ToLower(text)
	for name, day := range weekdayNames {
		if strings.Contains(lower, name) {
			return day, true
		}
	}
	return 0, false
}
