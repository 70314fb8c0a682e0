// Package health holds the pure date arithmetic behind the cycle, pregnancy
// and feeding trackers. Every function takes an explicit "now" where it needs
// one; dates are calendar days in UTC.
package health

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cppla/riqqa/models"
)

const (
	Unavailable   = "unavailable"
	NotRecorded   = "not yet recorded"
	unavailableAR = "غير متاح"
	notRecordedAR = "لم يتم التسجيل بعد"

	// DateLayout is the accepted input and English output format for dates.
	DateLayout = "2006-01-02"

	lutealDays     = 14
	ovulationSlack = 2
)

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseCycleLength reads the leading integer of s the way a form field is
// read. Anything that is not a positive integer yields the default.
func ParseCycleLength(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return models.DefaultCycleLength
	}
	return NormalizeCycleLength(n)
}

func NormalizeCycleLength(n int) int {
	if n <= 0 {
		return models.DefaultCycleLength
	}
	return n
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextPeriod returns lastPeriod shifted by cycleLength days.
func NextPeriod(lastPeriod time.Time, cycleLength int) time.Time {
	return Day(lastPeriod).AddDate(0, 0, NormalizeCycleLength(cycleLength))
}

// OvulationWindow returns the four-day window centred fourteen days before
// the next period. Short cycles would place the start before lastPeriod;
// both ends are clamped so the window never precedes it.
func OvulationWindow(lastPeriod time.Time, cycleLength int) Window {
	c := NormalizeCycleLength(cycleLength)
	start := c - lutealDays - ovulationSlack
	end := c - lutealDays + ovulationSlack
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	day := Day(lastPeriod)
	return Window{Start: day.AddDate(0, 0, start), End: day.AddDate(0, 0, end)}
}

// NextPeriodDate formats NextPeriod for locale, or the unavailable sentinel
// when lastPeriod is nil.
func NextPeriodDate(lastPeriod *time.Time, cycleLength int, locale string) string {
	if lastPeriod == nil {
		return unavailable(locale)
	}
	next := NextPeriod(*lastPeriod, cycleLength)
	if locale == models.LocaleArabic {
		return fmt.Sprintf("%02d %s %d", next.Day(), arabicMonths[next.Month()-1], next.Year())
	}
	return next.Format(DateLayout)
}

// OvulationWindowLabel formats OvulationWindow for locale.
func OvulationWindowLabel(lastPeriod *time.Time, cycleLength int, locale string) string {
	if lastPeriod == nil {
		return unavailable(locale)
	}
	w := OvulationWindow(*lastPeriod, cycleLength)
	if locale == models.LocaleArabic {
		return w.Start.Format("02/01") + " - " + w.End.Format("02/01")
	}
	return w.Start.Format(DateLayout) + " - " + w.End.Format(DateLayout)
}

// PregnancyWeeks counts whole weeks from start to now, never negative.
func PregnancyWeeks(start *time.Time, now time.Time) int {
	if start == nil {
		return 0
	}
	days := int(Day(now).Sub(Day(*start)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 7
}

// FeedingInterval returns the whole minutes elapsed since last, clamped at
// zero. ok is false when no feeding was recorded.
func FeedingInterval(last *time.Time, now time.Time) (hours, minutes int, ok bool) {
	if last == nil {
		return 0, 0, false
	}
	total := int(now.Sub(*last) / time.Minute)
	if total < 0 {
		total = 0
	}
	return total / 60, total % 60, true
}

func FeedingIntervalLabel(last *time.Time, now time.Time, locale string) string {
	h, m, ok := FeedingInterval(last, now)
	if !ok {
		if locale == models.LocaleArabic {
			return notRecordedAR
		}
		return NotRecorded
	}
	if locale == models.LocaleArabic {
		return fmt.Sprintf("%d ساعة و %d دقيقة", h, m)
	}
	return fmt.Sprintf("%d hours and %d minutes", h, m)
}

func unavailable(locale string) string {
	if locale == models.LocaleArabic {
		return unavailableAR
	}
	return Unavailable
}

// Summary bundles every prediction for one health record.
type Summary struct {
	Data            models.HealthData `json:"data"`
	NextPeriodDate  string            `json:"next_period_date"`
	OvulationWindow string            `json:"ovulation_window"`
	PregnancyWeeks  int               `json:"pregnancy_weeks"`
	SinceLastFeed   string            `json:"since_last_feeding"`
}

func Summarize(hd models.HealthData, now time.Time, locale string) Summary {
	return Summary{
		Data:            hd,
		NextPeriodDate:  NextPeriodDate(hd.LastPeriodDate, hd.CycleLength, locale),
		OvulationWindow: OvulationWindowLabel(hd.LastPeriodDate, hd.CycleLength, locale),
		PregnancyWeeks:  PregnancyWeeks(hd.PregnancyStartDate, now),
		SinceLastFeed:   FeedingIntervalLabel(hd.LastFeedingTime, now, locale),
	}
}
