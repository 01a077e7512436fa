package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds a monetary amount to 2 decimal places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CompetencyPeriod formats the month/year a recurring obligation is
// anchored to, e.g. "Jan-2026"
func CompetencyPeriod(t time.Time) string {
	return t.Format("Jan-2006")
}

// CompetencyStart truncates a timestamp to the first day of its month,
// which anchors a debt's recurrence schedule
func CompetencyStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// PeriodsElapsed counts how many recurrence periods have passed between a
// debt's competency start and now. Weekly cadence counts 7-day blocks;
// anything else counts whole calendar months.
func PeriodsElapsed(start time.Time, recurrence string, now time.Time) int {
	if now.Before(start) {
		return 0
	}

	if recurrence == "weekly" {
		days := int(now.Sub(start).Hours() / 24)
		return days / 7
	}

	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// ExpectedPaid returns how much should have been collected on a debt after
// the given number of elapsed periods, capped at the total
func ExpectedPaid(total decimal.Decimal, installments int, periods int) decimal.Decimal {
	if installments < 1 || periods < 1 {
		return decimal.Zero
	}

	perInstallment := total.Div(decimal.NewFromInt(int64(installments)))
	expected := perInstallment.Mul(decimal.NewFromInt(int64(periods)))

	if expected.GreaterThan(total) {
		return total
	}
	return expected.Round(2)
}
