// Package rates holds the rate conventions and the compounding kernel the
// curve family and coupon accrual are built on.
package rates

import (
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/utils"
)

// Compounding selects the compounding rule of a rate.
type Compounding string

const (
	Simple               Compounding = "SIMPLE"
	Compounded           Compounding = "COMPOUNDED"
	Continuous           Compounding = "CONTINUOUS"
	SimpleThenCompounded Compounding = "SIMPLE_THEN_COMPOUNDED"
	CompoundedThenSimple Compounding = "COMPOUNDED_THEN_SIMPLE"
)

// Frequency enumerates payment/compounding frequencies as events per year.
type Frequency int

const (
	Annual     Frequency = 1
	Semiannual Frequency = 2
	Quarterly  Frequency = 4
	Monthly    Frequency = 12
	Daily      Frequency = 365
)

// TimeUnit for period arithmetic.
type TimeUnit string

const (
	Days   TimeUnit = "DAYS"
	Weeks  TimeUnit = "WEEKS"
	Months TimeUnit = "MONTHS"
	Years  TimeUnit = "YEARS"
)

// DayCount enumerates day count conventions.
type DayCount string

const (
	Act360    DayCount = "ACT/360"
	Act365    DayCount = "ACT/365"
	Act365F   DayCount = "ACT/365F"
	Thirty360 DayCount = "30E/360"
)

// YearFraction computes the year fraction between two dates under the convention.
func (dc DayCount) YearFraction(start, end time.Time) float64 {
	return utils.YearFraction(start, end, string(dc))
}

// ParseDayCount validates a day count convention string.
func ParseDayCount(s string) (DayCount, error) {
	switch DayCount(s) {
	case Act360, Act365, Act365F, Thirty360:
		return DayCount(s), nil
	case "30/360":
		return Thirty360, nil
	default:
		return "", errs.InvalidValue("unknown day count %q", s)
	}
}

// ParseCompounding validates a compounding rule string.
func ParseCompounding(s string) (Compounding, error) {
	switch Compounding(s) {
	case Simple, Compounded, Continuous, SimpleThenCompounded, CompoundedThenSimple:
		return Compounding(s), nil
	default:
		return "", errs.InvalidValue("unknown compounding %q", s)
	}
}

// ParseFrequency reads a frequency name such as "ANNUAL" or "MONTHLY".
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "ANNUAL":
		return Annual, nil
	case "SEMIANNUAL":
		return Semiannual, nil
	case "QUARTERLY":
		return Quarterly, nil
	case "MONTHLY":
		return Monthly, nil
	case "DAILY":
		return Daily, nil
	default:
		return 0, errs.InvalidValue("unknown frequency %q", s)
	}
}
