package rates

import (
	"fmt"
	"time"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/utils"
)

// Period is a calendar offset of Length units.
type Period struct {
	Length int
	Unit   TimeUnit
}

// NewPeriod builds a period.
func NewPeriod(length int, unit TimeUnit) Period {
	return Period{Length: length, Unit: unit}
}

// PeriodFromFrequency returns the natural period of a payment frequency.
func PeriodFromFrequency(freq Frequency) (Period, error) {
	switch freq {
	case Annual:
		return Period{1, Years}, nil
	case Semiannual:
		return Period{6, Months}, nil
	case Quarterly:
		return Period{3, Months}, nil
	case Monthly:
		return Period{1, Months}, nil
	case Daily:
		return Period{1, Days}, nil
	default:
		return Period{}, errs.InvalidValue("no natural period for frequency %d", freq)
	}
}

// AddTo advances a date by the period. Month arithmetic follows EDATE rules
// to avoid Go's month normalization surprises.
func (p Period) AddTo(t time.Time) time.Time {
	switch p.Unit {
	case Days:
		return t.AddDate(0, 0, p.Length)
	case Weeks:
		return t.AddDate(0, 0, 7*p.Length)
	case Months:
		return utils.AddMonth(t, p.Length)
	case Years:
		return utils.AddMonth(t, 12*p.Length)
	default:
		panic(fmt.Sprintf("Period.AddTo: unknown time unit %q", p.Unit))
	}
}

// Neg returns the mirrored period.
func (p Period) Neg() Period {
	return Period{Length: -p.Length, Unit: p.Unit}
}

func (p Period) String() string {
	switch p.Unit {
	case Days:
		return fmt.Sprintf("%dD", p.Length)
	case Weeks:
		return fmt.Sprintf("%dW", p.Length)
	case Months:
		return fmt.Sprintf("%dM", p.Length)
	case Years:
		return fmt.Sprintf("%dY", p.Length)
	default:
		return fmt.Sprintf("%d%s", p.Length, p.Unit)
	}
}

// ParsePeriod reads a compact tenor string such as "3M", "1Y", "10D" or "2W".
func ParsePeriod(s string) (Period, error) {
	if len(s) < 2 {
		return Period{}, errs.InvalidValue("cannot parse period %q", s)
	}
	var length int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &length); err != nil {
		return Period{}, errs.InvalidValue("cannot parse period %q", s)
	}
	switch s[len(s)-1] {
	case 'D', 'd':
		return Period{length, Days}, nil
	case 'W', 'w':
		return Period{length, Weeks}, nil
	case 'M', 'm':
		return Period{length, Months}, nil
	case 'Y', 'y':
		return Period{length, Years}, nil
	default:
		return Period{}, errs.InvalidValue("cannot parse period %q", s)
	}
}
