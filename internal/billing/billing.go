package billing

import (
	"fmt"
	"time"

	"github.com/noah-isme/backend-kelas/internal/catalog"
)

// Pricing splits a recurring item into its one-time and ongoing components.
// For one-time items Upfront carries the full price and Recurring is zero.
type Pricing struct {
	Upfront   float64
	Recurring float64
	Label     string
}

// Resolve determines the upfront vs recurring amounts for an item. The first
// bill of a recurring membership collects Upfront + Recurring; every later
// bill collects Recurring alone.
func Resolve(item catalog.Item) Pricing {
	if !item.IsRecurring() {
		return Pricing{Upfront: item.Price}
	}
	p := Pricing{
		Upfront:   item.RegistrationFee,
		Recurring: item.SubscriptionAmount,
		Label:     Label(item.BillingCycle),
	}
	if p.Upfront < 0 {
		p.Upfront = 0
	}
	if p.Recurring < 0 {
		p.Recurring = 0
	}
	return p
}

// Label canonicalizes a billing cycle into its display vocabulary. This is the
// single place cadence wording is produced; it doubles as the key used to
// match a user's chosen billing period against plan pricing rows.
func Label(c catalog.BillingCycle) string {
	switch {
	case c.Frequency == 1 && c.Unit == catalog.CycleWeeks:
		return "weekly"
	case c.Frequency == 1 && c.Unit == catalog.CycleMonths:
		return "monthly"
	case c.Frequency == 3 && c.Unit == catalog.CycleMonths:
		return "quarterly"
	case c.Frequency == 1 && c.Unit == catalog.CycleYears:
		return "yearly"
	case c.Frequency <= 0 || c.Unit == "":
		return ""
	default:
		return fmt.Sprintf("every %d %s", c.Frequency, c.Unit)
	}
}

// NextPeriod returns the instant the next recurring bill falls due, one full
// cycle after from.
func NextPeriod(from time.Time, c catalog.BillingCycle) time.Time {
	freq := c.Frequency
	if freq < 1 {
		freq = 1
	}
	switch c.Unit {
	case catalog.CycleWeeks:
		return from.AddDate(0, 0, 7*freq)
	case catalog.CycleMonths:
		return from.AddDate(0, freq, 0)
	case catalog.CycleYears:
		return from.AddDate(freq, 0, 0)
	default:
		return from
	}
}
