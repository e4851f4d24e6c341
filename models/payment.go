// models/payment.go
package models

import (
	"fmt"
	"time"
)

// PaymentInfo is one row of the payment export.
type PaymentInfo struct {
	SponsorName   string
	AmountCents   int64      // always 0 unless the row was CONFIRMED
	PaymentDate   *time.Time // nil when absent or unparsable
	PaymentMethod string     // confirmation marker, empty when unconfirmed
	TransactionID string
}

// IsPaid reports whether a positive confirmed amount was recorded.
func (p PaymentInfo) IsPaid() bool {
	return p.AmountCents > 0
}

// Amount formats the paid amount as dollars, e.g. "$95.00".
func (p PaymentInfo) Amount() string {
	return FormatCents(p.AmountCents)
}

func FormatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
