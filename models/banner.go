// models/banner.go
package models

import "time"

// BannerRecord is the persistent workflow row for one hero+sponsor pair.
// Flags are independent; none implies another.
type BannerRecord struct {
	ID           int64  `db:"id" json:"id"`
	HeroName     string `db:"hero_name" json:"hero_name"`
	SponsorName  string `db:"sponsor_name" json:"sponsor_name"`
	SponsorEmail string `db:"sponsor_email" json:"sponsor_email,omitempty"`

	InfoComplete       bool `db:"info_complete" json:"info_complete"`
	PaymentVerified    bool `db:"payment_verified" json:"payment_verified"`
	DocumentsVerified  bool `db:"documents_verified" json:"documents_verified"`
	PhotoVerified      bool `db:"photo_verified" json:"photo_verified"`
	ProofSent          bool `db:"proof_sent" json:"proof_sent"`
	ProofApproved      bool `db:"proof_approved" json:"proof_approved"`
	PrintApproved      bool `db:"print_approved" json:"print_approved"`
	SubmittedToPrinter bool `db:"submitted_to_printer" json:"submitted_to_printer"`
	ThankYouSent       bool `db:"thank_you_sent" json:"thank_you_sent"`

	PoleLocation string `db:"pole_location" json:"pole_location,omitempty"`
	Notes        string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ReadyForProof reports whether a proof-ready notice may go out for this banner.
func (b BannerRecord) ReadyForProof() bool {
	return b.PaymentVerified && b.InfoComplete && b.PhotoVerified && b.DocumentsVerified && !b.ProofSent
}
