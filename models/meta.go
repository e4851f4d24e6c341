// models/meta.go
package models

import "time"

// ImportRun records one import of a hero export and a payment export.
type ImportRun struct {
	ID                   string    `db:"id" json:"id"` // uuid
	HeroSource           string    `db:"hero_source" json:"hero_source"`
	PaymentSource        string    `db:"payment_source" json:"payment_source"`
	HeroDataHash         string    `db:"hero_data_hash" json:"hero_data_hash,omitempty"` // sha256 of the file
	PaymentDataHash      string    `db:"payment_data_hash" json:"payment_data_hash,omitempty"`
	TotalHeroes          int       `db:"total_heroes" json:"total_heroes"`
	TotalPayments        int       `db:"total_payments" json:"total_payments"`
	HeroesWithPayment    int       `db:"heroes_with_payment" json:"heroes_with_payment"`
	HeroesWithoutPayment int       `db:"heroes_without_payment" json:"heroes_without_payment"`
	PaymentsWithoutHero  int       `db:"payments_without_hero" json:"payments_without_hero"`
	BannersUpdated       int       `db:"banners_updated" json:"banners_updated"`
	ImportedAt           time.Time `db:"imported_at" json:"imported_at"`
}
