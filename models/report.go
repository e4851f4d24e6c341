// models/report.go
package models

// Reasons recorded for heroes left without a verified payment.
const (
	ReasonNoSponsorName     = "no sponsor name"
	ReasonNotConfirmed      = "payment not confirmed"
	ReasonNoMatchingPayment = "no matching payment record"
)

// UnmatchedHero is a hero the reconciler could not pair with a paid payment.
type UnmatchedHero struct {
	HeroName    string `json:"hero_name"`
	SponsorName string `json:"sponsor_name"`
	Reason      string `json:"reason"`
}

// UnmatchedPayment is a payment row whose sponsor matched no hero.
type UnmatchedPayment struct {
	SponsorName string `json:"sponsor_name"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
}

// ImportReport summarises one reconciliation of heroes against payments.
// HeroesWithPayment + HeroesWithoutPayment always equals TotalHeroes.
type ImportReport struct {
	TotalHeroes          int                `json:"total_heroes"`
	TotalPayments        int                `json:"total_payments"`
	HeroesWithPayment    int                `json:"heroes_with_payment"`
	HeroesWithoutPayment int                `json:"heroes_without_payment"`
	PaymentsWithoutHero  int                `json:"payments_without_hero"`
	UnmatchedHeroes      []UnmatchedHero    `json:"unmatched_heroes"`
	UnmatchedPayments    []UnmatchedPayment `json:"unmatched_payments"`
	DuplicatePayments    []string           `json:"duplicate_payments"`
}
