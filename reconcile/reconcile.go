// Package reconcile pairs heroes with payments by normalized sponsor name and
// reports what did not pair up.
package reconcile

import (
	"strings"

	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/utils"
)

// Payment status labels used in the unmatched-payment list.
const (
	PaymentConfirmed   = "CONFIRMED"
	PaymentUnconfirmed = "UNCONFIRMED"
)

// Match finds the first payment, in input order, whose normalized sponsor name
// equals the hero's. verified is the payment's IsPaid; a hero without a
// sponsor name never matches.
func Match(hero models.HeroInfo, payments []models.PaymentInfo) (verified bool, payment *models.PaymentInfo) {
	if strings.TrimSpace(hero.SponsorName) == "" {
		return false, nil
	}
	key := utils.NormalizeName(hero.SponsorName)
	for i := range payments {
		if utils.NormalizeName(payments[i].SponsorName) == key {
			return payments[i].IsPaid(), &payments[i]
		}
	}
	return false, nil
}

// BuildReport reconciles every hero against the payment list. No hero is
// dropped: HeroesWithPayment + HeroesWithoutPayment == TotalHeroes.
//
// When several payments share a normalized name the earliest one is used for
// matching and the name is listed once in DuplicatePayments. Duplicates are
// detected across all payments, matched or not.
func BuildReport(heroes []models.HeroInfo, payments []models.PaymentInfo) models.ImportReport {
	report := models.ImportReport{
		TotalHeroes:       len(heroes),
		TotalPayments:     len(payments),
		UnmatchedHeroes:   []models.UnmatchedHero{},
		UnmatchedPayments: []models.UnmatchedPayment{},
		DuplicatePayments: []string{},
	}

	lookup := make(map[string]models.PaymentInfo, len(payments))
	duplicates := make(map[string]bool)
	for _, p := range payments {
		key := utils.NormalizeName(p.SponsorName)
		first, seen := lookup[key]
		if !seen {
			lookup[key] = p
			continue
		}
		if !duplicates[key] {
			duplicates[key] = true
			report.DuplicatePayments = append(report.DuplicatePayments, first.SponsorName)
		}
	}

	matched := make(map[string]bool)
	for _, hero := range heroes {
		if strings.TrimSpace(hero.SponsorName) == "" {
			report.HeroesWithoutPayment++
			report.UnmatchedHeroes = append(report.UnmatchedHeroes, models.UnmatchedHero{
				HeroName: hero.Name,
				Reason:   models.ReasonNoSponsorName,
			})
			continue
		}

		key := utils.NormalizeName(hero.SponsorName)
		payment, found := lookup[key]
		switch {
		case !found:
			report.HeroesWithoutPayment++
			report.UnmatchedHeroes = append(report.UnmatchedHeroes, models.UnmatchedHero{
				HeroName:    hero.Name,
				SponsorName: hero.SponsorName,
				Reason:      models.ReasonNoMatchingPayment,
			})
		case payment.IsPaid():
			matched[key] = true
			report.HeroesWithPayment++
		default:
			matched[key] = true
			report.HeroesWithoutPayment++
			report.UnmatchedHeroes = append(report.UnmatchedHeroes, models.UnmatchedHero{
				HeroName:    hero.Name,
				SponsorName: hero.SponsorName,
				Reason:      models.ReasonNotConfirmed,
			})
		}
	}

	for _, p := range payments {
		if matched[utils.NormalizeName(p.SponsorName)] {
			continue
		}
		report.UnmatchedPayments = append(report.UnmatchedPayments, models.UnmatchedPayment{
			SponsorName: p.SponsorName,
			AmountCents: p.AmountCents,
			Status:      paymentStatus(p),
		})
	}
	report.PaymentsWithoutHero = len(report.UnmatchedPayments)

	return report
}

func paymentStatus(p models.PaymentInfo) string {
	if p.IsPaid() {
		return PaymentConfirmed
	}
	return PaymentUnconfirmed
}
