// cmd_import.go
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/services"
)

var (
	heroSource       string
	paymentSource    string
	notifyIncomplete bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the hero and payment exports",
	Long: `Reads the hero export and the payment export, matches sponsors to
payments and updates one banner record per hero.

Either source may be a local file or an http(s) URL.

Example:
  bannerdesk import --hero heroes.csv --payment payments.csv`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&heroSource, "hero", "", "hero export CSV (path or URL)")
	importCmd.Flags().StringVar(&paymentSource, "payment", "", "payment export CSV (path or URL)")
	importCmd.Flags().BoolVar(&notifyIncomplete, "notify-incomplete", false, "write an incomplete-information notice for each hero missing fields")
	_ = importCmd.MarkFlagRequired("hero")
	_ = importCmd.MarkFlagRequired("payment")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	printHeading(out, "IMPORTING CSV FILES")
	fmt.Fprintf(out, "Hero export:    %s\nPayment export: %s\n\n", heroSource, paymentSource)

	result, err := a.imports.Import(cmd.Context(), heroSource, paymentSource)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Found %d hero records (%d skipped)\n", result.HeroStats.Accepted, result.HeroStats.Skipped())
	fmt.Fprintf(out, "Found %d payment records (%d skipped)\n\n", result.PaymentStats.Accepted, result.PaymentStats.Skipped())

	for _, h := range result.Heroes {
		printOutcome(out, h)
	}
	printReport(out, result.Report)

	if notifyIncomplete {
		res, err := a.notify.NotifyIncomplete(cmd.Context(), result.Heroes)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Incomplete-information notices written: %d (%s)\n", len(res.Notified), a.cfg.NotificationsFile)
	}

	fmt.Fprintf(out, "%s\nImport complete! Updated %d banner records.\n%s\n", divider, result.BannersUpdated, divider)
	return nil
}

func printOutcome(w io.Writer, h services.HeroOutcome) {
	fmt.Fprintf(w, "Processing: %s\n", h.HeroName)
	if len(h.MissingFields) > 0 {
		fmt.Fprintf(w, "  ! Missing fields: %s\n", strings.Join(h.MissingFields, ", "))
	} else {
		fmt.Fprintln(w, "  + Hero information complete")
	}
	if h.PaymentVerified {
		fmt.Fprintf(w, "  + Payment verified: %s\n", models.FormatCents(h.AmountCents))
	} else {
		fmt.Fprintln(w, "  ! Payment not found")
	}
	fmt.Fprintf(w, "  Status: %s\n\n", h.Status)
}

func printReport(w io.Writer, r models.ImportReport) {
	printHeading(w, "IMPORT REPORT")
	fmt.Fprintf(w, "Heroes:   %d total, %d with payment, %d without payment\n",
		r.TotalHeroes, r.HeroesWithPayment, r.HeroesWithoutPayment)
	fmt.Fprintf(w, "Payments: %d total, %d without a hero\n", r.TotalPayments, r.PaymentsWithoutHero)

	if len(r.UnmatchedHeroes) > 0 {
		fmt.Fprintln(w, "\nHeroes without a confirmed payment:")
		for _, u := range r.UnmatchedHeroes {
			sponsor := u.SponsorName
			if sponsor == "" {
				sponsor = "-"
			}
			fmt.Fprintf(w, "  - %s (Sponsor: %s): %s\n", u.HeroName, sponsor, u.Reason)
		}
	}
	if len(r.UnmatchedPayments) > 0 {
		fmt.Fprintln(w, "\nPayments without a hero:")
		for _, p := range r.UnmatchedPayments {
			fmt.Fprintf(w, "  - %s %s [%s]\n", p.SponsorName, models.FormatCents(p.AmountCents), p.Status)
		}
	}
	if len(r.DuplicatePayments) > 0 {
		fmt.Fprintln(w, "\nSponsors with more than one payment:")
		for _, name := range r.DuplicatePayments {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
	fmt.Fprintln(w)
}
