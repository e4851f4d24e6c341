// cmd_banners.go
package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/services"
)

var (
	listStatus   string
	notifyStatus string
	notifyKind   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List banners grouped by status",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Write sponsor notices for banners in a status",
	Long: `Writes notices to the notifications file for banners whose status
contains --status.

Kinds:
  - proof:   proof-ready notice for banners ready for proof; marks proof_sent
  - payment: payment reminder for complete banners without a verified payment
  - print:   printing notice for approved banners not yet at the printer

Example:
  bannerdesk notify --status "Ready to Send"`,
	Args: cobra.NoArgs,
	RunE: runNotify,
}

var updateCmd = &cobra.Command{
	Use:   "update HERO FIELD VALUE",
	Short: "Set one field on a banner",
	Long: `Sets FIELD to VALUE on the one banner whose hero name contains HERO.
Boolean fields take true, yes or 1; anything else is false.

Example:
  bannerdesk update "John Doe" pole_location "Main St #12"`,
	Args: cobra.ExactArgs(3),
	RunE: runUpdate,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show banner counts by status",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "only banners whose status contains this text")
	notifyCmd.Flags().StringVar(&notifyStatus, "status", "", "status text to select banners")
	notifyCmd.Flags().StringVar(&notifyKind, "kind", "proof", "notice kind: proof, payment or print")
	_ = notifyCmd.MarkFlagRequired("status")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	banners, err := a.banners.List(cmd.Context(), listStatus)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeading(out, "BANNER STATUS REPORT")
	if listStatus != "" {
		fmt.Fprintf(out, "Filtering by status: %s\n", listStatus)
	} else {
		fmt.Fprintln(out, "Showing all banners")
	}
	fmt.Fprintf(out, "Total: %d banners\n", len(banners))
	if len(banners) == 0 {
		fmt.Fprintln(out, "\nNo banners found.")
		return nil
	}

	groups := map[string][]models.BannerRecord{}
	var order []string
	for _, b := range banners {
		status := b.Status()
		if _, ok := groups[status]; !ok {
			order = append(order, status)
		}
		groups[status] = append(groups[status], b)
	}
	sort.Strings(order)

	for _, status := range order {
		group := groups[status]
		fmt.Fprintf(out, "\n%s (%d):\n%s\n", status, len(group), divider)
		for _, b := range group {
			fmt.Fprintf(out, "  * %s (Sponsor: %s)\n", b.HeroName, b.SponsorName)
			if b.PoleLocation != "" {
				fmt.Fprintf(out, "    Pole: %s\n", b.PoleLocation)
			}
			if b.Notes != "" {
				fmt.Fprintf(out, "    Notes: %s\n", b.Notes)
			}
		}
	}
	fmt.Fprintln(out)
	return nil
}

func runNotify(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var result *services.NotifyResult
	switch notifyKind {
	case "proof":
		result, err = a.notify.Notify(cmd.Context(), notifyStatus)
	default:
		result, err = a.notify.Remind(cmd.Context(), notifyKind, notifyStatus)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeading(out, "GENERATING NOTIFICATIONS")
	fmt.Fprintf(out, "Found %d banners with status matching: %s\n\n", result.Matched, notifyStatus)
	for _, hero := range result.Notified {
		fmt.Fprintf(out, "+ Notification saved for %s\n", hero)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d banners that do not qualify\n", result.Skipped)
	}
	fmt.Fprintf(out, "\nNotifications saved to: %s\n", a.cfg.NotificationsFile)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	hero, field, value := args[0], args[1], args[2]
	b, err := a.banners.UpdateField(cmd.Context(), hero, field, value)

	var ambiguous *services.AmbiguousBannerError
	if errors.As(err, &ambiguous) {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "Multiple banners match '%s'. Please be more specific.\n", hero)
		for _, c := range ambiguous.Candidates {
			fmt.Fprintf(errOut, "  - %s (Sponsor: %s)\n", c.HeroName, c.SponsorName)
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nUpdating banner for: %s\n", b.HeroName)
	fmt.Fprintf(out, "+ %s set to: %s\n", field, value)
	fmt.Fprintf(out, "Status: %s\n\n", b.Status())
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sum, err := a.banners.Summary(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeading(out, "SUMMARY STATISTICS")
	fmt.Fprintf(out, "Total Banners: %d\n\n", sum.Total)
	fmt.Fprintln(out, "Status Breakdown:")
	for _, sc := range sum.ByStatus {
		fmt.Fprintf(out, "  %s: %d\n", sc.Status, sc.Count)
	}
	fmt.Fprintf(out, "\nPaid: %d\nReady to send proof: %d\nApproved for print: %d\n\n",
		sum.Paid, sum.ReadyToSend, sum.ApprovedForPrint)
	return nil
}
