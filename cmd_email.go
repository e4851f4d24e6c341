// cmd_email.go
package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/config"
	"github.com/hometownhero/bannerdesk/mail"
	"github.com/hometownhero/bannerdesk/services"
)

var (
	emailStatus string
	emailDays   int
)

// newMailer builds an authenticated mailbox client; tests swap it out.
var newMailer = func(ctx context.Context, cfg *mail.Config, log *zap.Logger) (services.ProofMailer, error) {
	client := mail.NewClient(cfg, log)
	if err := client.Authenticate(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Send proof notices and read approvals through Microsoft 365",
}

var emailSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the Microsoft 365 credential file template",
	Args:  cobra.NoArgs,
	RunE:  runEmailSetup,
}

var emailSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Email a proof notice to every sponsor whose banner is ready",
	Args:  cobra.NoArgs,
	RunE:  runEmailSend,
}

var emailCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Mark proofs approved from sponsor replies",
	Args:  cobra.NoArgs,
	RunE:  runEmailCheck,
}

func init() {
	emailSendCmd.Flags().StringVar(&emailStatus, "status", "Ready to Send", "status text to select banners")
	emailCheckCmd.Flags().IntVar(&emailDays, "days", 7, "how many days of replies to scan")
}

func runEmailSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := mail.WriteTemplate(cfg.Mail.ConfigPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "+ Created template configuration file: %s\n", cfg.Mail.ConfigPath)
	fmt.Fprintln(out, "\nPlease edit the file and add your Microsoft 365 credentials.")
	fmt.Fprintln(out, "\nTo set up the Azure AD app registration:")
	fmt.Fprintln(out, "1. Go to https://portal.azure.com")
	fmt.Fprintln(out, "2. Navigate to Azure Active Directory > App registrations")
	fmt.Fprintln(out, "3. Create a new registration")
	fmt.Fprintln(out, "4. Add application permissions: Mail.Send, Mail.Read, Mail.ReadWrite")
	fmt.Fprintln(out, "5. Create a client secret")
	fmt.Fprintln(out, "6. Copy the client ID, secret, tenant ID and sender mailbox to the file")
	fmt.Fprintln(out, "\nThe template starts in draft mode; set \"mode\" to \"send\" to deliver directly.")
	return nil
}

func openEmail(cmd *cobra.Command) (*app, *services.EmailService, error) {
	a, err := openApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	mcfg, err := mail.LoadConfig(a.cfg.Mail.ConfigPath)
	if err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("%w (run 'bannerdesk email setup')", err)
	}
	mailer, err := newMailer(cmd.Context(), mcfg, a.log)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, services.NewEmailService(a.store, mailer, a.cfg.Mail.ProofURL, a.log), nil
}

func runEmailSend(cmd *cobra.Command, args []string) error {
	a, svc, err := openEmail(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := svc.SendReady(cmd.Context(), emailStatus)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeading(out, "SENDING PROOF NOTICES")
	fmt.Fprintf(out, "Sent: %d\nFailed: %d\nSkipped: %d\n", result.Sent, result.Failed, result.Skipped)
	if len(result.Errors) > 0 {
		heroes := make([]string, 0, len(result.Errors))
		for hero := range result.Errors {
			heroes = append(heroes, hero)
		}
		sort.Strings(heroes)
		fmt.Fprintln(out, "\nFailures:")
		for _, hero := range heroes {
			fmt.Fprintf(out, "  - %s: %s\n", hero, result.Errors[hero])
		}
	}
	fmt.Fprintln(out)
	return nil
}

func runEmailCheck(cmd *cobra.Command, args []string) error {
	a, svc, err := openEmail(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	updates, err := svc.CheckApprovals(cmd.Context(), emailDays)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeading(out, "CHECKING APPROVALS")
	if len(updates) == 0 {
		fmt.Fprintf(out, "No new approvals in the last %d days.\n\n", emailDays)
		return nil
	}
	for _, u := range updates {
		fmt.Fprintf(out, "+ Updated %s: Approved=true (reply from %s)\n", u.HeroName, u.SponsorEmail)
	}
	fmt.Fprintln(out)
	return nil
}
