// models/status.go
package models

// Lifecycle labels, highest priority first.
const (
	StatusComplete             = "Complete - Thank You Sent"
	StatusSubmittedToPrinter   = "Submitted to Printer"
	StatusApprovedForPrinting  = "Approved for Printing"
	StatusProofApproved        = "Proof Approved by Customer"
	StatusAwaitingApproval     = "Awaiting Customer Approval"
	StatusReadyToSendProof     = "Ready to Send Proof"
	StatusPhotoPending         = "Documents Verified - Photo Pending"
	StatusAwaitingVerification = "Paid - Awaiting Verification"
	StatusPaidInfoIncomplete   = "Paid - Info Incomplete"
	StatusPaymentPending       = "Info Complete - Payment Pending"
	StatusIncomplete           = "Incomplete"
)

// statusRules is evaluated top to bottom; the first matching rule names the status.
// Any flag combination resolves to exactly one label.
var statusRules = []struct {
	label string
	match func(b BannerRecord) bool
}{
	{StatusComplete, func(b BannerRecord) bool { return b.ThankYouSent }},
	{StatusSubmittedToPrinter, func(b BannerRecord) bool { return b.SubmittedToPrinter }},
	{StatusApprovedForPrinting, func(b BannerRecord) bool { return b.PrintApproved }},
	{StatusProofApproved, func(b BannerRecord) bool { return b.ProofApproved }},
	{StatusAwaitingApproval, func(b BannerRecord) bool { return b.ProofSent }},
	{StatusReadyToSendProof, func(b BannerRecord) bool { return b.PhotoVerified && b.DocumentsVerified }},
	{StatusPhotoPending, func(b BannerRecord) bool { return b.DocumentsVerified }},
	{StatusAwaitingVerification, func(b BannerRecord) bool { return b.PaymentVerified && b.InfoComplete }},
	{StatusPaidInfoIncomplete, func(b BannerRecord) bool { return b.PaymentVerified }},
	{StatusPaymentPending, func(b BannerRecord) bool { return b.InfoComplete }},
}

// Status derives the lifecycle label from the flags. It is computed on read and never stored.
func (b BannerRecord) Status() string {
	for _, rule := range statusRules {
		if rule.match(b) {
			return rule.label
		}
	}
	return StatusIncomplete
}

// StatusLabels lists every label in priority order.
func StatusLabels() []string {
	labels := make([]string, 0, len(statusRules)+1)
	for _, rule := range statusRules {
		labels = append(labels, rule.label)
	}
	return append(labels, StatusIncomplete)
}
