// mail/html.go
package mail

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// PlainText flattens an HTML mail body, keeping line and paragraph breaks.
func PlainText(htmlStr string) string {
	text := htmlStr
	for _, br := range []string{"<br>", "<br />", "<br/>", "<BR>"} {
		text = strings.ReplaceAll(text, br, "\n")
	}
	text = strings.ReplaceAll(text, "</p>", "\n\n")
	text = strings.ReplaceAll(text, "</div>", "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.TrimSpace(text)
	}
	doc.Find("head, style, script").Remove()

	plain := doc.Text()
	plain = strings.ReplaceAll(plain, "\r\n", "\n")
	plain = strings.ReplaceAll(plain, "\r", "\n")
	plain = strings.ReplaceAll(plain, "\u00a0", " ")
	lines := strings.Split(plain, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	plain = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(plain)
}

// FirstLine returns the first non-empty line of the reply, above any quoted text.
func FirstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			return ""
		}
		return line
	}
	return ""
}

var proofTemplate = template.Must(template.New("proof").Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<h2 style="color: #0066cc;">Your Banner Proof is Ready!</h2>
<p>Dear {{.SponsorName}},</p>
<p>Great news! The banner proof for <strong>{{.HeroName}}</strong> is ready for your review.</p>
<p>Please review the proof at: <a href="{{.ProofURL}}">{{.ProofURL}}</a></p>
<div style="margin: 30px 0;">
<p><strong>To approve this proof, please reply to this email with "APPROVE" in the subject line.</strong></p>
<p>If you need any changes, please describe them in your reply.</p>
</div>
<hr style="border: 1px solid #ddd; margin: 20px 0;">
<p style="font-size: 12px; color: #666;">Banner Details:<br>Hero: {{.HeroName}}<br>Sponsor: {{.SponsorName}}<br>Reference ID: {{.Reference}}</p>
<p>Thank you for supporting our hometown heroes!</p>
<p style="font-size: 12px; color: #666;">Millcreek Kiwanis Club<br>Hometown Hero Banner Program</p>
</body>
</html>
`))

type proofData struct {
	HeroName    string
	SponsorName string
	ProofURL    string
	Reference   string
}

func renderProof(d proofData) (string, error) {
	var buf bytes.Buffer
	if err := proofTemplate.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
