// csvimport/csv_parser.go
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"go.uber.org/zap"

	"github.com/hometownhero/bannerdesk/models"
	"github.com/hometownhero/bannerdesk/utils"
)

// Parser turns spreadsheet exports into typed hero and payment records.
// A bad row is skipped and counted; it never stops the rest of the file.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("csvimport")}
}

// ParseHeroFile opens path and parses it with ParseHeroes.
func (p *Parser) ParseHeroFile(path string) ([]models.HeroInfo, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("failed to open hero CSV %s: %w", path, err)
	}
	defer f.Close()
	return p.ParseHeroes(f)
}

// ParsePaymentFile opens path and parses it with ParsePayments.
func (p *Parser) ParsePaymentFile(path string) ([]models.PaymentInfo, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("failed to open payment CSV %s: %w", path, err)
	}
	defer f.Close()
	return p.ParsePayments(f)
}

// ParseHeroes keeps PUBLISHED rows that carry a hero name.
func (p *Parser) ParseHeroes(reader io.Reader) ([]models.HeroInfo, ParseStats, error) {
	var (
		heroes []models.HeroInfo
		stats  ParseStats
	)

	err := decodeRows(reader, func() any { return &heroRow{} }, &stats, p.log, func(line int, v any) {
		row := v.(*heroRow)

		if strings.ToUpper(strings.TrimSpace(row.Status)) != StatusPublished {
			stats.DraftSkipped++
			p.log.Debug("skipping unpublished hero row", zap.Int("row", line), zap.String("status", row.Status))
			return
		}

		name := utils.CleanCell(row.ServiceName)
		if name == "" {
			stats.NameMissingSkipped++
			p.log.Debug("skipping hero row without a name", zap.Int("row", line))
			return
		}

		hero := models.HeroInfo{
			Name:          name,
			ServiceBranch: utils.CleanCell(row.Branch),
			Rank:          utils.CleanCell(row.Rank),
			YearsServed:   utils.CleanCell(row.ServiceDetails),
			SponsorName:   utils.CleanCell(row.NameOfBuyer),
			SponsorEmail:  utils.CleanCell(row.Email),
			SponsorPhone:  utils.CleanCell(row.Phone),
		}
		if image := utils.CleanCell(row.Image); strings.HasPrefix(image, ImageURIPrefix) {
			hero.PhotoPath = image
		}

		heroes = append(heroes, hero)
		stats.Accepted++
	})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to decode hero CSV data: %w", err)
	}

	p.log.Info("parsed hero CSV", zap.Int("heroes", len(heroes)), zap.Object("stats", stats))
	return heroes, stats, nil
}

// ParsePayments keeps every row with a payer name. Amounts of rows that are
// not CONFIRMED are forced to zero even when the description names a figure.
func (p *Parser) ParsePayments(reader io.Reader) ([]models.PaymentInfo, ParseStats, error) {
	var (
		payments []models.PaymentInfo
		stats    ParseStats
	)

	err := decodeRows(reader, func() any { return &paymentRow{} }, &stats, p.log, func(line int, v any) {
		row := v.(*paymentRow)

		payer := strings.TrimSpace(row.YourName)
		// "Jane Doe (for her husband)" pays as "Jane Doe".
		if i := strings.Index(payer, "("); i >= 0 {
			payer = strings.TrimSpace(payer[:i])
		}
		payer = utils.CleanCell(payer)
		if payer == "" {
			stats.NameMissingSkipped++
			p.log.Debug("skipping payment row without a payer name", zap.Int("row", line))
			return
		}

		status := strings.ToUpper(strings.TrimSpace(row.Status))
		confirmed := status == StatusConfirmed

		payment := models.PaymentInfo{
			SponsorName:   payer,
			PaymentDate:   parseDate(utils.CleanCell(row.CreatedDate)),
			TransactionID: utils.CleanCell(row.ID),
		}
		if confirmed {
			cents, err := parseAmountCents(utils.CleanCell(row.OneBanner))
			if err != nil {
				stats.MalformedSkipped++
				p.log.Warn("skipping payment row with unusable amount", zap.Int("row", line), zap.Error(err))
				return
			}
			payment.AmountCents = cents
			payment.PaymentMethod = status
		} else {
			stats.Unconfirmed++
		}

		payments = append(payments, payment)
		stats.Accepted++
	})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to decode payment CSV data: %w", err)
	}

	p.log.Info("parsed payment CSV", zap.Int("payments", len(payments)), zap.Object("stats", stats))
	return payments, stats, nil
}

// decodeRows walks the data rows of a CSV export one at a time. Rows the CSV
// layer rejects are counted as malformed; any other read error aborts.
func decodeRows(reader io.Reader, newRow func() any, stats *ParseStats, log *zap.Logger, handle func(line int, row any)) error {
	decoder, err := csvutil.NewDecoder(newPaddedReader(reader))
	if errors.Is(err, io.EOF) {
		return nil // empty export
	}
	if err != nil {
		return fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	for line := 1; ; line++ {
		row := newRow()
		err := decoder.Decode(row)
		if errors.Is(err, io.EOF) {
			return nil
		}
		stats.Rows++

		var parseErr *csv.ParseError
		switch {
		case err == nil:
			handle(line, row)
		case errors.As(err, &parseErr), errors.Is(err, csvutil.ErrFieldCount):
			stats.MalformedSkipped++
			log.Warn("skipping malformed CSV row", zap.Int("row", line), zap.Error(err))
		default:
			return err
		}
	}
}

// paddedReader fills short records up to the header width, the way
// spreadsheet tools treat trailing empty cells. It also drops a UTF-8 BOM.
type paddedReader struct {
	r     *csv.Reader
	width int
}

func newPaddedReader(r io.Reader) *paddedReader {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &paddedReader{r: cr}
}

func (p *paddedReader) Read() ([]string, error) {
	record, err := p.r.Read()
	if err != nil {
		return record, err
	}
	if p.width == 0 {
		p.width = len(record) // header
		return record, nil
	}
	for len(record) < p.width {
		record = append(record, "")
	}
	return record, nil
}
