// csvimport/amount.go
package csvimport

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Dollar figure inside the amount description, e.g. `[["One Banner","$95"]]`.
var amountRegex = regexp.MustCompile(`\$(\d+)(?:\.(\d{2}))?`)

// maxDollars keeps dollars*100 + cents inside int64.
const maxDollars = (math.MaxInt64 - 99) / 100

// errAmountTooLarge marks a dollar figure that cannot be held in cents.
var errAmountTooLarge = errors.New("amount too large")

// parseAmountCents returns the first dollar figure in text, in cents. 0 when
// absent; an error when the figure does not fit.
func parseAmountCents(text string) (int64, error) {
	matches := amountRegex.FindStringSubmatch(text)
	if len(matches) < 2 {
		return 0, nil
	}
	dollars, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil || dollars > maxDollars {
		return 0, fmt.Errorf("%w: %s", errAmountTooLarge, matches[0])
	}
	var cents int64
	if matches[2] != "" {
		cents, _ = strconv.ParseInt(matches[2], 10, 64)
	}
	return dollars*100 + cents, nil
}

// Layouts seen in form exports, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseDate never fails: unknown formats yield nil.
func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
