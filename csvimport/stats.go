// csvimport/stats.go
package csvimport

import "go.uber.org/zap/zapcore"

// ParseStats counts what happened to each data row of one export.
type ParseStats struct {
	Rows               int `json:"rows"`
	Accepted           int `json:"accepted"`
	DraftSkipped       int `json:"draft_skipped"`
	NameMissingSkipped int `json:"name_missing_skipped"`
	MalformedSkipped   int `json:"malformed_skipped"`
	Unconfirmed        int `json:"unconfirmed"` // payments kept with a zero amount
}

// Skipped is the number of rows dropped for any reason.
func (s ParseStats) Skipped() int {
	return s.DraftSkipped + s.NameMissingSkipped + s.MalformedSkipped
}

// MarshalLogObject lets the stats be logged with zap.Object.
func (s ParseStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("rows", s.Rows)
	enc.AddInt("accepted", s.Accepted)
	enc.AddInt("draft_skipped", s.DraftSkipped)
	enc.AddInt("name_missing_skipped", s.NameMissingSkipped)
	enc.AddInt("malformed_skipped", s.MalformedSkipped)
	enc.AddInt("unconfirmed", s.Unconfirmed)
	return nil
}
