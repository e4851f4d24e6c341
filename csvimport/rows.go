// csvimport/rows.go
package csvimport

// heroRow mirrors the hero CMS export. CSV tags must match the headers exactly;
// a column missing from the file decodes as "".
type heroRow struct {
	Status         string `csv:"Status"`
	NameOfBuyer    string `csv:"Name of Buyer"`
	ServiceName    string `csv:"Service Name"`
	Branch         string `csv:"Branch"`
	Rank           string `csv:"Rank"`
	ServiceDetails string `csv:"Service Details"`
	Email          string `csv:"Email"`
	Phone          string `csv:"Phone"`
	Image          string `csv:"Image"`
}

// paymentRow mirrors the payment form export.
type paymentRow struct {
	YourName    string `csv:"Your Name"`
	Status      string `csv:"Status"`
	OneBanner   string `csv:"One Banner"` // e.g. [["One Banner","$95"]]
	CreatedDate string `csv:"Created date"`
	ID          string `csv:"Id"`
}

// Markers recognised in the Status columns, compared case-insensitively.
const (
	StatusPublished = "PUBLISHED"
	StatusConfirmed = "CONFIRMED"
)

// ImageURIPrefix marks a photo stored as an internal site asset.
const ImageURIPrefix = "wix:"
