package catalog

import (
	"time"
)

const dateLayout = "2006-01-02"

// Column names of a raw catalog export
const (
	ColTitle           = "title"
	ColASIN            = "asin"
	ColAuthor          = "author"
	ColSeries          = "series"
	ColReviewCount     = "review_count"
	ColRating          = "rating"
	ColPrice           = "price"
	ColSalesRank       = "sales_rank"
	ColReleaseDate     = "release_date"
	ColPublisher       = "publisher"
	ColDescription     = "description"
	ColCoverURL        = "cover_url"
	ColProductURL      = "product_url"
	ColTopicTags       = "topic_tags"
	ColSubcategories   = "subcategories"
	ColKeyphrases      = "keyphrases"
	ColEstimatedPOV    = "estimated_pov"
	ColKindleUnlimited = "kindle_unlimited"
	ColAudiobook       = "audiobook"
)

// Columns lists the fixed column set in export order.
var Columns = []string{
	ColTitle, ColASIN, ColAuthor, ColSeries, ColReviewCount, ColRating, ColPrice,
	ColSalesRank, ColReleaseDate, ColPublisher, ColDescription, ColCoverURL,
	ColProductURL, ColTopicTags, ColSubcategories, ColKeyphrases, ColEstimatedPOV,
	ColKindleUnlimited, ColAudiobook,
}

// SourceFileInfo is the metadata carried by a source filename.
type SourceFileInfo struct {
	IngestionDate time.Time
	CategoryKey   string
	CategoryName  string
}

// RawRecord is one loosely-typed spreadsheet row.
type RawRecord struct {
	Line  int               // 1-based line in the source file, header is line 1
	Cells map[string]Value  // keyed by column name
	Links map[string]string // hyperlink targets attached to cells
}

// Cell returns the value of a column, Blank when missing.
func (r RawRecord) Cell(column string) Value {
	if r.Cells == nil {
		return Value{}
	}
	return r.Cells[column]
}

// Payload flattens the row for audit output.
func (r RawRecord) Payload() map[string]any {
	payload := make(map[string]any, len(r.Cells)+len(r.Links))
	for name, v := range r.Cells {
		payload[name] = v.Interface()
	}
	for name, link := range r.Links {
		payload[name+"_link"] = link
	}
	return payload
}

// Record is a validated catalog record.
type Record struct {
	IngestionDate time.Time
	Category      string
	ASIN          string
	Title         string
	Author        string

	AuthorURL       string
	Series          string
	Price           *float64
	Rating          *float64
	ReviewCount     *int64
	SalesRank       *int64
	ReleaseDate     *time.Time
	Publisher       string
	Description     string
	CoverURL        string
	ProductURL      string
	TopicTags       []string
	Subcategories   []string
	Keyphrases      []string
	EstimatedPOV    string
	KindleUnlimited *bool
	Audiobook       *bool

	MediaVerified bool

	SourceLine int
}

// Key is the composite natural key of a record.
type Key struct {
	IngestionDate string
	Category      string
	ASIN          string
}

func (k Key) String() string {
	return k.IngestionDate + "/" + k.Category + "/" + k.ASIN
}

// Key returns the composite natural key of the record.
func (r Record) Key() Key {
	return Key{
		IngestionDate: r.IngestionDate.Format(dateLayout),
		Category:      r.Category,
		ASIN:          r.ASIN,
	}
}

// Rejection is a row that failed validation.
type Rejection struct {
	Line    int
	Reasons []string
	Raw     RawRecord
}

// Duplicate is a record dropped because its key was already seen in the batch.
type Duplicate struct {
	Key    Key
	Record Record
}
