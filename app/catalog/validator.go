package catalog

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	asinPattern       = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)
	authorLinkPattern = regexp.MustCompile(`^\[([^\]]*)\]\(([^)]*)\)$`)

	numberCleaner = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

	// Excel serial day 0
	excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

	releaseDateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"1/2/2006",
		"1/2/06",
		"01-02-06",
		"January 2, 2006",
		"Jan 2, 2006",
		"2 January 2006",
		"02 Jan 2006",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
)

const maxExcelSerial = 2958465 // 9999-12-31

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Run converts one raw row into a Record. A nil record comes with the list
// of reasons the row was rejected. Malformed optional fields are dropped.
func (v *Validator) Run(raw RawRecord, info SourceFileInfo) (*Record, []string) {
	var reasons []string

	asin := raw.Cell(ColASIN).Text()
	title := raw.Cell(ColTitle).Text()
	author, authorURL := splitAuthor(raw.Cell(ColAuthor).Text())
	if authorURL == "" && raw.Links != nil {
		authorURL = strings.TrimSpace(raw.Links[ColAuthor])
	}

	switch {
	case asin == "":
		reasons = append(reasons, ColASIN+" is required")
	case !asinPattern.MatchString(asin):
		reasons = append(reasons, ColASIN+" must be 1-10 alphanumeric characters")
	}
	if title == "" {
		reasons = append(reasons, ColTitle+" is required")
	}
	if author == "" {
		reasons = append(reasons, ColAuthor+" is required")
	}
	if len(reasons) > 0 {
		return nil, reasons
	}

	record := &Record{
		IngestionDate: info.IngestionDate,
		Category:      info.CategoryName,
		ASIN:          asin,
		Title:         title,
		Author:        author,
		AuthorURL:     normalizeURL(authorURL),
		Series:        raw.Cell(ColSeries).Text(),
		Publisher:     raw.Cell(ColPublisher).Text(),
		Description:   raw.Cell(ColDescription).Text(),
		CoverURL:      normalizeURL(raw.Cell(ColCoverURL).Text()),
		ProductURL:    normalizeURL(raw.Cell(ColProductURL).Text()),
		TopicTags:     splitList(raw.Cell(ColTopicTags).Text(), "|"),
		Subcategories: splitList(raw.Cell(ColSubcategories).Text(), ",;"),
		Keyphrases:    splitList(raw.Cell(ColKeyphrases).Text(), ",;"),
		EstimatedPOV:  raw.Cell(ColEstimatedPOV).Text(),
		SourceLine:    raw.Line,
	}

	if n, ok := parseNumber(raw.Cell(ColPrice)); ok && n >= 0 {
		record.Price = &n
	}
	if n, ok := parseNumber(raw.Cell(ColRating)); ok && n >= 0 && n <= 5 {
		record.Rating = &n
	}
	if n, ok := parseNumber(raw.Cell(ColReviewCount)); ok && n >= 0 && n < math.MaxInt64 {
		count := int64(math.Floor(n))
		record.ReviewCount = &count
	}
	if n, ok := parseNumber(raw.Cell(ColSalesRank)); ok && n >= 1 && n < math.MaxInt64 {
		rank := int64(math.Floor(n))
		record.SalesRank = &rank
	}
	if d, ok := parseDate(raw.Cell(ColReleaseDate)); ok {
		record.ReleaseDate = &d
	}
	if b, ok := parseBool(raw.Cell(ColKindleUnlimited)); ok {
		record.KindleUnlimited = &b
	}
	if b, ok := parseBool(raw.Cell(ColAudiobook)); ok {
		record.Audiobook = &b
	}

	return record, nil
}

// RunAll validates a batch, keeping input order for both outputs.
func (v *Validator) RunAll(rows []RawRecord, info SourceFileInfo) ([]Record, []Rejection) {
	valid := make([]Record, 0, len(rows))
	var rejected []Rejection

	for _, row := range rows {
		record, reasons := v.Run(row, info)
		if record == nil {
			rejected = append(rejected, Rejection{Line: row.Line, Reasons: reasons, Raw: row})
			continue
		}
		valid = append(valid, *record)
	}

	return valid, rejected
}

// splitAuthor separates "[name](url)" into name and url.
func splitAuthor(s string) (string, string) {
	m := authorLinkPattern.FindStringSubmatch(s)
	if m == nil {
		return s, ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

// normalizeURL returns an absolute http(s) URL or "" when s is not one.
func normalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	host := u.Hostname()
	if host == "" || strings.HasPrefix(host, ".") || (!strings.Contains(host, ".") && host != "localhost") {
		return ""
	}
	return u.String()
}

func splitList(s string, separators string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})

	var out []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseNumber(v Value) (float64, bool) {
	var n float64
	switch v.Kind() {
	case KindNumber:
		n = v.num
	case KindString:
		cleaned := numberCleaner.Replace(v.Text())
		if cleaned == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func parseBool(v Value) (bool, bool) {
	switch v.Kind() {
	case KindBool:
		return v.b, true
	case KindBlank:
		return false, true
	case KindNumber:
		switch v.num {
		case 1:
			return true, true
		case 0:
			return false, true
		}
		return false, false
	}

	switch strings.ToLower(v.Text()) {
	case "true", "yes", "y", "1":
		return true, true
	case "false", "no", "n", "0", "":
		return false, true
	}
	return false, false
}

func parseDate(v Value) (time.Time, bool) {
	switch v.Kind() {
	case KindNumber:
		return fromExcelSerial(v.num)
	case KindString:
	default:
		return time.Time{}, false
	}

	s := v.Text()
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}

	if len(s) == 5 {
		if n, err := strconv.Atoi(s); err == nil {
			return fromExcelSerial(float64(n))
		}
	}

	return time.Time{}, false
}

func fromExcelSerial(n float64) (time.Time, bool) {
	if n < 1 || n > maxExcelSerial {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(math.Floor(n))), true
}
