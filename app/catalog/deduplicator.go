package catalog

type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Run keeps the first record seen for each composite key. Later records
// with the same key are returned as duplicates, untouched.
func (d *Deduplicator) Run(records []Record) ([]Record, []Duplicate) {
	seen := make(map[Key]struct{}, len(records))
	unique := make([]Record, 0, len(records))
	var duplicates []Duplicate

	for _, record := range records {
		key := record.Key()
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, Duplicate{Key: key, Record: record})
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, record)
	}

	return unique, duplicates
}
