package sources

import (
	"sort"
	"strings"

	"go-subscout/models"
)

// Merge builds one record per distinct name, accumulating the sources that
// produced it in first-seen order. Records are sorted by subdomain.
func Merge(batches []Batch) []*models.Record {
	merged := make(map[string]*models.Record)

	for _, b := range batches {
		for _, name := range b.Names {
			name = strings.ToLower(name)
			rec, ok := merged[name]
			if !ok {
				merged[name] = &models.Record{Subdomain: name, Source: []string{b.Source}}
				continue
			}
			if !contains(rec.Source, b.Source) {
				rec.Source = append(rec.Source, b.Source)
			}
		}
	}

	records := make([]*models.Record, 0, len(merged))
	for _, rec := range merged {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Subdomain < records[j].Subdomain
	})
	return records
}

// contains verifies if a value exists within a slice.
func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
