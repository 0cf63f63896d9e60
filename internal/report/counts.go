package report

import (
	"sort"

	domain "paxboard/domain/report"
	"paxboard/internal/table"
)

// CountsBy tallies the non-missing values of column, most frequent first.
// Equal counts keep the order in which the values first appear in t.
func CountsBy(t *table.Table, column string) ([]domain.ValueCount, error) {
	values, err := t.Values(column)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	counts := []domain.ValueCount{}
	for _, v := range values {
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(counts)
			index[v] = i
			counts = append(counts, domain.ValueCount{Value: v})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}
