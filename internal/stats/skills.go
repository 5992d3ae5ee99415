// Package stats computes derived read-only views over the portfolio.
package stats

import (
	"sort"

	"github.com/archivalatlas/atlas/internal/model"
)

// SkillCount is one histogram bucket of the /api/skills payload.
type SkillCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SkillFrequency flattens every project's skill and tool lists and counts
// occurrences, sorted descending by count. Ties keep first-encountered
// order, so the output is deterministic for a given project ordering.
func SkillFrequency(projects []model.Project) []SkillCount {
	index := map[string]int{}
	counts := []SkillCount{}

	record := func(name string) {
		if i, ok := index[name]; ok {
			counts[i].Count++
			return
		}
		index[name] = len(counts)
		counts = append(counts, SkillCount{Name: name, Count: 1})
	}

	for _, p := range projects {
		for _, s := range p.Skills {
			record(s)
		}
		for _, tool := range p.Tools {
			record(tool)
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
