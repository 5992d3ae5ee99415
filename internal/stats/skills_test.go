package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archivalatlas/atlas/internal/model"
)

func TestSkillFrequencyCountsAndOrder(t *testing.T) {
	projects := []model.Project{
		{Skills: model.StringList{"User Research", "Prototyping"}, Tools: model.StringList{"Figma", "Miro"}},
		{Skills: model.StringList{"Mobile UX"}, Tools: model.StringList{"Figma", "Principle"}},
		{Skills: model.StringList{"Conversion Rate Optimization"}, Tools: model.StringList{"Figma"}},
	}

	counts := SkillFrequency(projects)

	require.NotEmpty(t, counts)
	assert.Equal(t, SkillCount{Name: "Figma", Count: 3}, counts[0])

	// Everything else appeared once; ties keep first-encountered order.
	rest := counts[1:]
	names := make([]string, len(rest))
	for i, c := range rest {
		assert.Equal(t, 1, c.Count)
		names[i] = c.Name
	}
	assert.Equal(t, []string{"User Research", "Prototyping", "Miro", "Mobile UX", "Principle", "Conversion Rate Optimization"}, names)
}

func TestSkillFrequencyEmpty(t *testing.T) {
	counts := SkillFrequency(nil)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}

func TestSkillFrequencyStableTieBreak(t *testing.T) {
	projects := []model.Project{
		{Skills: model.StringList{"B", "A"}},
		{Skills: model.StringList{"A", "B", "C"}},
	}

	counts := SkillFrequency(projects)

	require.Len(t, counts, 3)
	assert.Equal(t, "B", counts[0].Name)
	assert.Equal(t, "A", counts[1].Name)
	assert.Equal(t, "C", counts[2].Name)
}
