package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectFilterEmpty(t *testing.T) {
	where, args := ProjectFilter{}.Clause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestProjectFilterComposesWithAND(t *testing.T) {
	where, args := ProjectFilter{
		Category: "PM_Policy",
		Status:   "completed",
	}.Clause()

	assert.Equal(t, "WHERE category = $1 AND status = $2", where)
	assert.Equal(t, []any{"PM_Policy", "completed"}, args)
}

func TestProjectFilterRoleSubstring(t *testing.T) {
	where, args := ProjectFilter{Role: "UX Designer"}.Clause()

	assert.Equal(t, `WHERE role LIKE $1 ESCAPE '\'`, where)
	assert.Equal(t, []any{"%UX Designer%"}, args)
}

func TestProjectFilterYear(t *testing.T) {
	where, args := ProjectFilter{Year: 2023}.Clause()

	assert.Equal(t, "WHERE EXTRACT(YEAR FROM start_date) = $1", where)
	assert.Equal(t, []any{2023}, args)
}

func TestLikeContainsEscapesMetacharacters(t *testing.T) {
	assert.Equal(t, `%100\%%`, likeContains("100%"))
	assert.Equal(t, `%a\_b%`, likeContains("a_b"))
	assert.Equal(t, `%c\\d%`, likeContains(`c\d`))
	assert.Equal(t, "%Mullican%", likeContains("Mullican"))
}
