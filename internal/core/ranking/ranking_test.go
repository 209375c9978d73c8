package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartpantry/internal/pkg/common"
)

func TestParseDurationToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1 hour 15 minutes", 75},
		{"45 minutes", 45},
		{"", 0},
		{"2 hours", 120},
		{"1 Hour 5 Mins", 65},
		{"30min", 30},
		{"about half an hour", 0},
		{"99999999999999999999 minutes", 0},
		{"15 minute", 15},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDurationToMinutes(tt.in))
		})
	}
}

func recipe(name, prep, cook string, recommended bool) common.Recipe {
	return common.Recipe{Name: name, PrepTime: prep, CookingTime: cook, IsRecommended: recommended}
}

func names(rs []common.Recipe) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestRankRecommendedFirst(t *testing.T) {
	in := []common.Recipe{
		recipe("a", "5 minutes", "", false),
		recipe("b", "50 minutes", "", true),
		recipe("c", "1 minute", "", false),
	}
	for _, st := range []SortState{
		{SortNone, OrderAsc},
		{SortPrepTime, OrderAsc},
		{SortPrepTime, OrderDesc},
		{SortCookingTime, OrderDesc},
	} {
		got := Rank(in, st)
		assert.Equal(t, "b", got[0].Name, "state %+v", st)
	}
}

func TestRankNoneKeepsOriginalOrder(t *testing.T) {
	in := []common.Recipe{
		recipe("a", "50 minutes", "", false),
		recipe("b", "5 minutes", "", false),
		recipe("c", "20 minutes", "", true),
		recipe("d", "1 minute", "", false),
	}
	got := Rank(in, SortState{Key: SortNone, Order: OrderDesc})
	assert.Equal(t, []string{"c", "a", "b", "d"}, names(got))
}

func TestRankMultipleRecommendedKeepRelativeOrder(t *testing.T) {
	in := []common.Recipe{
		recipe("x", "10 minutes", "", true),
		recipe("y", "5 minutes", "", false),
		recipe("z", "10 minutes", "", true),
	}
	got := Rank(in, SortState{Key: SortPrepTime, Order: OrderAsc})
	assert.Equal(t, []string{"x", "z", "y"}, names(got))
}

func TestRankIsStableAndPure(t *testing.T) {
	in := []common.Recipe{
		recipe("a", "10 minutes", "", false),
		recipe("b", "10 minutes", "", false),
		recipe("c", "5 minutes", "", false),
		recipe("d", "", "", false),
		recipe("e", "10 minutes", "", false),
	}
	snapshot := names(in)
	st := SortState{Key: SortPrepTime, Order: OrderAsc}

	first := Rank(in, st)
	assert.Equal(t, []string{"d", "c", "a", "b", "e"}, names(first))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Rank(in, st))
	}
	assert.Equal(t, snapshot, names(in))

	desc := Rank(in, st.Toggle())
	assert.Equal(t, []string{"a", "b", "e", "c", "d"}, names(desc))
}

func TestRankToggleReversesWithoutTies(t *testing.T) {
	in := []common.Recipe{
		recipe("r", "1 hour", "", true),
		recipe("a", "30 minutes", "", false),
		recipe("b", "1 hour 5 minutes", "", false),
		recipe("c", "20 minutes", "", false),
	}
	asc := Rank(in, SortState{Key: SortPrepTime, Order: OrderAsc})
	desc := Rank(in, SortState{Key: SortPrepTime, Order: OrderDesc})

	ascRest := names(asc[1:])
	descRest := names(desc[1:])
	for i, j := 0, len(descRest)-1; i < j; i, j = i+1, j-1 {
		descRest[i], descRest[j] = descRest[j], descRest[i]
	}
	assert.Equal(t, ascRest, descRest)
	assert.Equal(t, "r", asc[0].Name)
	assert.Equal(t, "r", desc[0].Name)
}

func TestRankByCookingTime(t *testing.T) {
	in := []common.Recipe{
		recipe("a", "1 minute", "1 hour", false),
		recipe("b", "2 hours", "10 minutes", false),
	}
	got := Rank(in, SortState{Key: SortCookingTime, Order: OrderAsc})
	assert.Equal(t, []string{"b", "a"}, names(got))
}

func TestRankScenario(t *testing.T) {
	in := []common.Recipe{
		recipe("Tomato Rice", "30 minutes", "", false),
		recipe("Onion Thokku", "10 minutes", "", true),
		recipe("Tomato Onion Chutney", "20 minutes", "", false),
	}
	got := Rank(in, SortState{Key: SortPrepTime, Order: OrderAsc})
	assert.Equal(t, []string{"Onion Thokku", "Tomato Onion Chutney", "Tomato Rice"}, names(got))
}

func TestRankEmpty(t *testing.T) {
	assert.Nil(t, Rank(nil, DefaultSortState()))
	assert.Empty(t, Rank([]common.Recipe{}, DefaultSortState()))
}

func TestParseSortState(t *testing.T) {
	assert.Equal(t, SortState{SortPrepTime, OrderDesc}, ParseSortState("prepTime", "DESC"))
	assert.Equal(t, SortState{SortCookingTime, OrderAsc}, ParseSortState("cookingTime", ""))
	assert.Equal(t, DefaultSortState(), ParseSortState("calories", "sideways"))
	assert.Equal(t, OrderAsc, SortState{SortNone, OrderDesc}.Toggle().Order)
}

func TestClassify(t *testing.T) {
	r := common.Recipe{
		MatchingIngredients: []string{"Tomato", "Onion"},
		MissingIngredients:  []string{"Curry Leaves"},
	}
	assert.Equal(t, StatusMatching, Classify(r, "Tomato"))
	assert.Equal(t, StatusMissing, Classify(r, "Curry Leaves"))
	assert.Equal(t, StatusUnknown, Classify(r, "tomato"))
	assert.Equal(t, []string{"Tomato", "Onion", "Curry Leaves"}, AllIngredients(r))
}

func TestDisplayImageURL(t *testing.T) {
	r := common.Recipe{ImageQuery: "Lemon Rice"}
	assert.Contains(t, DisplayImageURL(r), "source.unsplash.com")
	assert.Contains(t, DisplayImageURL(r), "Lemon+Rice")

	r.GeneratedImageURL = "data:image/jpeg;base64,AAAA"
	assert.Equal(t, r.GeneratedImageURL, DisplayImageURL(r))
}
