package pantry

import (
	"smartpantry/internal/core/catalog"
	"smartpantry/internal/core/ranking"
)

// Snapshot 會話的完整可見狀態
type Snapshot struct {
	ID           string               `json:"id"`
	ClientID     string               `json:"client_id"`
	View         View                 `json:"view"`
	Pantry       []catalog.Ingredient `json:"pantry"`
	Filters      Filters              `json:"filters"`
	Sort         ranking.SortState    `json:"sort"`
	HasSearched  bool                 `json:"has_searched"`
	IsFinding    bool                 `json:"is_finding"`
	IsSuggesting bool                 `json:"is_suggesting"`
	Error        string               `json:"error,omitempty"`
	Recipes      []RecipeCard         `json:"recipes"`
	Cooking      *CookingState        `json:"cooking,omitempty"`
	Chat         ChatState            `json:"chat"`
}

// Snapshot 取得目前狀態
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	pantry := make([]catalog.Ingredient, len(s.selected))
	copy(pantry, s.selected)
	snap := Snapshot{
		ID:           s.ID,
		ClientID:     s.ClientID,
		View:         s.view,
		Pantry:       pantry,
		Filters:      s.filters,
		Sort:         s.sort,
		HasSearched:  s.hasSearched,
		IsFinding:    s.finding,
		IsSuggesting: s.suggesting,
		Error:        s.lastError,
		Cooking:      s.cookingState(),
		Chat:         s.chatState(),
	}
	ranked := ranking.Rank(s.recipes, s.sort)
	cooked := make(map[string]bool, len(s.cooked))
	for k, v := range s.cooked {
		cooked[k] = v
	}
	s.mu.Unlock()

	snap.Recipes = s.cards(ranked, cooked)
	return snap
}
