package pantry

import (
	"strings"

	"smartpantry/internal/core/ranking"
	"smartpantry/internal/pkg/common"
)

// ChecklistItem 烹調清單的一項
type ChecklistItem struct {
	Ingredient string                   `json:"ingredient"`
	Status     ranking.IngredientStatus `json:"status"`
	Checked    bool                     `json:"checked"`
}

// CookingState 烹調畫面
type CookingState struct {
	Recipe          common.Recipe   `json:"recipe"`
	DisplayImageURL string          `json:"displayImageUrl"`
	Checklist       []ChecklistItem `json:"checklist"`
}

// StartCooking 進入烹調畫面，清單重新開始
func (s *Session) StartCooking(name string) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	r, err := s.findRecipe(strings.TrimSpace(name))
	if err != nil {
		return Notice{}, err
	}
	s.activeRecipe = &r
	s.view = ViewCooking
	s.checked = make(map[string]bool)
	return info(msgStartCooking, r.Name), nil
}

// BackToRecipes 回到食譜列表
func (s *Session) BackToRecipes() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.activeRecipe = nil
	s.view = ViewMain
	s.checked = make(map[string]bool)
	return info(msgBackToRecipes)
}

// ToggleChecklist 勾選或取消清單中的食材
func (s *Session) ToggleChecklist(ingredient string) (*CookingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.activeRecipe == nil {
		return nil, common.WithMessage(common.ErrConflict, "no recipe is being cooked")
	}
	if !common.ContainsString(ranking.AllIngredients(*s.activeRecipe), ingredient) {
		return nil, common.WithMessage(common.ErrInvalidRequest, "ingredient is not part of this recipe")
	}
	if s.checked[ingredient] {
		delete(s.checked, ingredient)
	} else {
		s.checked[ingredient] = true
	}
	return s.cookingState(), nil
}

// Cooking 目前的烹調畫面，不在烹調時返回 nil
func (s *Session) Cooking() *CookingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookingState()
}

func (s *Session) cookingState() *CookingState {
	if s.activeRecipe == nil {
		return nil
	}
	r := *s.activeRecipe
	all := ranking.AllIngredients(r)
	items := make([]ChecklistItem, len(all))
	for i, ing := range all {
		items[i] = ChecklistItem{
			Ingredient: ing,
			Status:     ranking.Classify(r, ing),
			Checked:    s.checked[ing],
		}
	}
	return &CookingState{
		Recipe:          r,
		DisplayImageURL: ranking.DisplayImageURL(r),
		Checklist:       items,
	}
}
