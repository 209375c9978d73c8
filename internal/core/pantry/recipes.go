package pantry

import (
	"context"

	"go.uber.org/zap"

	"smartpantry/internal/core/ranking"
	"smartpantry/internal/pkg/common"
)

// RecipeCard 顯示用的食譜，附帶收藏與評分狀態
type RecipeCard struct {
	common.Recipe
	DisplayImageURL string `json:"displayImageUrl"`
	IsSaved         bool   `json:"isSaved"`
	Rating          int    `json:"rating,omitempty"`
	Cooked          bool   `json:"cooked,omitempty"`
}

// FindRecipes 以目前食材與條件向 AI 取得食譜
// 文字結果到達即可顯示，圖片在背景逐一補上
func (s *Session) FindRecipes(ctx context.Context) (Notice, error) {
	s.mu.Lock()
	s.touch()
	if len(s.selected) == 0 {
		s.mu.Unlock()
		n := info(msgNeedIngredients)
		return n, common.WithMessage(common.ErrInvalidRequest, n.Message)
	}
	if s.finding {
		s.mu.Unlock()
		n := info(msgSearchBusy)
		return n, common.WithMessage(common.ErrConflict, n.Message)
	}
	s.finding = true
	s.hasSearched = true
	s.lastError = ""
	s.recipes = nil
	s.generation++
	// 舊結果集的圖片不再等待
	s.imagesDone = closedChan()
	q := s.query()
	s.mu.Unlock()

	recipes, err := s.gateway.FetchRecipes(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finding = false
	if err != nil {
		s.lastError = msgRecipesFailed
		common.LogWarn("Recipe search failed",
			zap.String("session_id", s.ID),
			zap.Strings("ingredients", q.Ingredients),
			zap.Error(err),
		)
		return failure(msgRecipesFailed), err
	}

	s.generation++
	s.recipes = common.CloneRecipes(recipes)
	if len(recipes) == 0 {
		return info(msgNoRecipes), nil
	}
	s.imagesDone = s.images.start(s, s.generation, recipes)
	return success(msgFoundRecipes, len(recipes)), nil
}

// attachImage 將圖片寫回對應的食譜；屬於舊結果集的圖片直接丟棄
func (s *Session) attachImage(generation uint64, name, uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	for i := range s.recipes {
		if s.recipes[i].Name == name {
			s.recipes[i].GeneratedImageURL = uri
			if s.activeRecipe != nil && s.activeRecipe.Name == name {
				s.activeRecipe.GeneratedImageURL = uri
			}
			return true
		}
	}
	return false
}

// WaitForImages 等待目前結果集的圖片全部完成（成功或失敗）
func (s *Session) WaitForImages(ctx context.Context) error {
	s.mu.Lock()
	done := s.imagesDone
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results 依會話排序狀態排列的目前結果集
func (s *Session) Results() []RecipeCard {
	return s.ResultsSortedBy(s.SortState())
}

// ResultsSortedBy 以指定排序排列目前結果集，不改變會話的排序狀態
func (s *Session) ResultsSortedBy(state ranking.SortState) []RecipeCard {
	s.mu.Lock()
	recipes := ranking.Rank(s.recipes, state)
	cooked := make(map[string]bool, len(s.cooked))
	for k, v := range s.cooked {
		cooked[k] = v
	}
	s.mu.Unlock()

	return s.cards(recipes, cooked)
}

func (s *Session) cards(recipes []common.Recipe, cooked map[string]bool) []RecipeCard {
	saved := make(map[string]bool)
	for _, r := range s.favorites.LoadSavedRecipes() {
		saved[r.Name] = true
	}
	ratings := s.favorites.LoadRatings()

	out := make([]RecipeCard, len(recipes))
	for i, r := range recipes {
		out[i] = RecipeCard{
			Recipe:          r,
			DisplayImageURL: ranking.DisplayImageURL(r),
			IsSaved:         saved[r.Name],
			Rating:          ratings[r.Name],
			Cooked:          cooked[r.Name],
		}
	}
	return out
}

// findRecipe 先找目前結果集，再找收藏
func (s *Session) findRecipe(name string) (common.Recipe, error) {
	for _, r := range s.recipes {
		if r.Name == name {
			return r, nil
		}
	}
	for _, r := range s.favorites.LoadSavedRecipes() {
		if r.Name == name {
			return r, nil
		}
	}
	return common.Recipe{}, common.WithMessage(common.ErrNotFound, "recipe not found")
}
