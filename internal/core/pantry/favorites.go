package pantry

import (
	"strings"

	"smartpantry/internal/core/favorites"
	"smartpantry/internal/pkg/common"
)

// SaveRecipe 收藏目前結果集中的食譜
func (s *Session) SaveRecipe(name string) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	r, err := s.findRecipe(strings.TrimSpace(name))
	if err != nil {
		return Notice{}, err
	}
	s.favorites.SaveRecipe(r)
	return success(msgSaved, r.Name), nil
}

// RemoveSavedRecipe 取消收藏，評分一併移除
func (s *Session) RemoveSavedRecipe(name string) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	name = strings.TrimSpace(name)
	if !s.favorites.IsRecipeSaved(name) {
		return Notice{}, common.WithMessage(common.ErrNotFound, "recipe is not saved")
	}
	s.favorites.RemoveRecipe(name)
	return info(msgUnsaved, name), nil
}

// SavedRecipes 已收藏的食譜
func (s *Session) SavedRecipes() []RecipeCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards(s.favorites.LoadSavedRecipes(), s.cooked)
}

// RateRecipe 為食譜評分，範圍 1 到 5
func (s *Session) RateRecipe(name string, rating int) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if rating < favorites.MinRating || rating > favorites.MaxRating {
		n := info(msgInvalidRating, favorites.MinRating, favorites.MaxRating)
		return n, common.WithMessage(common.ErrInvalidRequest, n.Message)
	}
	r, err := s.findRecipe(strings.TrimSpace(name))
	if err != nil {
		return Notice{}, err
	}
	s.favorites.SetRating(r.Name, rating)
	return info(msgRated, r.Name, rating), nil
}

// Ratings 所有評分
func (s *Session) Ratings() map[string]int {
	return s.favorites.LoadRatings()
}

// MarkCooked 標記為已烹調
func (s *Session) MarkCooked(name string) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	r, err := s.findRecipe(strings.TrimSpace(name))
	if err != nil {
		return Notice{}, err
	}
	s.cooked[r.Name] = true
	return success(msgCooked, r.Name), nil
}
