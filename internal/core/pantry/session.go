package pantry

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"smartpantry/internal/core/ai/service"
	"smartpantry/internal/core/catalog"
	"smartpantry/internal/core/favorites"
	"smartpantry/internal/core/ranking"
	"smartpantry/internal/pkg/common"
)

// View 目前顯示的畫面
type View string

const (
	ViewMain    View = "main"
	ViewCooking View = "cooking"
)

// Filters 食譜搜尋條件
type Filters struct {
	Allergies          string `json:"allergies"`
	MealType           string `json:"meal_type"`
	DietaryRestriction string `json:"dietary_restriction"`
	CuisineType        string `json:"cuisine_type"`
	Language           string `json:"language"`
}

// DefaultFilters 預設條件
func DefaultFilters() Filters {
	return Filters{
		MealType:           catalog.AllMeals,
		DietaryRestriction: catalog.NoDietaryRestriction,
		CuisineType:        catalog.AllCuisines,
		Language:           catalog.DefaultLanguage,
	}
}

// FilterUpdate 部分更新，nil 表示不變
type FilterUpdate struct {
	Allergies          *string `json:"allergies"`
	MealType           *string `json:"meal_type"`
	DietaryRestriction *string `json:"dietary_restriction"`
	CuisineType        *string `json:"cuisine_type"`
	Language           *string `json:"language"`
}

// Session 單一使用者的應用狀態
// 所有欄位由 mu 保護，每個會話等同單一 UI 執行緒
type Session struct {
	ID       string
	ClientID string

	gateway   Gateway
	favorites *favorites.Repository
	catalog   *catalog.Catalog
	images    *imageFanout
	chatCfg   ChatOptions
	now       func() time.Time

	mu           sync.Mutex
	selected     []catalog.Ingredient
	filters      Filters
	recipes      []common.Recipe
	generation   uint64
	imagesDone   chan struct{}
	sort         ranking.SortState
	hasSearched  bool
	finding      bool
	suggesting   bool
	lastError    string
	view         View
	activeRecipe *common.Recipe
	checked      map[string]bool
	cooked       map[string]bool
	chat         *service.ChatSession
	chatOpen     bool
	chatTyping   bool
	chatMessages []ChatMessage
	lastActive   time.Time
}

// closedChan 已關閉的通道，表示沒有進行中的圖片工作
func closedChan() chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

func newSession(id, clientID string, deps sessionDeps) *Session {
	return &Session{
		ID:         id,
		ClientID:   clientID,
		gateway:    deps.gateway,
		favorites:  favorites.New(deps.store, clientID),
		catalog:    deps.catalog,
		images:     deps.images,
		chatCfg:    deps.chat,
		now:        deps.now,
		filters:    DefaultFilters(),
		sort:       ranking.DefaultSortState(),
		view:       ViewMain,
		imagesDone: closedChan(),
		checked:    make(map[string]bool),
		cooked:     make(map[string]bool),
		lastActive: deps.now(),
	}
}

func (s *Session) touch() {
	s.lastActive = s.now()
}

// LastActive 最後一次操作的時間
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) selectedNames() []string {
	names := make([]string, len(s.selected))
	for i, ing := range s.selected {
		names[i] = ing.Name
	}
	return names
}

func (s *Session) isSelected(name string) bool {
	for _, ing := range s.selected {
		if ing.Name == name {
			return true
		}
	}
	return false
}

// AddIngredient 加入食材，名稱必須存在於目錄
func (s *Session) AddIngredient(name string) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	ing, ok := s.catalog.Lookup(name)
	if !ok {
		n := failure(msgUnknownIngredient, strings.TrimSpace(name))
		return n, common.WithMessage(common.ErrInvalidRequest, n.Message)
	}
	if s.isSelected(ing.Name) {
		return info(msgAlreadyInPantry, ing.Name), nil
	}
	s.selected = append(s.selected, ing)
	return info(msgAdded, ing.Name), nil
}

// RemoveIngredient 移除已選食材
func (s *Session) RemoveIngredient(name string) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	target := strings.TrimSpace(name)
	if ing, ok := s.catalog.Lookup(target); ok {
		target = ing.Name
	}
	for i, ing := range s.selected {
		if ing.Name == target {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return info(msgRemovedIngredient, ing.Name), nil
		}
	}
	return Notice{}, common.WithMessage(common.ErrNotFound, "ingredient is not in the pantry")
}

// Pantry 已選食材
func (s *Session) Pantry() []catalog.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Ingredient, len(s.selected))
	copy(out, s.selected)
	return out
}

// SuggestIngredient 請 AI 推薦下一個食材並經由目錄加入
func (s *Session) SuggestIngredient(ctx context.Context) (Notice, error) {
	s.mu.Lock()
	s.touch()
	if s.suggesting {
		s.mu.Unlock()
		n := info(msgSuggestBusy)
		return n, common.WithMessage(common.ErrConflict, n.Message)
	}
	s.suggesting = true
	current := s.selectedNames()
	s.mu.Unlock()

	name, err := s.gateway.SuggestNextIngredient(ctx, current)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggesting = false
	if err != nil {
		common.LogWarn("Ingredient suggestion failed", zap.String("session_id", s.ID), zap.Error(err))
		return failure(msgSuggestFailed), err
	}

	ing, ok := s.catalog.Lookup(name)
	if !ok {
		common.LogInfo("Suggested ingredient is not in catalog",
			zap.String("session_id", s.ID),
			zap.String("suggestion", name),
		)
		return failure(msgSuggestUnavailable), nil
	}
	if s.isSelected(ing.Name) {
		return info(msgAlreadyInPantry, ing.Name), nil
	}
	s.selected = append(s.selected, ing)
	return info(msgAdded, ing.Name), nil
}

// Autocomplete 依輸入搜尋尚未選取的食材
func (s *Session) Autocomplete(query string) []catalog.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Search(query, s.selectedNames(), catalog.DefaultSearchLimit)
}

// CatalogByCategory 依分類列出尚未選取的食材
func (s *Session) CatalogByCategory() []catalog.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Grouped(s.selectedNames())
}

// Filters 目前的搜尋條件
func (s *Session) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetFilters 更新搜尋條件，任何一個值不合法則整體不變
func (s *Session) SetFilters(u FilterUpdate) (Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	next := s.filters
	if u.Allergies != nil {
		next.Allergies = joinAllergies(splitAllergies(*u.Allergies))
	}
	if u.MealType != nil {
		if !catalog.IsMealType(*u.MealType) {
			return invalidOption("meal type", *u.MealType)
		}
		next.MealType = *u.MealType
	}
	if u.DietaryRestriction != nil {
		if !catalog.IsDietaryRestriction(*u.DietaryRestriction) {
			return invalidOption("dietary restriction", *u.DietaryRestriction)
		}
		next.DietaryRestriction = *u.DietaryRestriction
	}
	if u.CuisineType != nil {
		if !catalog.IsCuisineType(*u.CuisineType) {
			return invalidOption("cuisine type", *u.CuisineType)
		}
		next.CuisineType = *u.CuisineType
	}
	if u.Language != nil {
		if !catalog.IsSupportedLanguage(*u.Language) {
			return invalidOption("language", *u.Language)
		}
		next.Language = *u.Language
	}
	s.filters = next
	return info(msgFiltersUpdated), nil
}

func invalidOption(field, value string) (Notice, error) {
	n := info("Unsupported %s %q.", field, value)
	return n, common.WithMessage(common.ErrInvalidRequest, n.Message)
}

// ToggleAllergy 切換過敏原；選 None 清空全部
func (s *Session) ToggleAllergy(allergen string) (Filters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	allergen = strings.TrimSpace(allergen)
	if !catalog.IsAllergen(allergen) {
		_, err := invalidOption("allergen", allergen)
		return s.filters, err
	}

	var next []string
	if allergen != catalog.NoAllergen {
		current := splitAllergies(s.filters.Allergies)
		if !common.ContainsString(current, catalog.NoAllergen) {
			next = current
		}
		if common.ContainsString(next, allergen) {
			next = common.RemoveString(next, allergen)
		} else {
			next = append(next, allergen)
		}
	}
	s.filters.Allergies = joinAllergies(next)
	return s.filters, nil
}

func splitAllergies(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinAllergies(list []string) string {
	return common.StringSliceToString(common.RemoveString(list, catalog.NoAllergen))
}

// ClearFilters 重設搜尋條件，排序狀態保留
func (s *Session) ClearFilters() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.filters = DefaultFilters()
	return info(msgFiltersCleared)
}

// SortState 目前的排序狀態
func (s *Session) SortState() ranking.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// SetSort 設定排序欄位與方向
func (s *Session) SetSort(key, order string) ranking.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.sort = ranking.ParseSortState(key, order)
	return s.sort
}

// ToggleSortOrder 切換升降冪
func (s *Session) ToggleSortOrder() ranking.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.sort = s.sort.Toggle()
	return s.sort
}

func (s *Session) query() common.RecipeQuery {
	return common.RecipeQuery{
		Ingredients:        s.selectedNames(),
		Allergies:          s.filters.Allergies,
		MealType:           s.filters.MealType,
		DietaryRestriction: s.filters.DietaryRestriction,
		CuisineType:        s.filters.CuisineType,
		LanguageCode:       s.filters.Language,
	}
}
