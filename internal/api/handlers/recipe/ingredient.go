package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartpantry/internal/core/catalog"
	"smartpantry/internal/core/pantry"
)

// IngredientRequest 加入食材
type IngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

// AllergyRequest 切換過敏原
type AllergyRequest struct {
	Allergen string `json:"allergen" binding:"required"`
}

// PantryResponse 食材操作結果
type PantryResponse struct {
	Notice *pantry.Notice       `json:"notice,omitempty"`
	Pantry []catalog.Ingredient `json:"pantry"`
}

// FiltersResponse 篩選條件操作結果
type FiltersResponse struct {
	Notice  *pantry.Notice `json:"notice,omitempty"`
	Filters pantry.Filters `json:"filters"`
}

// HandleAddIngredient 加入食材
func (h *Handler) HandleAddIngredient(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req IngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := s.AddIngredient(req.Name)
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, PantryResponse{Notice: noticeBody(n), Pantry: s.Pantry()})
}

// HandleRemoveIngredient 移除食材
func (h *Handler) HandleRemoveIngredient(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	n, err := s.RemoveIngredient(c.Param("name"))
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, PantryResponse{Notice: noticeBody(n), Pantry: s.Pantry()})
}

// HandleSuggestIngredient 由 AI 推薦並加入一個食材
func (h *Handler) HandleSuggestIngredient(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	n, err := s.SuggestIngredient(c.Request.Context())
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, PantryResponse{Notice: noticeBody(n), Pantry: s.Pantry()})
}

// HandleAutocomplete 食材自動完成
func (h *Handler) HandleAutocomplete(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": s.Autocomplete(c.Query("q"))})
}

// HandlePantryCatalog 依分類列出尚未選擇的食材
func (h *Handler) HandlePantryCatalog(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": s.CatalogByCategory()})
}

// HandleSetFilters 部分更新篩選條件
func (h *Handler) HandleSetFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req pantry.FilterUpdate
	if !bindJSON(c, &req) {
		return
	}

	n, err := s.SetFilters(req)
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, FiltersResponse{Notice: noticeBody(n), Filters: s.Filters()})
}

// HandleClearFilters 重設篩選條件
func (h *Handler) HandleClearFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	n := s.ClearFilters()
	c.JSON(http.StatusOK, FiltersResponse{Notice: noticeBody(n), Filters: s.Filters()})
}

// HandleToggleAllergy 切換過敏原
func (h *Handler) HandleToggleAllergy(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req AllergyRequest
	if !bindJSON(c, &req) {
		return
	}

	filters, err := s.ToggleAllergy(req.Allergen)
	if err != nil {
		respondError(c, err, noNotice)
		return
	}
	c.JSON(http.StatusOK, FiltersResponse{Filters: filters})
}
