package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartpantry/internal/core/pantry"
)

// RecipeNameRequest 以名稱指定食譜
type RecipeNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// RatingRequest 評分
type RatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// NoticeResponse 只有提示的回應
type NoticeResponse struct {
	Notice *pantry.Notice `json:"notice,omitempty"`
}

// HandleListSaved 已收藏的食譜
func (h *Handler) HandleListSaved(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": s.SavedRecipes()})
}

// HandleSaveRecipe 收藏食譜
func (h *Handler) HandleSaveRecipe(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req RecipeNameRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := s.SaveRecipe(req.Name)
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, NoticeResponse{Notice: noticeBody(n)})
}

// HandleRemoveSaved 取消收藏
func (h *Handler) HandleRemoveSaved(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	n, err := s.RemoveSavedRecipe(c.Param("name"))
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, NoticeResponse{Notice: noticeBody(n)})
}

// HandleListRatings 所有評分
func (h *Handler) HandleListRatings(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": s.Ratings()})
}

// HandleRateRecipe 為食譜評分
func (h *Handler) HandleRateRecipe(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req RatingRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := s.RateRecipe(c.Param("name"), req.Rating)
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, NoticeResponse{Notice: noticeBody(n)})
}
