package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartpantry/internal/core/pantry"
)

// ChecklistRequest 勾選清單中的食材
type ChecklistRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
}

// CookingResponse 烹調畫面
type CookingResponse struct {
	Notice  *pantry.Notice       `json:"notice,omitempty"`
	View    pantry.View          `json:"view"`
	Cooking *pantry.CookingState `json:"cooking,omitempty"`
}

// HandleStartCooking 進入烹調畫面
func (h *Handler) HandleStartCooking(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req RecipeNameRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := s.StartCooking(req.Name)
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, CookingResponse{Notice: noticeBody(n), View: pantry.ViewCooking, Cooking: s.Cooking()})
}

// HandleStopCooking 回到食譜列表
func (h *Handler) HandleStopCooking(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	n := s.BackToRecipes()
	c.JSON(http.StatusOK, CookingResponse{Notice: noticeBody(n), View: pantry.ViewMain})
}

// HandleToggleChecklist 勾選或取消清單項目
func (h *Handler) HandleToggleChecklist(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req ChecklistRequest
	if !bindJSON(c, &req) {
		return
	}

	state, err := s.ToggleChecklist(req.Ingredient)
	if err != nil {
		respondError(c, err, noNotice)
		return
	}
	c.JSON(http.StatusOK, CookingResponse{View: pantry.ViewCooking, Cooking: state})
}

// HandleMarkCooked 標記食譜已完成
func (h *Handler) HandleMarkCooked(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req RecipeNameRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := s.MarkCooked(req.Name)
	if err != nil {
		respondError(c, err, n)
		return
	}
	c.JSON(http.StatusOK, NoticeResponse{Notice: noticeBody(n)})
}
