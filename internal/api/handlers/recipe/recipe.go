package recipe

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartpantry/internal/core/pantry"
	"smartpantry/internal/core/ranking"
	"smartpantry/internal/pkg/common"
)

// SortRequest 設定排序
type SortRequest struct {
	Key   string `json:"key"`
	Order string `json:"order"`
}

// RecipesResponse 食譜列表
type RecipesResponse struct {
	Notice  *pantry.Notice      `json:"notice,omitempty"`
	Sort    ranking.SortState   `json:"sort"`
	Recipes []pantry.RecipeCard `json:"recipes"`
}

// HandleFindRecipes 以目前食材與條件搜尋食譜
// wait_images=true 時等所有圖片完成才回應
func (h *Handler) HandleFindRecipes(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	requestID := requestid.Get(c)

	common.LogInfo("開始搜尋食譜",
		zap.String("request_id", requestID),
		zap.String("session_id", s.ID),
	)

	n, err := s.FindRecipes(c.Request.Context())
	if err != nil {
		respondError(c, err, n)
		return
	}

	if wait, _ := strconv.ParseBool(c.Query("wait_images")); wait {
		if err := s.WaitForImages(c.Request.Context()); err != nil {
			common.LogWarn("等待圖片逾時，返回部分結果",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusOK, RecipesResponse{
		Notice:  noticeBody(n),
		Sort:    s.SortState(),
		Recipes: s.Results(),
	})
}

// HandleGetRecipes 返回目前結果集；帶 sort/order 時只影響本次回應
func (h *Handler) HandleGetRecipes(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	state := s.SortState()
	if key, has := c.GetQuery("sort"); has {
		state = ranking.ParseSortState(key, c.Query("order"))
	}
	c.JSON(http.StatusOK, RecipesResponse{Sort: state, Recipes: s.ResultsSortedBy(state)})
}

// HandleSetSort 設定會話的排序
func (h *Handler) HandleSetSort(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req SortRequest
	if !bindJSON(c, &req) {
		return
	}

	state := s.SetSort(req.Key, req.Order)
	c.JSON(http.StatusOK, RecipesResponse{Sort: state, Recipes: s.Results()})
}

// HandleToggleSort 切換升降冪
func (h *Handler) HandleToggleSort(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	state := s.ToggleSortOrder()
	c.JSON(http.StatusOK, RecipesResponse{Sort: state, Recipes: s.Results()})
}
