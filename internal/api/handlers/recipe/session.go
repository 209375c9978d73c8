package recipe

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartpantry/internal/core/catalog"
	"smartpantry/internal/pkg/common"
)

// CatalogResponse 食材目錄與篩選選項
type CatalogResponse struct {
	Ingredients []catalog.Ingredient `json:"ingredients"`
	Categories  []string             `json:"categories"`
	Options     catalog.Options      `json:"options"`
}

// CreateSessionRequest 建立會話
type CreateSessionRequest struct {
	ClientID string `json:"client_id"`
}

// HandleCatalog 返回完整食材目錄
func (h *Handler) HandleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, CatalogResponse{
		Ingredients: h.catalog.All(),
		Categories:  catalog.CategoryOrder,
		Options:     catalog.AllOptions(),
	})
}

// HandleCreateSession 建立會話；client_id 相同的會話共用收藏與評分
func (h *Handler) HandleCreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if req.ClientID == "" {
		req.ClientID = c.GetHeader("X-Client-ID")
	}

	s := h.sessions.Create(req.ClientID)
	common.LogDebug("會話已建立",
		zap.String("request_id", requestid.Get(c)),
		zap.String("session_id", s.ID),
	)
	c.JSON(http.StatusCreated, s.Snapshot())
}

// HandleGetSession 返回會話的完整狀態
func (h *Handler) HandleGetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// HandleDeleteSession 結束會話
func (h *Handler) HandleDeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		respondError(c, err, noNotice)
		return
	}
	c.Status(http.StatusNoContent)
}
