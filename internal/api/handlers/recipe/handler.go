package recipe

import (
	"errors"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartpantry/internal/core/catalog"
	"smartpantry/internal/core/pantry"
	"smartpantry/internal/pkg/common"
)

// Handler 會話相關的 HTTP 處理程序
type Handler struct {
	sessions *pantry.Manager
	catalog  *catalog.Catalog
}

// NewHandler 創建處理程序
func NewHandler(sessions *pantry.Manager, cat *catalog.Catalog) *Handler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Handler{sessions: sessions, catalog: cat}
}

var noNotice pantry.Notice

// errorBody 錯誤回應，notice 為給使用者看的提示
type errorBody struct {
	common.ErrorResponse
	Notice *pantry.Notice `json:"notice,omitempty"`
}

// respondError 依 CustomError 的狀態碼回應
func respondError(c *gin.Context, err error, notice pantry.Notice) {
	ce := common.AsCustomError(err)
	fields := []zap.Field{
		zap.String("request_id", requestid.Get(c)),
		zap.String("path", c.FullPath()),
		zap.String("code", ce.Code),
		zap.Error(err),
	}
	if ce.Status >= 500 {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求被拒絕", fields...)
	}

	body := errorBody{ErrorResponse: common.ErrorResponse{Code: ce.Code, Message: ce.Message}}
	if !notice.IsZero() {
		body.Notice = &notice
	}
	c.AbortWithStatusJSON(ce.Status, body)
}

// session 依路徑參數取得會話，失敗時已寫入回應
func (h *Handler) session(c *gin.Context) (*pantry.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, noNotice)
		return nil, false
	}
	return s, true
}

// bindJSON 解析請求體，格式錯誤時回應 400
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, common.WrapError(common.ErrInvalidRequest, err), noNotice)
		return false
	}
	return true
}

// bindOptionalJSON 允許空請求體
func bindOptionalJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, common.WrapError(common.ErrInvalidRequest, err), noNotice)
		return false
	}
	return true
}

// noticeBody 成功回應中附帶的提示
func noticeBody(n pantry.Notice) *pantry.Notice {
	if n.IsZero() {
		return nil
	}
	return &n
}
