package recipe

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartpantry/internal/pkg/common"
)

// SSE 事件名稱
const (
	eventFragment = "fragment"
	eventDone     = "done"
	eventError    = "error"
)

// ChatMessageRequest 聊天訊息
type ChatMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// HandleOpenChat 打開聊天面板
func (h *Handler) HandleOpenChat(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.OpenChat())
}

// HandleCloseChat 關閉聊天面板
func (h *Handler) HandleCloseChat(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.CloseChat())
}

// HandleGetChat 聊天紀錄
func (h *Handler) HandleGetChat(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Chat())
}

// HandleSendChatMessage 發送訊息並以 SSE 串流回覆
// 串流開始前的錯誤以一般 JSON 錯誤回應，開始後改送 error 事件
func (h *Handler) HandleSendChatMessage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req ChatMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	requestID := requestid.Get(c)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	fragments := 0
	n, err := s.SendChatMessage(c.Request.Context(), req.Text, func(fragment string) {
		fragments++
		c.SSEvent(eventFragment, fragment)
		c.Writer.Flush()
	})
	if err != nil {
		if !c.Writer.Written() {
			respondError(c, err, n)
			return
		}
		ce := common.AsCustomError(err)
		common.LogWarn("聊天串流中斷",
			zap.String("request_id", requestID),
			zap.String("session_id", s.ID),
			zap.Int("fragments", fragments),
			zap.Error(err),
		)
		c.SSEvent(eventError, errorBody{
			ErrorResponse: common.ErrorResponse{Code: ce.Code, Message: ce.Message},
			Notice:        noticeBody(n),
		})
		c.Writer.Flush()
		return
	}

	state := s.Chat()
	c.SSEvent(eventDone, state.Messages[len(state.Messages)-1])
	c.Writer.Flush()
}
