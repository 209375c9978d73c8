package openrouter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	streamDone     = "[DONE]"
	maxSSELineSize = 1 << 20
)

// Client OpenRouter API 客戶端
type Client struct {
	cfg    provider.Config
	client *resty.Client
}

var _ provider.Provider = (*Client)(nil)

// chatRequest 表示 API 請求
type chatRequest struct {
	Model          string                   `json:"model"`
	Messages       []provider.Message       `json:"messages"`
	MaxTokens      int                      `json:"max_tokens,omitempty"`
	Temperature    float64                  `json:"temperature,omitempty"`
	Stream         bool                     `json:"stream,omitempty"`
	ResponseFormat *provider.ResponseFormat `json:"response_format,omitempty"`
	Modalities     []string                 `json:"modalities,omitempty"`
}

// chatResponse OpenRouter 響應結構
type chatResponse struct {
	ID      string         `json:"id"`
	Choices []choice       `json:"choices"`
	Usage   provider.Usage `json:"usage"`
	Error   *apiError      `json:"error,omitempty"`
}

type choice struct {
	Message      responseMessage `json:"message"`
	Delta        responseMessage `json:"delta"`
	FinishReason string          `json:"finish_reason"`
}

type responseMessage struct {
	Role    string          `json:"role"`
	Content string          `json:"content"`
	Images  []responseImage `json:"images,omitempty"`
}

type responseImage struct {
	Type     string `json:"type"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url"`
}

// apiError 表示 API 錯誤
type apiError struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Code    interface{} `json:"code"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg provider.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+cfg.APIKey)
	if cfg.Referer != "" {
		client.SetHeader("HTTP-Referer", cfg.Referer)
	}
	if cfg.Title != "" {
		client.SetHeader("X-Title", cfg.Title)
	}

	return &Client{cfg: cfg, client: client}
}

// GetModel 文字模型名稱
func (c *Client) GetModel() string {
	return c.cfg.Model
}

// GetTimeout 請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) checkConfigured() error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return common.ErrAINotConfigured
	}
	return nil
}

func (c *Client) buildRequest(req *provider.Request) *chatRequest {
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}
	return &chatRequest{
		Model:          model,
		Messages:       req.Messages,
		MaxTokens:      maxTokens,
		Temperature:    req.Temperature,
		ResponseFormat: req.ResponseFormat,
	}
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	body := c.buildRequest(req)
	parsed, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		common.LogError("Empty content in AI service response", zap.String("model", body.Model))
		return nil, fmt.Errorf("empty content in response")
	}

	common.LogDebug("Successfully generated response from AI service",
		zap.String("model", body.Model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", parsed.Usage.TotalTokens),
	)

	return &provider.Response{Content: content, Usage: parsed.Usage}, nil
}

// GenerateImage 以支援圖片輸出的模型生成圖片
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := c.checkConfigured(); err != nil {
		return "", err
	}

	body := &chatRequest{
		Model: c.cfg.ImageModel,
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: prompt},
		},
		Modalities: []string{"image", "text"},
	}

	parsed, err := c.post(ctx, body)
	if err != nil {
		return "", err
	}

	for _, img := range parsed.Choices[0].Message.Images {
		if img.ImageURL.URL != "" {
			return img.ImageURL.URL, nil
		}
	}
	common.LogError("No image in AI service response", zap.String("model", body.Model))
	return "", fmt.Errorf("no image in response")
}

// post 發送非串流請求並解析響應，保證至少一個 choice
func (c *Client) post(ctx context.Context, body *chatRequest) (*chatResponse, error) {
	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
		zap.Bool("structured", body.ResponseFormat != nil),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		common.LogError("Failed to send request to AI service",
			zap.Error(err),
			zap.String("model", body.Model),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		sanitized := sanitizeResponse(resp.Body())
		common.LogError("AI service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", body.Model),
			zap.String("response", sanitized),
		)
		return nil, fmt.Errorf("AI service error (status %d): %s", resp.StatusCode(), sanitized)
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		common.LogError("Failed to parse AI service response",
			zap.Error(err),
			zap.String("model", body.Model),
			zap.String("response", sanitizeResponse(resp.Body())),
		)
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("AI service error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		common.LogError("Empty choices in AI service response", zap.String("model", body.Model))
		return nil, fmt.Errorf("empty choices in response")
	}
	return &parsed, nil
}

// Stream 以 SSE 串流生成回應
func (c *Client) Stream(ctx context.Context, req *provider.Request, onFragment provider.FragmentHandler) (*provider.Response, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	body := c.buildRequest(req)
	body.Stream = true

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetDoNotParseResponse(true).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		common.LogError("Failed to open AI stream", zap.Error(err), zap.String("model", body.Model))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.StatusCode() != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(raw, 64*1024))
		sanitized := sanitizeResponse(data)
		common.LogError("AI stream returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", body.Model),
			zap.String("response", sanitized),
		)
		return nil, fmt.Errorf("AI service error (status %d): %s", resp.StatusCode(), sanitized)
	}

	var full strings.Builder
	var usage provider.Usage
	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// 空行分隔事件，冒號開頭為註解（keep-alive）
		if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == streamDone {
			return &provider.Response{Content: full.String(), Usage: usage}, nil
		}

		var chunk chatResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			common.LogWarn("Skipping malformed stream chunk", zap.Error(err))
			continue
		}
		if chunk.Error != nil {
			return nil, fmt.Errorf("AI stream error: %s", chunk.Error.Message)
		}
		if chunk.Usage.TotalTokens > 0 {
			usage = chunk.Usage
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		fragment := chunk.Choices[0].Delta.Content
		if fragment == "" {
			continue
		}
		full.WriteString(fragment)
		if onFragment != nil {
			if err := onFragment(fragment); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	// 部分供應商不送 [DONE]，EOF 亦視為結束
	if full.Len() == 0 {
		return nil, fmt.Errorf("stream ended without content")
	}
	return &provider.Response{Content: full.String(), Usage: usage}, nil
}

// sanitizeResponse 清理響應內容，移除所有圖片數據後用於日誌
func sanitizeResponse(body []byte) string {
	text := string(body)
	if strings.Contains(text, "data:image/") {
		return "[IMAGE_DATA_REMOVED]"
	}
	if len(body) > 100 && strings.Contains(text, "base64") {
		return "[BASE64_DATA_REMOVED]"
	}
	return common.TruncateString(text, 512)
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
