package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp"

	"smartpantry/internal/pkg/common"
)

// Processor 驗證並正規化 AI 生成的圖片，輸出統一為 JPEG data URI
type Processor struct {
	maxSizeBytes int64
	client       *resty.Client
}

// NewProcessor 創建圖片處理器
func NewProcessor(maxSizeBytes int64) *Processor {
	return &Processor{
		maxSizeBytes: maxSizeBytes,
		client:       resty.New().SetTimeout(30 * time.Second),
	}
}

// Normalize 接受 data URI、純 base64 或 http(s) URL，返回 data:image/jpeg;base64,...
func (p *Processor) Normalize(ctx context.Context, imageData string) (string, error) {
	imageData = strings.TrimSpace(imageData)
	if imageData == "" {
		return "", common.WithMessage(common.ErrInvalidImageFormat, "image data is empty")
	}

	var raw []byte
	var err error
	switch {
	case strings.HasPrefix(imageData, "http://"), strings.HasPrefix(imageData, "https://"):
		raw, err = p.download(ctx, imageData)
	case strings.HasPrefix(imageData, "data:"):
		raw, err = decodeDataURI(imageData)
	default:
		raw, err = base64.StdEncoding.DecodeString(imageData)
		if err != nil {
			err = common.WrapError(common.ErrInvalidImageFormat, fmt.Errorf("failed to decode base64 data: %w", err))
		}
	}
	if err != nil {
		return "", err
	}

	return p.toJPEGDataURI(raw)
}

func (p *Processor) download(ctx context.Context, url string) ([]byte, error) {
	resp, err := p.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, common.WrapError(common.ErrInvalidImageFormat, fmt.Errorf("failed to download image: %w", err))
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.WrapError(common.ErrInvalidImageFormat, fmt.Errorf("failed to download image: status code %d", resp.StatusCode()))
	}
	return resp.Body(), nil
}

func decodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:image/") {
		return nil, common.WrapError(common.ErrInvalidImageType, fmt.Errorf("not an image data uri"))
	}
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, common.WrapError(common.ErrInvalidImageFormat, fmt.Errorf("invalid base64 data format"))
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, common.WrapError(common.ErrInvalidImageFormat, fmt.Errorf("failed to decode base64 data: %w", err))
	}
	return decoded, nil
}

// toJPEGDataURI 檢查大小與格式，JPEG 原樣保留，其他格式轉為 JPEG
func (p *Processor) toJPEGDataURI(raw []byte) (string, error) {
	if p.maxSizeBytes > 0 && int64(len(raw)) > p.maxSizeBytes {
		return "", common.WrapError(common.ErrInvalidImageSize, fmt.Errorf("image size exceeds maximum limit of %d bytes", p.maxSizeBytes))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", common.WrapError(common.ErrInvalidImageFormat, fmt.Errorf("failed to decode image: %w", err))
	}
	if !isSupportedFormat(format) {
		return "", common.WrapError(common.ErrInvalidImageType, fmt.Errorf("unsupported image format: %s", format))
	}

	if format != "jpeg" {
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return "", common.WrapError(common.ErrInvalidImageFormat, fmt.Errorf("failed to decode image: %w", err))
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
		}
		raw = buf.Bytes()
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}
