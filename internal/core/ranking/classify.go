package ranking

import (
	"net/url"

	"smartpantry/internal/pkg/common"
)

// IngredientStatus 食材在食譜中的狀態
type IngredientStatus string

const (
	StatusMatching IngredientStatus = "matching"
	StatusMissing  IngredientStatus = "missing"
	StatusUnknown  IngredientStatus = "unknown"
)

// Classify 依 AI 回傳的標籤判斷食材狀態，大小寫敏感且不做正規化
func Classify(r common.Recipe, ingredient string) IngredientStatus {
	if common.ContainsString(r.MatchingIngredients, ingredient) {
		return StatusMatching
	}
	if common.ContainsString(r.MissingIngredients, ingredient) {
		return StatusMissing
	}
	return StatusUnknown
}

// AllIngredients 食譜使用的全部食材，先列已有再列缺少，用於烹飪清單
func AllIngredients(r common.Recipe) []string {
	out := make([]string, 0, len(r.MatchingIngredients)+len(r.MissingIngredients))
	out = append(out, r.MatchingIngredients...)
	out = append(out, r.MissingIngredients...)
	return out
}

// DisplayImageURL 有生成圖片時使用生成圖片，否則退回以 imageQuery 搜尋的圖片
func DisplayImageURL(r common.Recipe) string {
	if r.GeneratedImageURL != "" {
		return r.GeneratedImageURL
	}
	return "https://source.unsplash.com/400x300/?" + url.QueryEscape(r.ImageQuery+", food, Tamil Nadu")
}
