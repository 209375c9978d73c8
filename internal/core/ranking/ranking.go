// Package ranking 決定食譜的顯示順序：推薦優先，再依準備或烹調時間穩定排序
package ranking

import (
	"sort"
	"strings"

	"smartpantry/internal/pkg/common"
)

// SortKey 排序欄位
type SortKey string

// SortOrder 排序方向
type SortOrder string

const (
	SortNone        SortKey = "none"
	SortPrepTime    SortKey = "prepTime"
	SortCookingTime SortKey = "cookingTime"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortState 排序狀態，跨結果集保留
type SortState struct {
	Key   SortKey   `json:"key"`
	Order SortOrder `json:"order"`
}

// DefaultSortState 預設不排序、升冪
func DefaultSortState() SortState {
	return SortState{Key: SortNone, Order: OrderAsc}
}

// ParseSortState 解析使用者輸入，未知的欄位視為 none，未知的方向視為 asc
func ParseSortState(key, order string) SortState {
	s := DefaultSortState()
	switch strings.TrimSpace(key) {
	case string(SortPrepTime):
		s.Key = SortPrepTime
	case string(SortCookingTime):
		s.Key = SortCookingTime
	}
	if strings.EqualFold(strings.TrimSpace(order), string(OrderDesc)) {
		s.Order = OrderDesc
	}
	return s
}

// Toggle 切換排序方向
func (s SortState) Toggle() SortState {
	if s.Order == OrderDesc {
		s.Order = OrderAsc
	} else {
		s.Order = OrderDesc
	}
	return s
}

func (s SortState) minutes(r common.Recipe) int {
	switch s.Key {
	case SortPrepTime:
		return ParseDurationToMinutes(r.PrepTime)
	case SortCookingTime:
		return ParseDurationToMinutes(r.CookingTime)
	default:
		return 0
	}
}

// Rank 返回排序後的新切片，不修改輸入
// 推薦食譜永遠在前；Key 不為 none 時再依時間排序；相等時保持原順序
func Rank(recipes []common.Recipe, state SortState) []common.Recipe {
	out := common.CloneRecipes(recipes)
	if len(out) < 2 {
		return out
	}

	byTime := state.Key == SortPrepTime || state.Key == SortCookingTime
	var minutes []int
	if byTime {
		minutes = make([]int, len(out))
		for i, r := range out {
			minutes[i] = state.minutes(r)
		}
	}

	// 排序時需同步移動分鐘數
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := out[idx[a]], out[idx[b]]
		if ra.IsRecommended != rb.IsRecommended {
			return ra.IsRecommended
		}
		if !byTime {
			return false
		}
		ma, mb := minutes[idx[a]], minutes[idx[b]]
		if state.Order == OrderDesc {
			return ma > mb
		}
		return ma < mb
	})

	ranked := make([]common.Recipe, len(out))
	for i, j := range idx {
		ranked[i] = out[j]
	}
	return ranked
}
