// Package catalog 提供固定的食材目錄與篩選選項
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Ingredient 食材目錄項目
type Ingredient struct {
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Category string `json:"category"`
}

// 食材分類
const (
	CategoryVegetables = "Vegetables"
	CategoryStaples    = "Staples"
	CategoryProteins   = "Proteins"
	CategorySpices     = "Spices"
	CategoryOils       = "Oils"
	CategoryOther      = "Other"
)

// CategoryOrder 分組顯示時的分類順序
var CategoryOrder = []string{
	CategoryVegetables,
	CategoryStaples,
	CategoryProteins,
	CategorySpices,
	CategoryOils,
	CategoryOther,
}

// DefaultSearchLimit 自動完成最多返回的筆數
const DefaultSearchLimit = 5

// Group 同一分類下的食材
type Group struct {
	Category    string       `json:"category"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Catalog 不可變的食材目錄
type Catalog struct {
	items  []Ingredient
	folded map[string]int
}

// New 以給定食材創建目錄，名稱重複時保留第一個
func New(items []Ingredient) *Catalog {
	c := &Catalog{
		items:  make([]Ingredient, 0, len(items)),
		folded: make(map[string]int, len(items)),
	}
	for _, it := range items {
		key := c.fold(it.Name)
		if _, exists := c.folded[key]; exists {
			continue
		}
		c.folded[key] = len(c.items)
		c.items = append(c.items, it)
	}
	return c
}

// Default 返回內建的泰米爾納德食材目錄
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = New(tamilNaduIngredients)

// fold 每次建立新的 Caser，Caser 不可跨 goroutine 共用
func (c *Catalog) fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// All 返回所有食材的副本
func (c *Catalog) All() []Ingredient {
	out := make([]Ingredient, len(c.items))
	copy(out, c.items)
	return out
}

// Len 目錄大小
func (c *Catalog) Len() int {
	return len(c.items)
}

// Lookup 以去除空白並忽略大小寫的方式查找食材
func (c *Catalog) Lookup(name string) (Ingredient, bool) {
	idx, ok := c.folded[c.fold(name)]
	if !ok {
		return Ingredient{}, false
	}
	return c.items[idx], true
}

// Search 返回名稱包含 query 的食材（忽略大小寫），排除已選擇的名稱
func (c *Catalog) Search(query string, exclude []string, limit int) []Ingredient {
	q := c.fold(query)
	if q == "" {
		return []Ingredient{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	skip := c.nameSet(exclude)

	out := make([]Ingredient, 0, limit)
	for _, it := range c.items {
		if _, selected := skip[it.Name]; selected {
			continue
		}
		if !strings.Contains(c.fold(it.Name), q) {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Grouped 依分類順序分組尚未選擇的食材，空分類不返回
func (c *Catalog) Grouped(exclude []string) []Group {
	skip := c.nameSet(exclude)
	byCategory := make(map[string][]Ingredient)
	for _, it := range c.items {
		if _, selected := skip[it.Name]; selected {
			continue
		}
		cat := it.Category
		if !isKnownCategory(cat) {
			cat = CategoryOther
		}
		byCategory[cat] = append(byCategory[cat], it)
	}

	groups := make([]Group, 0, len(CategoryOrder))
	for _, cat := range CategoryOrder {
		if items := byCategory[cat]; len(items) > 0 {
			groups = append(groups, Group{Category: cat, Ingredients: items})
		}
	}
	return groups
}

func (c *Catalog) nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func isKnownCategory(cat string) bool {
	for _, known := range CategoryOrder {
		if known == cat {
			return true
		}
	}
	return false
}
