// Package favorites 保存使用者收藏的食譜與評分
//
// 所有操作都不返回錯誤：儲存失敗或資料損毀時退化為空結果或不做任何事，並記錄日誌。
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"smartpantry/internal/infrastructure/storage"
	"smartpantry/internal/pkg/common"
)

const (
	savedRecipesKey = "savedRecipes"
	ratingsKey      = "recipeRatings"

	// MinRating 最低評分
	MinRating = 1
	// MaxRating 最高評分
	MaxRating = 5

	opTimeout = 5 * time.Second
)

// Repository 綁定單一命名空間的收藏與評分存取
type Repository struct {
	store     storage.Store
	namespace string
}

// New 創建收藏存取，namespace 通常為客戶端 ID
func New(store storage.Store, namespace string) *Repository {
	return &Repository{store: store, namespace: namespace}
}

func (r *Repository) key(name string) string {
	if r.namespace == "" {
		return name
	}
	return r.namespace + ":" + name
}

func (r *Repository) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// read 讀取並解碼整筆記錄，不存在返回 false
func (r *Repository) read(name string, v interface{}) bool {
	ctx, cancel := r.ctx()
	defer cancel()

	data, err := r.store.Get(ctx, r.key(name))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			common.LogError("讀取收藏資料失敗",
				zap.String("namespace", r.namespace),
				zap.String("key", name),
				zap.Error(err),
			)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		common.LogError("收藏資料格式損毀",
			zap.String("namespace", r.namespace),
			zap.String("key", name),
			zap.Error(err),
		)
		return false
	}
	return true
}

// write 重寫整筆記錄
func (r *Repository) write(name string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		common.LogError("序列化收藏資料失敗", zap.String("key", name), zap.Error(err))
		return
	}

	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.store.Set(ctx, r.key(name), data); err != nil {
		common.LogError("寫入收藏資料失敗",
			zap.String("namespace", r.namespace),
			zap.String("key", name),
			zap.Error(err),
		)
	}
}

// LoadSavedRecipes 讀取收藏的食譜
func (r *Repository) LoadSavedRecipes() []common.Recipe {
	var recipes []common.Recipe
	if !r.read(savedRecipesKey, &recipes) || recipes == nil {
		return []common.Recipe{}
	}
	return recipes
}

// SaveRecipe 收藏食譜，同名食譜已存在時不做任何事
func (r *Repository) SaveRecipe(recipe common.Recipe) {
	saved := r.LoadSavedRecipes()
	for _, s := range saved {
		if s.Name == recipe.Name {
			return
		}
	}
	r.write(savedRecipesKey, append(saved, recipe))
}

// RemoveRecipe 移除收藏，同時移除該食譜的評分
func (r *Repository) RemoveRecipe(name string) {
	saved := r.LoadSavedRecipes()
	kept := make([]common.Recipe, 0, len(saved))
	for _, s := range saved {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	r.write(savedRecipesKey, kept)
	r.RemoveRating(name)
}

// IsRecipeSaved 是否已收藏
func (r *Repository) IsRecipeSaved(name string) bool {
	for _, s := range r.LoadSavedRecipes() {
		if s.Name == name {
			return true
		}
	}
	return false
}

// LoadRatings 讀取所有評分
func (r *Repository) LoadRatings() map[string]int {
	var ratings map[string]int
	if !r.read(ratingsKey, &ratings) || ratings == nil {
		return map[string]int{}
	}
	return ratings
}

// SetRating 設定或更新評分，超出 1 到 5 的值會被忽略
func (r *Repository) SetRating(name string, rating int) {
	if rating < MinRating || rating > MaxRating {
		common.LogWarn("忽略無效的評分", zap.String("recipe", name), zap.Int("rating", rating))
		return
	}
	ratings := r.LoadRatings()
	ratings[name] = rating
	r.write(ratingsKey, ratings)
}

// RemoveRating 移除評分
func (r *Repository) RemoveRating(name string) {
	ratings := r.LoadRatings()
	delete(ratings, name)
	r.write(ratingsKey, ratings)
}
