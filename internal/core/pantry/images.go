package pantry

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"smartpantry/internal/core/recipe"
	"smartpantry/internal/infrastructure/monitoring"
	"smartpantry/internal/pkg/common"
)

// imageFanout 以有上限的工作池為每個食譜生成圖片
// 工作之間互不影響，生命週期脫離 HTTP 請求
type imageFanout struct {
	ctx     context.Context
	gateway Gateway
	workers int
}

func newImageFanout(ctx context.Context, gateway Gateway, workers int) *imageFanout {
	if workers <= 0 {
		workers = 1
	}
	return &imageFanout{ctx: ctx, gateway: gateway, workers: workers}
}

// start 背景生成圖片，返回的 channel 在全部完成後關閉
func (f *imageFanout) start(s *Session, generation uint64, recipes []common.Recipe) chan struct{} {
	done := make(chan struct{})
	jobs := common.CloneRecipes(recipes)

	go func() {
		defer close(done)

		p := pool.New().WithMaxGoroutines(f.workers)
		for _, r := range jobs {
			r := r
			p.Go(func() {
				f.generate(s, generation, r)
			})
		}
		p.Wait()
	}()
	return done
}

func (f *imageFanout) generate(s *Session, generation uint64, r common.Recipe) {
	uri, err := f.gateway.GenerateImage(f.ctx, recipe.ImagePrompt(r))
	monitoring.ObserveRecipeImage(err)
	if err != nil {
		common.LogWarn("Recipe image generation failed",
			zap.String("session_id", s.ID),
			zap.String("recipe", r.Name),
			zap.Error(err),
		)
		return
	}
	if !s.attachImage(generation, r.Name, uri) {
		common.LogDebug("Discarded image for stale result set",
			zap.String("session_id", s.ID),
			zap.String("recipe", r.Name),
		)
	}
}
