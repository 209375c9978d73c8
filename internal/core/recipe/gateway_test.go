package recipe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartpantry/internal/core/ai/image"
	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/core/ai/service"
	"smartpantry/internal/pkg/common"
)

type stubProvider struct {
	mu       sync.Mutex
	content  string
	err      error
	requests []*provider.Request
}

func (s *stubProvider) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return &provider.Response{Content: s.content}, nil
}

func (s *stubProvider) Stream(_ context.Context, req *provider.Request, on provider.FragmentHandler) (*provider.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	if on != nil {
		if err := on(s.content); err != nil {
			return nil, err
		}
	}
	return &provider.Response{Content: s.content}, nil
}

func (s *stubProvider) GenerateImage(context.Context, string) (string, error) {
	return "", errors.New("no images in this test")
}
func (s *stubProvider) GetModel() string          { return "stub" }
func (s *stubProvider) GetTimeout() time.Duration { return time.Second }
func (s *stubProvider) Close() error              { return nil }

func newGateway(p *stubProvider) *Gateway {
	return NewGateway(service.NewService(p, nil, image.NewProcessor(1<<20)))
}

const validRecipes = "```json\n" + `{"recipes":[
 {"name":"Tomato Rice","description":"Tangy rice","matchingIngredients":["Tomato","Rice"],"missingIngredients":[],
  "nutrition":{"calories":320,"protein":"6g"},"cookingTime":"25 minutes","prepTime":"30 minutes",
  "cookingSteps":["Cook rice","Add tomato"],"imageQuery":"tomato rice","isRecommended":false,"recommendationReason":""},
 {"name":"Onion Thokku","description":"Spicy relish","matchingIngredients":["Onion"],"missingIngredients":[],
  "nutrition":{"calories":180.6,"protein":"2g"},"cookingTime":"15 minutes","prepTime":"10 minutes",
  "cookingSteps":["Fry onion"],"imageQuery":"onion thokku","isRecommended":true,"recommendationReason":"Quick","sourceUrl":" https://example.com/thokku "},
 {"name":"Tomato Rice","description":"duplicate","matchingIngredients":[],"missingIngredients":[],
  "nutrition":{"calories":1,"protein":"1g"},"cookingTime":"","prepTime":"","cookingSteps":[],"imageQuery":"","isRecommended":false,"recommendationReason":""}
]}` + "\n```"

func TestFetchRecipes(t *testing.T) {
	p := &stubProvider{content: validRecipes}
	g := newGateway(p)

	got, err := g.FetchRecipes(context.Background(), common.RecipeQuery{
		Ingredients:  []string{"Tomato", "Onion", "Rice"},
		MealType:     "All Meals",
		CuisineType:  "All Cuisines",
		LanguageCode: "en",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Tomato Rice", got[0].Name)
	assert.Equal(t, []string{"Tomato", "Rice"}, got[0].MatchingIngredients)
	assert.Equal(t, 320, got[0].Nutrition.Calories)
	assert.Equal(t, 181, got[1].Nutrition.Calories)
	assert.True(t, got[1].IsRecommended)
	assert.Equal(t, "https://example.com/thokku", got[1].SourceURL)

	require.Len(t, p.requests, 1)
	req := p.requests[0]
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, "json_schema", req.ResponseFormat.Type)
	assert.Contains(t, req.Messages[0].Content, "Tomato, Onion, Rice")
}

func TestFetchRecipesRejectsInvalidResponses(t *testing.T) {
	tests := map[string]string{
		"not json":        "Sorry, I cannot help",
		"broken json":     `{"recipes":[{"name":}]}`,
		"missing recipes": `{"items":[]}`,
		"missing field":   `{"recipes":[{"name":"A","description":"d","matchingIngredients":[],"missingIngredients":[],"nutrition":{"calories":1,"protein":"1g"},"cookingTime":"1 min","prepTime":"1 min","cookingSteps":[],"imageQuery":"a","recommendationReason":""}]}`,
		"missing protein": `{"recipes":[{"name":"A","description":"d","matchingIngredients":[],"missingIngredients":[],"nutrition":{"calories":1},"cookingTime":"1 min","prepTime":"1 min","cookingSteps":[],"imageQuery":"a","isRecommended":false,"recommendationReason":""}]}`,
		"blank name":      `{"recipes":[{"name":"  ","description":"d","matchingIngredients":[],"missingIngredients":[],"nutrition":{"calories":1,"protein":"1g"},"cookingTime":"1 min","prepTime":"1 min","cookingSteps":[],"imageQuery":"a","isRecommended":false,"recommendationReason":""}]}`,
		"null steps":      `{"recipes":[{"name":"A","description":"d","matchingIngredients":[],"missingIngredients":[],"nutrition":{"calories":1,"protein":"1g"},"cookingTime":"1 min","prepTime":"1 min","cookingSteps":null,"imageQuery":"a","isRecommended":false,"recommendationReason":""}]}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			g := newGateway(&stubProvider{content: content})
			_, err := g.FetchRecipes(context.Background(), common.RecipeQuery{Ingredients: []string{"Rice"}})
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrAIServiceError)
		})
	}
}

func TestFetchRecipesEmptyList(t *testing.T) {
	g := newGateway(&stubProvider{content: `{"recipes":[]}`})
	got, err := g.FetchRecipes(context.Background(), common.RecipeQuery{Ingredients: []string{"Rice"}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchRecipesUnquotedKeys(t *testing.T) {
	content := `{recipes:[{name:"Lemon Rice",description:"Tangy",matchingIngredients:["Rice"],missingIngredients:[],nutrition:{calories:250,protein:"4g"},cookingTime:"15 minutes",prepTime:"5 minutes",cookingSteps:["Mix"],imageQuery:"lemon rice",isRecommended:true,recommendationReason:"Quick"}]}`
	g := newGateway(&stubProvider{content: content})
	got, err := g.FetchRecipes(context.Background(), common.RecipeQuery{Ingredients: []string{"Rice"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lemon Rice", got[0].Name)
	assert.True(t, got[0].IsRecommended)
}

func TestFetchRecipesProviderFailure(t *testing.T) {
	g := newGateway(&stubProvider{err: errors.New("timeout")})
	_, err := g.FetchRecipes(context.Background(), common.RecipeQuery{Ingredients: []string{"Rice"}})
	assert.ErrorIs(t, err, common.ErrAIServiceError)
}

func TestBuildRecipesPrompt(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := BuildRecipesPrompt(common.RecipeQuery{
			Ingredients:        []string{"Rice", "Curd"},
			MealType:           "All Meals",
			DietaryRestriction: "None",
			CuisineType:        "All Cuisines",
			LanguageCode:       "en",
		})
		assert.Contains(t, p, "I have the following ingredients: Rice, Curd.")
		assert.Contains(t, p, "suggest 3 authentic Tamil Nadu style recipes I can make.")
		assert.Contains(t, p, "**English**")
		assert.NotContains(t, p, "allergic")
		assert.NotContains(t, p, "suitable for")
	})

	t.Run("filters", func(t *testing.T) {
		p := BuildRecipesPrompt(common.RecipeQuery{
			Ingredients:        []string{"Chicken"},
			Allergies:          "Peanuts, Dairy",
			MealType:           "Dinner",
			DietaryRestriction: "Non-vegetarian",
			CuisineType:        "Chettinad",
			LanguageCode:       "ta",
		})
		assert.Contains(t, p, "I am allergic to Peanuts, Dairy.")
		assert.Contains(t, p, "suggest 3 Chettinad style Tamil Nadu recipes which are non-vegetarian suitable for Dinner I can make.")
		assert.Contains(t, p, "**தமிழ்**")
	})
}

func TestImagePrompt(t *testing.T) {
	assert.Equal(t,
		"lemon rice, Lemon Rice, Tamil Nadu cuisine, high quality, food photography",
		ImagePrompt(common.Recipe{Name: "Lemon Rice", ImageQuery: "lemon rice"}))
}

func TestSuggestNextIngredient(t *testing.T) {
	t.Run("empty pantry picks a starter without calling AI", func(t *testing.T) {
		p := &stubProvider{}
		g := newGateway(p)
		g.pick = func(n int) int { return n - 1 }

		got, err := g.SuggestNextIngredient(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Ginger", got)
		assert.Empty(t, p.requests)
	})

	t.Run("cleans reply", func(t *testing.T) {
		p := &stubProvider{content: "  'Curry Leaves'. \n"}
		g := newGateway(p)

		got, err := g.SuggestNextIngredient(context.Background(), []string{"Tomato", "Onion"})
		require.NoError(t, err)
		assert.Equal(t, "Curry Leaves", got)
		require.Len(t, p.requests, 1)
		assert.True(t, strings.HasPrefix(p.requests[0].Messages[0].Content, "Based on these ingredients for a Tamil Nadu style dish: [Tomato, Onion]"))
	})

	t.Run("quoted replies", func(t *testing.T) {
		replies := map[string]string{
			`"Garlic".`:     "Garlic",
			`'Garlic.'`:     "Garlic",
			"`Ginger`":      "Ginger",
			"Mustard Seeds": "Mustard Seeds",
		}
		for raw, want := range replies {
			assert.Equal(t, want, cleanSuggestion(raw), raw)
		}
	})

	t.Run("failure", func(t *testing.T) {
		g := newGateway(&stubProvider{err: errors.New("down")})
		_, err := g.SuggestNextIngredient(context.Background(), []string{"Rice"})
		assert.ErrorIs(t, err, common.ErrAIServiceError)
	})
}

func TestChatPassthrough(t *testing.T) {
	g := newGateway(&stubProvider{content: "Use sesame oil."})
	session := g.CreateChatSession("sys")

	var fragments []string
	reply, err := g.StreamReply(context.Background(), session, "Which oil?", func(f string) error {
		fragments = append(fragments, f)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Use sesame oil.", reply)
	assert.Equal(t, []string{"Use sesame oil."}, fragments)
}
