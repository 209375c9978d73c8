package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aiimage "smartpantry/internal/core/ai/image"
	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/core/ai/service"
	"smartpantry/internal/core/catalog"
	"smartpantry/internal/core/pantry"
	"smartpantry/internal/core/recipe"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/infrastructure/storage"
)

const recipesJSON = `{"recipes":[
 {"name":"Tomato Rice","description":"Tangy rice","matchingIngredients":["Tomato","Rice"],"missingIngredients":["Mustard Seeds"],
  "nutrition":{"calories":320,"protein":"6g"},"cookingTime":"25 minutes","prepTime":"30 minutes",
  "cookingSteps":["Cook rice","Add tomato"],"imageQuery":"tomato rice","isRecommended":false,"recommendationReason":""},
 {"name":"Onion Pulao","description":"Fragrant","matchingIngredients":["Onion","Rice"],"missingIngredients":[],
  "nutrition":{"calories":280,"protein":"5g"},"cookingTime":"20 minutes","prepTime":"10 minutes",
  "cookingSteps":["Fry onion","Add rice"],"imageQuery":"onion pulao","isRecommended":true,"recommendationReason":"Uses everything"},
 {"name":"Onion Tomato Chutney","description":"Side","matchingIngredients":["Onion","Tomato"],"missingIngredients":[],
  "nutrition":{"calories":90,"protein":"1g"},"cookingTime":"15 minutes","prepTime":"20 minutes",
  "cookingSteps":["Grind"],"imageQuery":"chutney","isRecommended":false,"recommendationReason":""}
]}`

type stubProvider struct {
	image string
}

func (s *stubProvider) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	if req.ResponseFormat != nil {
		return &provider.Response{Content: recipesJSON}, nil
	}
	return &provider.Response{Content: "Garlic."}, nil
}

func (s *stubProvider) Stream(_ context.Context, _ *provider.Request, on provider.FragmentHandler) (*provider.Response, error) {
	for _, f := range []string{"Add ", "tamarind."} {
		if err := on(f); err != nil {
			return nil, err
		}
	}
	return &provider.Response{Content: "Add tamarind."}, nil
}

func (s *stubProvider) GenerateImage(context.Context, string) (string, error) {
	return s.image, nil
}
func (s *stubProvider) GetModel() string          { return "stub" }
func (s *stubProvider) GetTimeout() time.Duration { return time.Second }
func (s *stubProvider) Close() error              { return nil }

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testConfig() *config.Config {
	return &config.Config{
		App:         config.AppConfig{Version: "test", Env: "test"},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 16},
		OpenRouter:  config.OpenRouterConfig{Model: "stub"},
		RateLimit:   config.RateLimitConfig{Enabled: false},
		Storage:     config.StorageConfig{Driver: "memory"},
		DedupWindow: time.Nanosecond,
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	aiService := service.NewService(&stubProvider{image: pngDataURI(t)}, nil, aiimage.NewProcessor(1<<20))
	store := storage.NewMemoryStore()
	sessions := pantry.NewManager(recipe.NewGateway(aiService), pantry.Options{
		Store:        store,
		ImageWorkers: 2,
		Chat:         pantry.ChatOptions{SystemPrompt: "help", Greeting: "Hello!"},
	})
	t.Cleanup(sessions.Close)

	return SetupRouter(testConfig(), Dependencies{
		Sessions:   sessions,
		Catalog:    catalog.Default(),
		Store:      store,
		CacheStats: aiService.CacheStats,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/v1/sessions", map[string]string{"client_id": "browser-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap pantry.Snapshot
	decode(t, w, &snap)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, "browser-1", snap.ClientID)
	return snap.ID
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/live", nil).Code)

	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestCatalogEndpoint(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Ingredients []catalog.Ingredient `json:"ingredients"`
		Options     catalog.Options      `json:"options"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Ingredients, catalog.Default().Len())
	assert.Contains(t, body.Options.MealTypes, "Dinner")
}

func TestUnknownSession(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api/v1/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "SESSION_NOT_FOUND", body["code"])
}

func TestRecipeFlow(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h)
	base := "/api/v1/sessions/" + id

	// 沒有食材時不送出請求
	w := do(t, h, http.MethodPost, base+"/recipes", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errBody map[string]interface{}
	decode(t, w, &errBody)
	assert.Equal(t, "INVALID_REQUEST", errBody["code"])
	notice := errBody["notice"].(map[string]interface{})
	assert.Equal(t, "info", notice["type"])

	for _, name := range []string{"tomato", "Onion", "Rice"} {
		w = do(t, h, http.MethodPost, base+"/pantry", map[string]string{"name": name})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w = do(t, h, http.MethodPost, base+"/pantry", map[string]string{"name": "Dragon Fruit"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, base+"/pantry/suggest", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `Added \"Garlic\" to your pantry!`)

	w = do(t, h, http.MethodGet, base+"/pantry/autocomplete?q=gar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"Garlic"`)

	w = do(t, h, http.MethodPut, base+"/sort", map[string]string{"key": "prepTime", "order": "asc"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, base+"/recipes?wait_images=true", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var found struct {
		Notice  pantry.Notice       `json:"notice"`
		Recipes []pantry.RecipeCard `json:"recipes"`
	}
	decode(t, w, &found)
	assert.Equal(t, "Found 3 delicious recipes!", found.Notice.Message)
	require.Len(t, found.Recipes, 3)
	assert.Equal(t, "Onion Pulao", found.Recipes[0].Name)
	assert.Equal(t, "Onion Tomato Chutney", found.Recipes[1].Name)
	assert.Equal(t, "Tomato Rice", found.Recipes[2].Name)
	for _, r := range found.Recipes {
		assert.True(t, strings.HasPrefix(r.GeneratedImageURL, "data:image/jpeg;base64,"), r.Name)
	}

	w = do(t, h, http.MethodGet, base+"/recipes?sort=cookingTime&order=desc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &found)
	assert.Equal(t, "Onion Pulao", found.Recipes[0].Name)
	assert.Equal(t, "Tomato Rice", found.Recipes[1].Name)

	w = do(t, h, http.MethodPost, base+"/saved", map[string]string{"name": "Tomato Rice"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodPut, base+"/ratings/Tomato%20Rice", map[string]int{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, http.MethodPut, base+"/ratings/Tomato%20Rice", map[string]int{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, base+"/ratings", nil)
	assert.JSONEq(t, `{"ratings":{"Tomato Rice":5}}`, w.Body.String())

	w = do(t, h, http.MethodPost, base+"/cooking", map[string]string{"name": "Tomato Rice"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodPost, base+"/cooking/checklist", map[string]string{"ingredient": "Mustard Seeds"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"checked":true`)
	w = do(t, h, http.MethodDelete, base+"/cooking", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodDelete, base+"/saved/Tomato%20Rice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodGet, base+"/ratings", nil)
	assert.JSONEq(t, `{"ratings":{}}`, w.Body.String())

	w = do(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestFilters(t *testing.T) {
	h := newTestRouter(t)
	base := "/api/v1/sessions/" + createSession(t, h)

	w := do(t, h, http.MethodPut, base+"/filters", map[string]string{"meal_type": "Dinner", "language": "ta"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"meal_type":"Dinner"`)

	w = do(t, h, http.MethodPut, base+"/filters", map[string]string{"language": "xx"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, base+"/filters/allergies", map[string]string{"allergen": "Peanuts"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allergies":"Peanuts"`)

	w = do(t, h, http.MethodDelete, base+"/filters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "All filters cleared.")
	assert.Contains(t, w.Body.String(), `"language":"en"`)
}

func TestChatStream(t *testing.T) {
	h := newTestRouter(t)
	base := "/api/v1/sessions/" + createSession(t, h)

	w := do(t, h, http.MethodPost, base+"/chat/messages", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPost, base+"/chat/open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello!")

	w = do(t, h, http.MethodPost, base+"/chat/messages", map[string]string{"text": "How do I make rasam sour?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	var events []string
	scanner := bufio.NewScanner(strings.NewReader(w.Body.String()))
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "event:") {
			events = append(events, strings.TrimSpace(strings.TrimPrefix(line, "event:")))
		}
	}
	assert.Equal(t, []string{"fragment", "fragment", "done"}, events)

	w = do(t, h, http.MethodGet, base+"/chat", nil)
	var state pantry.ChatState
	decode(t, w, &state)
	require.Len(t, state.Messages, 3)
	assert.Equal(t, "Add tamarind.", state.Messages[2].Text)
}
