package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"recetario/internal/pantry"
	"recetario/internal/recipe"
	"recetario/internal/user"
)

// mockRecipeStore is an in-memory RecipeStore.
type mockRecipeStore struct {
	recipes     map[int64]*recipe.Recipe
	favourites  map[int64]map[int64]bool
	types       []recipe.Type
	ingredients []recipe.Ingredient
	nextID      int64
	err         error
}

func newMockRecipeStore() *mockRecipeStore {
	return &mockRecipeStore{
		recipes:    make(map[int64]*recipe.Recipe),
		favourites: make(map[int64]map[int64]bool),
		nextID:     100,
	}
}

func (m *mockRecipeStore) GetRecipe(ctx context.Context, id int64) (*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recipes[id], nil
}

func (m *mockRecipeStore) visible(userID int64) []*recipe.Recipe {
	var out []*recipe.Recipe
	for _, r := range m.recipes {
		if r.Visible(userID, m.favourites[userID][r.ID]) {
			out = append(out, r)
		}
	}
	return out
}

func (m *mockRecipeStore) VisibleRecipes(ctx context.Context, userID int64) ([]*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.visible(userID), nil
}

func (m *mockRecipeStore) FilterByIngredients(ctx context.Context, userID int64, ingredientIDs []int64) ([]*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	wanted := make(map[int64]bool)
	for _, id := range ingredientIDs {
		wanted[id] = true
	}
	var out []*recipe.Recipe
	for _, r := range m.visible(userID) {
		for _, q := range r.Ingredients {
			if wanted[q.IngredientID] {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *mockRecipeStore) FilterByName(ctx context.Context, userID int64, lang, name string) ([]*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*recipe.Recipe
	for _, r := range m.visible(userID) {
		for _, tr := range r.Translations {
			if tr.Language == lang && strings.Contains(strings.ToLower(tr.Name), strings.ToLower(name)) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *mockRecipeStore) FilterByType(ctx context.Context, userID int64, lang, typeName string) ([]*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*recipe.Recipe
	for _, r := range m.visible(userID) {
		for _, t := range r.Types {
			for _, tr := range t.Translations {
				if tr.Language == lang && strings.EqualFold(tr.Name, typeName) {
					out = append(out, r)
				}
			}
		}
	}
	return out, nil
}

func (m *mockRecipeStore) FavouriteRecipes(ctx context.Context, userID int64) ([]*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*recipe.Recipe
	for id := range m.favourites[userID] {
		if r, ok := m.recipes[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRecipeStore) CreatedRecipes(ctx context.Context, userID int64) ([]*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*recipe.Recipe
	for _, r := range m.recipes {
		if r.CreatorID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRecipeStore) PublicRecipesOf(ctx context.Context, creatorID int64) ([]*recipe.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*recipe.Recipe{}
	for _, r := range m.recipes {
		if r.CreatorID == creatorID && !r.IsPrivate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRecipeStore) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	r.ID = m.nextID
	m.recipes[r.ID] = r
	return nil
}

func (m *mockRecipeStore) UpdateRecipe(ctx context.Context, r *recipe.Recipe) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.recipes[r.ID]; !ok {
		return recipe.ErrNotFound
	}
	m.recipes[r.ID] = r
	return nil
}

func (m *mockRecipeStore) DeleteRecipe(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.recipes[id]; !ok {
		return recipe.ErrNotFound
	}
	delete(m.recipes, id)
	return nil
}

func (m *mockRecipeStore) SetPrivate(ctx context.Context, id int64, private bool) error {
	if m.err != nil {
		return m.err
	}
	r, ok := m.recipes[id]
	if !ok {
		return recipe.ErrNotFound
	}
	r.IsPrivate = private
	return nil
}

func (m *mockRecipeStore) SetImagePath(ctx context.Context, id int64, path string) error {
	if m.err != nil {
		return m.err
	}
	r, ok := m.recipes[id]
	if !ok {
		return recipe.ErrNotFound
	}
	r.ImagePath = path
	return nil
}

func (m *mockRecipeStore) IsFavourite(ctx context.Context, userID, recipeID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.favourites[userID][recipeID], nil
}

func (m *mockRecipeStore) AddFavourite(ctx context.Context, userID, recipeID int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.recipes[recipeID]; !ok {
		return recipe.ErrNotFound
	}
	if m.favourites[userID][recipeID] {
		return recipe.ErrDuplicate
	}
	if m.favourites[userID] == nil {
		m.favourites[userID] = make(map[int64]bool)
	}
	m.favourites[userID][recipeID] = true
	return nil
}

func (m *mockRecipeStore) RemoveFavourite(ctx context.Context, userID, recipeID int64) error {
	if m.err != nil {
		return m.err
	}
	if !m.favourites[userID][recipeID] {
		return recipe.ErrNotFound
	}
	delete(m.favourites[userID], recipeID)
	return nil
}

func (m *mockRecipeStore) ListTypes(ctx context.Context) ([]recipe.Type, error) {
	return m.types, m.err
}

func (m *mockRecipeStore) ListIngredients(ctx context.Context) ([]recipe.Ingredient, error) {
	return m.ingredients, m.err
}

func (m *mockRecipeStore) UITranslations(ctx context.Context, language string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return map[string]string{"greeting": "hola"}, nil
}

// mockPantryStore is an in-memory PantryStore.
type mockPantryStore struct {
	entries map[int64]map[int64]pantry.Entry
	known   map[int64]bool
	err     error
}

func newMockPantryStore() *mockPantryStore {
	return &mockPantryStore{
		entries: make(map[int64]map[int64]pantry.Entry),
		known:   make(map[int64]bool),
	}
}

func (m *mockPantryStore) List(ctx context.Context, userID int64, lang string) ([]pantry.Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []pantry.Entry
	for _, e := range m.entries[userID] {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockPantryStore) Map(ctx context.Context, userID int64) (map[int64]recipe.PantryQuantity, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]recipe.PantryQuantity)
	for id, e := range m.entries[userID] {
		out[id] = recipe.PantryQuantity{Quantity: e.Quantity, Unit: e.Unit}
	}
	return out, nil
}

func (m *mockPantryStore) Add(ctx context.Context, userID, ingredientID int64, quantity float64, unit string) error {
	if m.err != nil {
		return m.err
	}
	if !m.known[ingredientID] {
		return pantry.ErrIngredientGone
	}
	if _, ok := m.entries[userID][ingredientID]; ok {
		return pantry.ErrDuplicate
	}
	if m.entries[userID] == nil {
		m.entries[userID] = make(map[int64]pantry.Entry)
	}
	m.entries[userID][ingredientID] = pantry.Entry{IngredientID: ingredientID, Quantity: quantity, Unit: unit}
	return nil
}

func (m *mockPantryStore) Update(ctx context.Context, userID, ingredientID int64, quantity *float64, unit *string) error {
	if m.err != nil {
		return m.err
	}
	e, ok := m.entries[userID][ingredientID]
	if !ok {
		return pantry.ErrNotFound
	}
	if quantity != nil {
		e.Quantity = *quantity
	}
	if unit != nil {
		e.Unit = *unit
	}
	m.entries[userID][ingredientID] = e
	return nil
}

func (m *mockPantryStore) Remove(ctx context.Context, userID, ingredientID int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.entries[userID][ingredientID]; !ok {
		return pantry.ErrNotFound
	}
	delete(m.entries[userID], ingredientID)
	return nil
}

func (m *mockPantryStore) RemoveAll(ctx context.Context, userID int64) error {
	if m.err != nil {
		return m.err
	}
	delete(m.entries, userID)
	return nil
}

// mockUserStore is an in-memory UserStore.
type mockUserStore struct {
	users  map[int64]*user.User
	tokens map[string]bool
	nextID int64
	err    error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users:  make(map[int64]*user.User),
		tokens: make(map[string]bool),
	}
}

func (m *mockUserStore) Create(ctx context.Context, name, email, passwordHash string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return nil, user.ErrEmailTaken
		}
	}
	m.nextID++
	u := &user.User{ID: m.nextID, Name: name, Email: email, PasswordHash: passwordHash}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserStore) ByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) ByID(ctx context.Context, id int64) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[id], nil
}

func (m *mockUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.ByEmail(ctx, email)
	return u != nil, err
}

func (m *mockUserStore) SaveToken(ctx context.Context, userID int64, tokenID string) error {
	if m.err != nil {
		return m.err
	}
	m.tokens[tokenID] = true
	return nil
}

func (m *mockUserStore) TokenValid(ctx context.Context, tokenID string) (bool, error) {
	return m.tokens[tokenID], m.err
}

func (m *mockUserStore) RevokeTokens(ctx context.Context, userID int64) error {
	if m.err != nil {
		return m.err
	}
	m.tokens = make(map[string]bool)
	return nil
}

// mockImageStorage records the Save call and returns a fixed path.
type mockImageStorage struct {
	savedBytes int
	err        error
}

func (m *mockImageStorage) Save(data []byte, extension string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.savedBytes = len(data)
	return "images/saved" + extension, nil
}

type testEnv struct {
	handler *Handler
	recipes *mockRecipeStore
	pantry  *mockPantryStore
	users   *mockUserStore
	images  *mockImageStorage
	router  *gin.Engine
	user    *user.User
}

// newTestEnv wires the handler against in-memory stores and a router whose
// auth middleware is replaced by direct injection of a fixed current user.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		recipes: newMockRecipeStore(),
		pantry:  newMockPantryStore(),
		users:   newMockUserStore(),
		images:  &mockImageStorage{},
		user:    &user.User{ID: 1, Name: "Ana", Email: "ana@example.com"},
	}
	env.users.users[1] = env.user
	env.users.nextID = 1

	env.handler = NewHandler(env.recipes, env.pantry, env.users, env.images, "http://localhost:8080", []byte("test-secret"))

	r := gin.New()
	r.POST("/register", env.handler.Register)
	r.POST("/login", env.handler.Login)

	authed := r.Group("/", func(c *gin.Context) {
		c.Set(userKey, env.user)
		c.Next()
	})
	authed.POST("/recipes/filter-by-ingredient", env.handler.FilterByIngredient)
	authed.POST("/recipes/byName", env.handler.RecipesByName)
	authed.POST("/recipes/byType", env.handler.RecipesByType)
	authed.POST("/recipes/available", env.handler.AvailableRecipes)
	authed.POST("/user/allRecipes", env.handler.AllRecipes)
	authed.POST("/user/yourRecipes", env.handler.YourRecipes)
	authed.POST("/user/favourites", env.handler.FavouritesList)
	authed.POST("/recipes", env.handler.CreateRecipe)
	authed.GET("/recipes/:id", env.handler.GetRecipe)
	authed.PUT("/recipes/:id", env.handler.UpdateRecipe)
	authed.DELETE("/recipes/:id", env.handler.DeleteRecipe)
	authed.POST("/recipes/:id/private", env.handler.MakePrivate)
	authed.POST("/recipes/:id/public", env.handler.MakePublic)
	authed.POST("/recipes/:id/favourite", env.handler.AddFavourite)
	authed.DELETE("/recipes/:id/favourite", env.handler.RemoveFavourite)
	authed.GET("/user/:id/public-recipes", env.handler.PublicRecipes)
	authed.GET("/ingredients", env.handler.PantryIndex)
	authed.POST("/ingredients", env.handler.PantryAdd)
	authed.PUT("/ingredients/:id", env.handler.PantryUpdate)
	authed.DELETE("/ingredients/:id", env.handler.PantryRemove)
	authed.DELETE("/ingredients", env.handler.PantryClear)

	env.router = r
	return env
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func tortilla(creatorID int64, private bool) *recipe.Recipe {
	return &recipe.Recipe{
		ID:        7,
		CreatorID: creatorID,
		IsPrivate: private,
		Translations: []recipe.Translation{
			{Language: "es", Name: "Tortilla", Description: "Clásica"},
			{Language: "en", Name: "Omelette", Description: "Classic"},
		},
		Types: []recipe.Type{
			{ID: 1, Translations: []recipe.TypeTranslation{{Language: "es", Name: "Cena"}}},
		},
		Ingredients: []recipe.IngredientQuantity{
			{IngredientID: 1, Name: "egg", Quantity: 3, Unit: "units"},
			{IngredientID: 2, Name: "salt", Quantity: 0, Unit: "taste"},
		},
	}
}

func TestRegisterValidationReportsEveryField(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/register", gin.H{"email": "not-an-email", "password": "short"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeJSON(t, w)
	errs, ok := body["errors"].(map[string]any)
	if assert.True(t, ok) {
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/register", gin.H{"name": "Ana", "email": "ana@example.com", "password": "supersecret"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRegisterIssuesToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/register", gin.H{"name": "Ben", "email": "ben@example.com", "password": "supersecret"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	assert.Len(t, env.users.tokens, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	w := env.do("POST", "/register", gin.H{"name": "Ben", "email": "ben@example.com", "password": "supersecret"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do("POST", "/login", gin.H{"email": "ben@example.com", "password": "wrong password"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "passwordUserMismatch", decodeJSON(t, w)["message"])
}

func TestLoginMissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/login", gin.H{"email": "", "password": ""})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decodeJSON(t, w)["message"])
}

func TestGetRecipeNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/recipes/99?lang=en", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Recipe not found.", decodeJSON(t, w)["error"])
}

func TestGetRecipeForbiddenForOthersPrivate(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(2, true)

	w := env.do("GET", "/recipes/7?lang=es", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "No tienes permiso para hacer esto.", decodeJSON(t, w)["error"])
}

func TestGetRecipeFavouritedPrivateIsVisible(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(2, true)
	env.recipes.favourites[1] = map[int64]bool{7: true}

	w := env.do("GET", "/recipes/7?lang=en", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Omelette", body["name"])
	assert.Equal(t, true, body["is_favourite"])
	assert.Equal(t, "Missing ingredients", body["ingredients_match"])
}

func TestGetRecipeEmbedsPantryMatch(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(1, false)
	env.pantry.known[1] = true
	env.pantry.entries[1] = map[int64]pantry.Entry{
		1: {IngredientID: 1, Quantity: 12, Unit: "units"},
	}

	w := env.do("GET", "/recipes/7?lang=en", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You can make it", decodeJSON(t, w)["ingredients_match"])
}

func TestFilterByIngredientRequiresIngredients(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/recipes/filter-by-ingredient", gin.H{"lang": "es", "ingredients": []int64{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Debes proporcionar al menos un ingrediente.", decodeJSON(t, w)["error"])
}

func TestFilterByIngredientNoMatchesIs404(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(1, false)

	w := env.do("POST", "/recipes/filter-by-ingredient", gin.H{"lang": "en", "ingredients": []int64{999}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No recipes found with those ingredients.", decodeJSON(t, w)["error"])
}

func TestFilterByIngredientReturnsSummaries(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(1, false)

	w := env.do("POST", "/recipes/filter-by-ingredient", gin.H{"lang": "en", "ingredients": []int64{1}})

	assert.Equal(t, http.StatusOK, w.Code)
	var summaries []map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	if assert.Len(t, summaries, 1) {
		assert.Equal(t, "Omelette", summaries[0]["name"])
	}
}

func TestRecipesByNameRequiresName(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/recipes/byName", gin.H{"lang": "en", "name": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You must provide a recipe name.", decodeJSON(t, w)["error"])
}

func TestRecipesByNameMatchesSubstring(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(1, false)

	w := env.do("POST", "/recipes/byName", gin.H{"lang": "es", "name": "torti"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecipesByTypeNoneIs404(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(1, false)

	w := env.do("POST", "/recipes/byType", gin.H{"lang": "es", "type": "Postre"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No se encontraron recetas de ese tipo.", decodeJSON(t, w)["error"])
}

func TestAvailableRecipesKeepsOnlyCanMake(t *testing.T) {
	env := newTestEnv(t)
	makeable := tortilla(1, false)
	blocked := tortilla(1, false)
	blocked.ID = 8
	blocked.Ingredients = []recipe.IngredientQuantity{
		{IngredientID: 99, Name: "saffron", Quantity: 1, Unit: "g"},
	}
	env.recipes.recipes[7] = makeable
	env.recipes.recipes[8] = blocked
	env.pantry.entries[1] = map[int64]pantry.Entry{
		1: {IngredientID: 1, Quantity: 12, Unit: "units"},
	}

	w := env.do("POST", "/recipes/available", gin.H{"lang": "en", "page": 1, "per_page": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	data, ok := body["data"].([]any)
	if assert.True(t, ok) && assert.Len(t, data, 1) {
		first := data[0].(map[string]any)
		assert.Equal(t, float64(7), first["id"])
	}
	assert.Equal(t, float64(1), body["total"])
}

func TestAvailableRecipesOutOfRangePageIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(1, false)
	env.pantry.entries[1] = map[int64]pantry.Entry{
		1: {IngredientID: 1, Quantity: 12, Unit: "units"},
	}

	w := env.do("POST", "/recipes/available", gin.H{"lang": "en", "page": 5, "per_page": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	data, ok := body["data"].([]any)
	assert.True(t, ok)
	assert.Empty(t, data)
}

func TestAllRecipesEmptyIs404(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/user/allRecipes", gin.H{"lang": "es"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No se encontraron recetas.", decodeJSON(t, w)["error"])
}

func TestYourRecipesOnlyCreated(t *testing.T) {
	env := newTestEnv(t)
	mine := tortilla(1, true)
	theirs := tortilla(2, false)
	theirs.ID = 8
	env.recipes.recipes[7] = mine
	env.recipes.recipes[8] = theirs

	w := env.do("POST", "/user/yourRecipes", gin.H{"lang": "es"})

	assert.Equal(t, http.StatusOK, w.Code)
	var summaries []map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 1)
}

func TestCreateRecipeRejectsDuplicateLanguage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/recipes", gin.H{
		"lang": "en",
		"translations": []gin.H{
			{"language": "es", "name": "Tortilla"},
			{"language": "es", "name": "Tortilla otra vez"},
		},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeJSON(t, w)
	errs, ok := body["errors"].(map[string]any)
	if assert.True(t, ok) {
		assert.Contains(t, errs, "translations")
	}
}

func TestCreateRecipeRequiresTranslations(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/recipes", gin.H{"lang": "en", "translations": []gin.H{}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateRecipeStoresAndAnswersCreated(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/recipes", gin.H{
		"lang":       "en",
		"is_private": true,
		"translations": []gin.H{
			{"language": "es", "name": "Gazpacho", "description": "Frío"},
		},
		"steps": []gin.H{
			{"step_number": 1, "translations": []gin.H{{"language": "es", "text": "Triturar"}}},
		},
		"ingredients": []gin.H{
			{"ingredient_id": 3, "quantity": 1, "unit": "kg"},
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Recipe created.", body["message"])
	id := int64(body["id"].(float64))
	created := env.recipes.recipes[id]
	if assert.NotNil(t, created) {
		assert.Equal(t, int64(1), created.CreatorID)
		assert.True(t, created.IsPrivate)
		assert.Len(t, created.Steps, 1)
	}
}

func TestUpdateRecipeCreatorOnly(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(2, false)

	w := env.do("PUT", "/recipes/7", gin.H{
		"lang":         "en",
		"translations": []gin.H{{"language": "es", "name": "Otra"}},
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to do this.", decodeJSON(t, w)["error"])
}

func TestDeleteRecipe(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(1, false)

	w := env.do("DELETE", "/recipes/7?lang=en", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe deleted.", decodeJSON(t, w)["message"])
	assert.NotContains(t, env.recipes.recipes, int64(7))
}

func TestMakePrivateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(1, false)

	for i := 0; i < 2; i++ {
		w := env.do("POST", "/recipes/7/private?lang=en", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Recipe marked as private.", decodeJSON(t, w)["message"])
	}
	assert.True(t, env.recipes.recipes[7].IsPrivate)

	w := env.do("POST", "/recipes/7/public?lang=es", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Receta marcada como pública.", decodeJSON(t, w)["message"])
	assert.False(t, env.recipes.recipes[7].IsPrivate)
}

func TestAddFavouriteDuplicateIs400(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(2, false)

	w := env.do("POST", "/recipes/7/favourite?lang=en", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do("POST", "/recipes/7/favourite?lang=en", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Recipe already in your favourites.", decodeJSON(t, w)["error"])
}

func TestRemoveFavouriteMissingIs404(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(2, false)

	w := env.do("DELETE", "/recipes/7/favourite?lang=es", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Favorito no encontrado.", decodeJSON(t, w)["error"])
}

func TestPublicRecipesEmptyIs200(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/user/2/public-recipes?lang=es", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var summaries []map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	assert.Empty(t, summaries)
}

func TestPublicRecipesSkipsPrivate(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.recipes[7] = tortilla(2, false)
	private := tortilla(2, true)
	private.ID = 8
	env.recipes.recipes[8] = private

	w := env.do("GET", "/user/2/public-recipes?lang=es", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var summaries []map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 1)
}

func TestPantryIndexEmptyAnswers201(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("GET", "/ingredients?lang=es", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "No tienes ingredientes", decodeJSON(t, w)["message"])
}

func TestPantryIndexPaginates(t *testing.T) {
	env := newTestEnv(t)
	env.pantry.entries[1] = map[int64]pantry.Entry{
		1: {IngredientID: 1, Name: "Huevo", Quantity: 6, Unit: "units"},
	}

	w := env.do("GET", "/ingredients?lang=es&page=1&per_page=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, float64(1), body["total"])
}

func TestPantryAddDuplicateIs409(t *testing.T) {
	env := newTestEnv(t)
	env.pantry.known[1] = true

	w := env.do("POST", "/ingredients", gin.H{"lang": "es", "ingredient_id": 1, "quantity": 6, "unit": "units"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Ingrediente añadido", decodeJSON(t, w)["message"])

	w = env.do("POST", "/ingredients", gin.H{"lang": "es", "ingredient_id": 1, "quantity": 6, "unit": "units"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "El ingrediente ya existe en tu lista", decodeJSON(t, w)["error"])
}

func TestPantryAddUnknownIngredientIs404(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("POST", "/ingredients", gin.H{"lang": "en", "ingredient_id": 42, "quantity": 1, "unit": "g"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Ingredient not found", decodeJSON(t, w)["error"])
}

func TestPantryUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	env.pantry.entries[1] = map[int64]pantry.Entry{
		1: {IngredientID: 1, Quantity: 6, Unit: "units"},
	}

	w := env.do("PUT", "/ingredients/1", gin.H{"lang": "es", "quantity": 12})

	assert.Equal(t, http.StatusOK, w.Code)
	entry := env.pantry.entries[1][1]
	assert.Equal(t, float64(12), entry.Quantity)
	assert.Equal(t, "units", entry.Unit)
}

func TestPantryRemoveMissingIs404(t *testing.T) {
	env := newTestEnv(t)

	w := env.do("DELETE", "/ingredients/1?lang=es", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Ingrediente no encontrado", decodeJSON(t, w)["error"])
}

func TestPantryClearAlwaysSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.pantry.entries[1] = map[int64]pantry.Entry{
		1: {IngredientID: 1, Quantity: 6, Unit: "units"},
	}

	w := env.do("DELETE", "/ingredients?lang=en", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.pantry.entries[1])

	w = env.do("DELETE", "/ingredients?lang=en", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All ingredients deleted", decodeJSON(t, w)["message"])
}
