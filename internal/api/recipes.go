package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"recetario/internal/i18n"
	"recetario/internal/recipe"
)

type filterByIngredientRequest struct {
	Lang        string  `json:"lang"`
	Ingredients []int64 `json:"ingredients"`
}

// FilterByIngredient returns visible recipes requiring at least one of the
// given ingredients.
func (h *Handler) FilterByIngredient(c *gin.Context) {
	var req filterByIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err)})
		return
	}
	lang := i18n.Or(req.Lang)
	if len(req.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, "ingredients.required")})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	recipes, err := h.Recipes.FilterByIngredients(ctx, currentUser(c).ID, req.Ingredients)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	h.respondSummaries(c, recipes, lang, "recipes.none_for_ingredients")
}

type byNameRequest struct {
	Lang string `json:"lang"`
	Name string `json:"name"`
}

// RecipesByName returns visible recipes whose translated name contains the
// given substring.
func (h *Handler) RecipesByName(c *gin.Context) {
	var req byNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err)})
		return
	}
	lang := i18n.Or(req.Lang)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, "recipes.name_required")})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	recipes, err := h.Recipes.FilterByName(ctx, currentUser(c).ID, lang, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	h.respondSummaries(c, recipes, lang, "recipes.none_by_name")
}

type byTypeRequest struct {
	Lang string `json:"lang"`
	Type string `json:"type"`
}

// RecipesByType returns visible recipes tagged with a matching type name.
func (h *Handler) RecipesByType(c *gin.Context) {
	var req byTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err)})
		return
	}
	lang := i18n.Or(req.Lang)
	if req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, "recipes.type_required")})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	recipes, err := h.Recipes.FilterByType(ctx, currentUser(c).ID, lang, req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	h.respondSummaries(c, recipes, lang, "recipes.none_by_type")
}

type availableRequest struct {
	Lang    string `json:"lang"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// AvailableRecipes returns the page of visible recipes the current user can
// make with their pantry. An out-of-range page is an empty page, not an
// error.
func (h *Handler) AvailableRecipes(c *gin.Context) {
	var req availableRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err)})
		return
	}
	lang := i18n.Or(req.Lang)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	u := currentUser(c)
	recipes, err := h.Recipes.VisibleRecipes(ctx, u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	owned, err := h.Pantry.Map(ctx, u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	available := make([]recipe.Summary, 0, len(recipes))
	for _, r := range recipes {
		if recipe.Match(r.Ingredients, owned) == recipe.CanMake {
			available = append(available, recipe.Summarize(r, lang, h.BaseURL))
		}
	}
	c.JSON(http.StatusOK, recipe.Paginate(available, req.Page, req.PerPage))
}

type langRequest struct {
	Lang string `json:"lang"`
}

func langBody(c *gin.Context) string {
	var req langRequest
	// Body is optional on these endpoints; fall back to the query parameter.
	if err := c.ShouldBindJSON(&req); err == nil && req.Lang != "" {
		return req.Lang
	}
	return langQuery(c)
}

// AllRecipes returns every recipe visible to the current user.
func (h *Handler) AllRecipes(c *gin.Context) {
	lang := langBody(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	recipes, err := h.Recipes.VisibleRecipes(ctx, currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	h.respondSummaries(c, recipes, lang, "recipes.none")
}

// YourRecipes returns the recipes the current user created.
func (h *Handler) YourRecipes(c *gin.Context) {
	lang := langBody(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	recipes, err := h.Recipes.CreatedRecipes(ctx, currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	h.respondSummaries(c, recipes, lang, "recipes.none_created")
}

// FavouritesList returns the current user's favourite recipes.
func (h *Handler) FavouritesList(c *gin.Context) {
	lang := langBody(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	recipes, err := h.Recipes.FavouriteRecipes(ctx, currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	h.respondSummaries(c, recipes, lang, "recipes.none_favourite")
}

// PublicRecipes returns the non-private recipes of the given user. An empty
// list is a valid answer here.
func (h *Handler) PublicRecipes(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	recipes, err := h.Recipes.PublicRecipesOf(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	summaries := make([]recipe.Summary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, recipe.Summarize(r, lang, h.BaseURL))
	}
	c.JSON(http.StatusOK, summaries)
}

// respondSummaries renders the list endpoints' shared shape: summaries on
// success, a localized 404 when the filter matched nothing. The 404-for-empty
// convention is kept from the previous behavior of these endpoints.
func (h *Handler) respondSummaries(c *gin.Context, recipes []*recipe.Recipe, lang, emptyKey string) {
	if len(recipes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, emptyKey)})
		return
	}
	summaries := make([]recipe.Summary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, recipe.Summarize(r, lang, h.BaseURL))
	}
	c.JSON(http.StatusOK, summaries)
}

type translationPayload struct {
	Language    string `json:"language" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type stepTranslationPayload struct {
	Language string `json:"language" binding:"required"`
	Text     string `json:"text"`
}

type stepPayload struct {
	Number       int                      `json:"step_number" binding:"required,min=1"`
	Translations []stepTranslationPayload `json:"translations" binding:"omitempty,dive"`
}

type quantityPayload struct {
	IngredientID int64   `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"gte=0"`
	Unit         string  `json:"unit" binding:"required,max=255"`
}

type recipePayload struct {
	Lang         string               `json:"lang"`
	IsPrivate    bool                 `json:"is_private"`
	Translations []translationPayload `json:"translations" binding:"required,min=1,dive"`
	Steps        []stepPayload        `json:"steps" binding:"omitempty,dive"`
	Ingredients  []quantityPayload    `json:"ingredients" binding:"omitempty,dive"`
	TypeIDs      []int64              `json:"type_ids"`
}

// check collects the structural problems binding tags cannot express.
func (p *recipePayload) check() map[string]string {
	errs := make(map[string]string)
	seenLang := make(map[string]bool)
	for _, t := range p.Translations {
		if seenLang[t.Language] {
			errs["translations"] = fmt.Sprintf("duplicate language %q", t.Language)
		}
		seenLang[t.Language] = true
	}
	seenStep := make(map[int]bool)
	for _, s := range p.Steps {
		if seenStep[s.Number] {
			errs["steps"] = fmt.Sprintf("duplicate step number %d", s.Number)
		}
		seenStep[s.Number] = true
	}
	seenIngredient := make(map[int64]bool)
	for _, q := range p.Ingredients {
		if seenIngredient[q.IngredientID] {
			errs["ingredients"] = fmt.Sprintf("duplicate ingredient %d", q.IngredientID)
		}
		seenIngredient[q.IngredientID] = true
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *recipePayload) toRecipe(creatorID int64) *recipe.Recipe {
	r := &recipe.Recipe{
		CreatorID: creatorID,
		IsPrivate: p.IsPrivate,
	}
	for _, t := range p.Translations {
		r.Translations = append(r.Translations, recipe.Translation{
			Language:    t.Language,
			Name:        t.Name,
			Description: t.Description,
		})
	}
	for _, s := range p.Steps {
		step := recipe.Step{Number: s.Number}
		for _, t := range s.Translations {
			step.Translations = append(step.Translations, recipe.StepTranslation{
				Language: t.Language,
				Text:     t.Text,
			})
		}
		r.Steps = append(r.Steps, step)
	}
	for _, q := range p.Ingredients {
		r.Ingredients = append(r.Ingredients, recipe.IngredientQuantity{
			IngredientID: q.IngredientID,
			Quantity:     q.Quantity,
			Unit:         q.Unit,
		})
	}
	for _, id := range p.TypeIDs {
		r.Types = append(r.Types, recipe.Type{ID: id})
	}
	return r
}

// CreateRecipe stores a recipe and all its relations atomically.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req recipePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErrors(err)})
		return
	}
	lang := i18n.Or(req.Lang)
	if errs := req.check(); errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	r := req.toRecipe(currentUser(c).ID)
	if err := h.Recipes.CreateRecipe(ctx, r); err != nil {
		if errors.Is(err, recipe.ErrInvalidReference) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"references": "unknown ingredient or type id"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": i18n.T(lang, "recipes.created"), "id": r.ID})
}

// GetRecipe returns the full view of one recipe, gated by visibility and
// including the pantry availability classification.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	u := currentUser(c)
	r, favourited, ok := h.loadVisible(c, ctx, id, lang, u.ID)
	if !ok {
		return
	}

	owned, err := h.Pantry.Map(ctx, u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recipe.Project(r, favourited, owned, lang, h.BaseURL))
}

// loadVisible fetches a recipe and applies the visibility gate, writing the
// localized 404/403 itself. The favourite flag is returned for reuse.
func (h *Handler) loadVisible(c *gin.Context, ctx context.Context, id int64, lang string, userID int64) (*recipe.Recipe, bool, bool) {
	r, err := h.Recipes.GetRecipe(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return nil, false, false
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, "recipes.not_found")})
		return nil, false, false
	}

	favourited, err := h.Recipes.IsFavourite(ctx, userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return nil, false, false
	}
	if !r.Visible(userID, favourited) {
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, "recipes.forbidden")})
		return nil, false, false
	}
	return r, favourited, true
}

// UpdateRecipe replaces the recipe's content. Creator only.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	var req recipePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErrors(err)})
		return
	}
	lang := i18n.Or(req.Lang)
	if errs := req.check(); errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	existing, ok := h.requireOwned(c, ctx, id, lang)
	if !ok {
		return
	}

	r := req.toRecipe(existing.CreatorID)
	r.ID = id
	if err := h.Recipes.UpdateRecipe(ctx, r); err != nil {
		if errors.Is(err, recipe.ErrInvalidReference) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"references": "unknown ingredient or type id"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "recipes.updated")})
}

// DeleteRecipe removes the recipe and its relations. Creator only.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	if _, ok := h.requireOwned(c, ctx, id, lang); !ok {
		return
	}

	if err := h.Recipes.DeleteRecipe(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "recipes.deleted")})
}

// requireOwned fetches a recipe and rejects with a localized 404/403 unless
// the current user created it.
func (h *Handler) requireOwned(c *gin.Context, ctx context.Context, id int64, lang string) (*recipe.Recipe, bool) {
	r, err := h.Recipes.GetRecipe(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return nil, false
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, "recipes.not_found")})
		return nil, false
	}
	if r.CreatorID != currentUser(c).ID {
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, "recipes.forbidden")})
		return nil, false
	}
	return r, true
}

// MakePrivate marks a recipe private. Idempotent, creator only.
func (h *Handler) MakePrivate(c *gin.Context) {
	h.setPrivacy(c, true, "recipes.marked_private")
}

// MakePublic marks a recipe public. Idempotent, creator only.
func (h *Handler) MakePublic(c *gin.Context) {
	h.setPrivacy(c, false, "recipes.marked_public")
}

func (h *Handler) setPrivacy(c *gin.Context, private bool, messageKey string) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	if _, ok := h.requireOwned(c, ctx, id, lang); !ok {
		return
	}

	if err := h.Recipes.SetPrivate(ctx, id, private); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, messageKey)})
}

// AddFavourite marks a recipe as a favourite of the current user.
func (h *Handler) AddFavourite(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	err := h.Recipes.AddFavourite(ctx, currentUser(c).ID, id)
	switch {
	case errors.Is(err, recipe.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, "favourites.exists")})
	case errors.Is(err, recipe.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, "recipes.not_found")})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "favourites.added")})
	}
}

// RemoveFavourite removes the current user's favourite mark.
func (h *Handler) RemoveFavourite(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	err := h.Recipes.RemoveFavourite(ctx, currentUser(c).ID, id)
	switch {
	case errors.Is(err, recipe.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, "favourites.not_found")})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "favourites.removed")})
	}
}

// UploadRecipeImage stores a recipe image and records its path. Creator only.
func (h *Handler) UploadRecipeImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	lang := langQuery(c)

	file, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, fmt.Sprintf("get form err: %s", err.Error()))
		return
	}

	allowedExtensions := map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
	}
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[extension] {
		c.String(http.StatusBadRequest, "Invalid file type. Only JPEG, JPG, and PNG images are allowed.")
		return
	}

	src, err := file.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("open file err: %s", err.Error()))
		return
	}
	defer src.Close()

	imageData, err := io.ReadAll(src)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("read image err: %s", err.Error()))
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	if _, ok := h.requireOwned(c, ctx, id, lang); !ok {
		return
	}

	imagePath, err := h.Images.Save(imageData, extension)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to save image: %s", err.Error()))
		return
	}
	if err := h.Recipes.SetImagePath(ctx, id, imagePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": h.BaseURL + "/" + imagePath})
}

// ListTypes returns the type catalog resolved to one language.
func (h *Handler) ListTypes(c *gin.Context) {
	lang := langBody(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	types, err := h.Recipes.ListTypes(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	type typeView struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	views := make([]typeView, 0, len(types))
	for _, t := range types {
		name := i18n.T(lang, "translation.missing")
		for _, tr := range t.Translations {
			if tr.Language == lang {
				name = tr.Name
				break
			}
		}
		views = append(views, typeView{ID: t.ID, Name: name})
	}
	c.JSON(http.StatusOK, views)
}

// ListIngredients returns the ingredient catalog resolved to one language.
func (h *Handler) ListIngredients(c *gin.Context) {
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	ingredients, err := h.Recipes.ListIngredients(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	type ingredientView struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	views := make([]ingredientView, 0, len(ingredients))
	for _, ing := range ingredients {
		views = append(views, ingredientView{ID: ing.ID, Name: recipe.LocalizedIngredientName(ing, lang)})
	}
	c.JSON(http.StatusOK, views)
}
