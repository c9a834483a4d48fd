package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recetario/internal/i18n"
	"recetario/internal/pantry"
	"recetario/internal/recipe"
)

// PantryIndex lists the current user's pantry. An empty pantry answers 201
// with a message instead of an empty page; clients rely on that shape.
func (h *Handler) PantryIndex(c *gin.Context) {
	lang := langQuery(c)
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	entries, err := h.Pantry.List(ctx, currentUser(c).ID, lang)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusCreated, gin.H{"message": i18n.T(lang, "pantry.empty")})
		return
	}
	c.JSON(http.StatusOK, recipe.Paginate(entries, page, perPage))
}

type pantryAddRequest struct {
	Lang         string  `json:"lang"`
	IngredientID int64   `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"gte=0"`
	Unit         string  `json:"unit" binding:"required,max=255"`
}

// PantryAdd puts one ingredient into the current user's pantry.
func (h *Handler) PantryAdd(c *gin.Context) {
	var req pantryAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErrors(err)})
		return
	}
	lang := i18n.Or(req.Lang)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	err := h.Pantry.Add(ctx, currentUser(c).ID, req.IngredientID, req.Quantity, req.Unit)
	switch {
	case errors.Is(err, pantry.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": i18n.T(lang, "pantry.duplicate")})
	case errors.Is(err, pantry.ErrIngredientGone):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, "ingredients.not_found")})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": i18n.T(lang, "pantry.added")})
	}
}

type pantryUpdateRequest struct {
	Lang     string   `json:"lang"`
	Quantity *float64 `json:"quantity" binding:"omitempty,gte=0"`
	Unit     *string  `json:"unit" binding:"omitempty,max=255"`
}

// PantryUpdate changes quantity and/or unit of one pantry entry. Omitted
// fields keep their stored value.
func (h *Handler) PantryUpdate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	var req pantryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErrors(err)})
		return
	}
	lang := i18n.Or(req.Lang)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	err := h.Pantry.Update(ctx, currentUser(c).ID, id, req.Quantity, req.Unit)
	switch {
	case errors.Is(err, pantry.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, "ingredients.not_found")})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "pantry.updated")})
	}
}

// PantryRemove takes one ingredient out of the current user's pantry.
func (h *Handler) PantryRemove(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	err := h.Pantry.Remove(ctx, currentUser(c).ID, id)
	switch {
	case errors.Is(err, pantry.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, "ingredients.not_found")})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "pantry.deleted")})
	}
}

// PantryClear empties the current user's pantry. Clearing an already empty
// pantry succeeds.
func (h *Handler) PantryClear(c *gin.Context) {
	lang := langQuery(c)

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	if err := h.Pantry.RemoveAll(ctx, currentUser(c).ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": i18n.T(lang, "pantry.deleted_all")})
}
