// Package api exposes the recipe-management operations over HTTP. Handlers
// receive the resolved current user and a per-request language tag; nothing
// is carried in hidden globals.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"recetario/internal/auth"
	"recetario/internal/i18n"
	"recetario/internal/pantry"
	"recetario/internal/recipe"
	"recetario/internal/user"
)

// RecipeStore defines the recipe data operations the handlers depend on.
type RecipeStore interface {
	GetRecipe(ctx context.Context, id int64) (*recipe.Recipe, error)
	VisibleRecipes(ctx context.Context, userID int64) ([]*recipe.Recipe, error)
	FilterByIngredients(ctx context.Context, userID int64, ingredientIDs []int64) ([]*recipe.Recipe, error)
	FilterByName(ctx context.Context, userID int64, lang, name string) ([]*recipe.Recipe, error)
	FilterByType(ctx context.Context, userID int64, lang, typeName string) ([]*recipe.Recipe, error)
	FavouriteRecipes(ctx context.Context, userID int64) ([]*recipe.Recipe, error)
	CreatedRecipes(ctx context.Context, userID int64) ([]*recipe.Recipe, error)
	PublicRecipesOf(ctx context.Context, creatorID int64) ([]*recipe.Recipe, error)
	CreateRecipe(ctx context.Context, r *recipe.Recipe) error
	UpdateRecipe(ctx context.Context, r *recipe.Recipe) error
	DeleteRecipe(ctx context.Context, id int64) error
	SetPrivate(ctx context.Context, id int64, private bool) error
	SetImagePath(ctx context.Context, id int64, path string) error
	IsFavourite(ctx context.Context, userID, recipeID int64) (bool, error)
	AddFavourite(ctx context.Context, userID, recipeID int64) error
	RemoveFavourite(ctx context.Context, userID, recipeID int64) error
	ListTypes(ctx context.Context) ([]recipe.Type, error)
	ListIngredients(ctx context.Context) ([]recipe.Ingredient, error)
	UITranslations(ctx context.Context, language string) (map[string]string, error)
}

// PantryStore defines the pantry operations the handlers depend on.
type PantryStore interface {
	List(ctx context.Context, userID int64, lang string) ([]pantry.Entry, error)
	Map(ctx context.Context, userID int64) (map[int64]recipe.PantryQuantity, error)
	Add(ctx context.Context, userID, ingredientID int64, quantity float64, unit string) error
	Update(ctx context.Context, userID, ingredientID int64, quantity *float64, unit *string) error
	Remove(ctx context.Context, userID, ingredientID int64) error
	RemoveAll(ctx context.Context, userID int64) error
}

// UserStore defines the account operations the handlers depend on.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	ByEmail(ctx context.Context, email string) (*user.User, error)
	ByID(ctx context.Context, id int64) (*user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SaveToken(ctx context.Context, userID int64, tokenID string) error
	TokenValid(ctx context.Context, tokenID string) (bool, error)
	RevokeTokens(ctx context.Context, userID int64) error
}

// ImageStorage stores an uploaded image and returns its relative path.
type ImageStorage interface {
	Save(data []byte, extension string) (string, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Recipes   RecipeStore
	Pantry    PantryStore
	Users     UserStore
	Images    ImageStorage
	BaseURL   string
	JWTSecret []byte
}

// NewHandler creates a new Handler.
func NewHandler(recipes RecipeStore, pantry PantryStore, users UserStore, images ImageStorage, baseURL string, jwtSecret []byte) *Handler {
	return &Handler{
		Recipes:   recipes,
		Pantry:    pantry,
		Users:     users,
		Images:    images,
		BaseURL:   baseURL,
		JWTSecret: jwtSecret,
	}
}

func timeoutCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}

func langQuery(c *gin.Context) string {
	return i18n.Or(c.Query("lang"))
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// validationErrors flattens a binding failure into a field -> message map,
// reporting every failing field rather than stopping at the first.
func validationErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[strings.ToLower(fe.Field())] = fmt.Sprintf("failed validation on %q", fe.Tag())
		}
		return out
	}
	out["body"] = err.Error()
	return out
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates an account and hands back a Bearer token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErrors(err)})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	u, err := h.Users.Create(ctx, req.Name, req.Email, hash)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"email": "already registered"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	h.issueToken(c, ctx, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and hands back a Bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	u, err := h.Users.ByEmail(ctx, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "passwordUserMismatch"})
		return
	}

	h.issueToken(c, ctx, u)
}

func (h *Handler) issueToken(c *gin.Context, ctx context.Context, u *user.User) {
	token, tokenID, err := auth.NewToken(h.JWTSecret, u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if err := h.Users.SaveToken(ctx, u.ID, tokenID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u, "access_token": token, "token_type": "Bearer"})
}

// Logout revokes every token issued to the current user.
func (h *Handler) Logout(c *gin.Context) {
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	if err := h.Users.RevokeTokens(ctx, currentUser(c).ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logoutSuccess"})
}

// Me returns the current user.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// GetUser returns a user by id.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	u, err := h.Users.ByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// EmailRegistered reports whether an email already has an account.
func (h *Handler) EmailRegistered(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	ctx, cancel := timeoutCtx(c)
	defer cancel()

	exists, err := h.Users.EmailExists(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": exists})
}

// Translations returns the UI translation catalog for one language.
func (h *Handler) Translations(c *gin.Context) {
	ctx, cancel := timeoutCtx(c)
	defer cancel()

	catalog, err := h.Recipes.UITranslations(ctx, c.Param("language"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, catalog)
}
