package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"recetario/internal/api"
	"recetario/internal/pantry"
	"recetario/internal/platform/images"
	"recetario/internal/recipe"
	"recetario/internal/user"
)

// Config represents the application configuration.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Addr        string
	BaseURL     string
}

func loadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Addr:        os.Getenv("ADDR"),
		BaseURL:     os.Getenv("BASE_URL"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	return cfg
}

func main() {
	config := loadConfig()
	if config.DatabaseURL == "" {
		panic(fmt.Errorf("DATABASE_URL is required"))
	}
	if config.JWTSecret == "" {
		panic(fmt.Errorf("JWT_SECRET is required"))
	}

	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		panic(fmt.Errorf("error connecting to postgres: %w", err))
	}

	// Users first: the recipe and pantry tables reference users(id).
	userStore, err := user.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating user store: %w", err))
	}
	recipeStore, err := recipe.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating recipe store: %w", err))
	}
	pantryStore, err := pantry.NewPostgresStore(db)
	if err != nil {
		panic(fmt.Errorf("error creating pantry store: %w", err))
	}

	imageStorage := images.NewStorage("images")

	handler := api.NewHandler(recipeStore, pantryStore, userStore, imageStorage, config.BaseURL, []byte(config.JWTSecret))

	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8081"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)
	r.GET("/translations/:language", handler.Translations)
	r.GET("/email/registered", handler.EmailRegistered)

	authed := r.Group("/", handler.RequireAuth())
	authed.GET("/logout", handler.Logout)
	authed.GET("/user", handler.Me)
	authed.GET("/user/:id", handler.GetUser)
	authed.GET("/user/:id/public-recipes", handler.PublicRecipes)
	authed.POST("/user/allRecipes", handler.AllRecipes)
	authed.POST("/user/yourRecipes", handler.YourRecipes)
	authed.POST("/user/favourites", handler.FavouritesList)

	authed.POST("/recipes/filter-by-ingredient", handler.FilterByIngredient)
	authed.POST("/recipes/byName", handler.RecipesByName)
	authed.POST("/recipes/byType", handler.RecipesByType)
	authed.POST("/recipes/available", handler.AvailableRecipes)
	authed.POST("/recipes/types", handler.ListTypes)
	authed.POST("/recipes", handler.CreateRecipe)
	authed.GET("/recipes/:id", handler.GetRecipe)
	authed.PUT("/recipes/:id", handler.UpdateRecipe)
	authed.DELETE("/recipes/:id", handler.DeleteRecipe)
	authed.POST("/recipes/:id/image", handler.UploadRecipeImage)
	authed.POST("/recipes/:id/private", handler.MakePrivate)
	authed.POST("/recipes/:id/public", handler.MakePublic)
	authed.POST("/recipes/:id/favourite", handler.AddFavourite)
	authed.DELETE("/recipes/:id/favourite", handler.RemoveFavourite)

	authed.GET("/ingredients/list", handler.ListIngredients)
	authed.GET("/ingredients", handler.PantryIndex)
	authed.POST("/ingredients", handler.PantryAdd)
	authed.PUT("/ingredients/:id", handler.PantryUpdate)
	authed.DELETE("/ingredients/:id", handler.PantryRemove)
	authed.DELETE("/ingredients", handler.PantryClear)

	r.Static("/images", "./images")
	r.Run(config.Addr)
}
