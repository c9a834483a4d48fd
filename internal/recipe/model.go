package recipe

// Translation is a language-tagged name/description pair for a recipe.
type Translation struct {
	Language    string `db:"language" json:"language"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// StepTranslation is a language-tagged text variant of a step.
type StepTranslation struct {
	Language string `db:"language" json:"language"`
	Text     string `db:"step_description" json:"text"`
}

// Step belongs to exactly one recipe. Numbers are unique within a recipe but
// need not be contiguous; render order is ascending number.
type Step struct {
	ID           int64             `db:"id" json:"id"`
	RecipeID     int64             `db:"recipe_id" json:"recipe_id"`
	Number       int               `db:"step_number" json:"step_number"`
	Translations []StepTranslation `json:"translations"`
}

// TypeTranslation is a language-tagged name of a recipe type.
type TypeTranslation struct {
	Language string `db:"language" json:"language"`
	Name     string `db:"name" json:"name"`
}

// Type categorizes recipes; many-to-many with Recipe.
type Type struct {
	ID           int64             `db:"id" json:"id"`
	Translations []TypeTranslation `json:"translations"`
}

// IngredientTranslation is a language-tagged name of an ingredient.
type IngredientTranslation struct {
	Language string `db:"language" json:"language"`
	Name     string `db:"name" json:"name"`
}

// Ingredient is a catalog entry. Name is the canonical (untranslated) name
// used as a fallback when no translation matches the requested language.
type Ingredient struct {
	ID           int64                   `db:"id" json:"id"`
	Name         string                  `db:"name" json:"name"`
	Translations []IngredientTranslation `json:"translations"`
}

// IngredientQuantity is one required (ingredient, quantity, unit) tuple of a
// recipe. Unit is free text and not localized; only ingredient names are.
type IngredientQuantity struct {
	IngredientID int64                   `db:"ingredient_id" json:"ingredient_id"`
	Name         string                  `db:"name" json:"name"`
	Quantity     float64                 `db:"quantity" json:"quantity"`
	Unit         string                  `db:"unit" json:"unit"`
	Translations []IngredientTranslation `json:"translations"`
}

// Recipe is a fully loaded recipe with all its relations.
type Recipe struct {
	ID           int64                `db:"id" json:"id"`
	CreatorID    int64                `db:"creator_id" json:"creator_id"`
	IsOfficial   bool                 `db:"is_official" json:"is_official"`
	IsPrivate    bool                 `db:"is_private" json:"is_private"`
	ImagePath    string               `db:"image_path" json:"image_path"`
	Translations []Translation        `json:"translations"`
	Steps        []Step               `json:"steps"`
	Types        []Type               `json:"types"`
	Ingredients  []IngredientQuantity `json:"ingredients"`
}

// Visible reports whether userID may see the recipe: official recipes and
// public recipes are visible to everyone, private ones only to their creator
// and to users who favourited them.
func (r *Recipe) Visible(userID int64, favourited bool) bool {
	return r.IsOfficial || r.CreatorID == userID || !r.IsPrivate || favourited
}
