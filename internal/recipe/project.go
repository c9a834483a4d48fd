package recipe

import (
	"sort"

	"recetario/internal/i18n"
)

// localized returns the first row whose language matches lang. All the
// per-entity "first match or fallback literal" lookups (recipe names, type
// names, step texts, ingredient names) go through this one helper.
func localized[T any](rows []T, lang string, langOf func(T) string) (T, bool) {
	for _, row := range rows {
		if langOf(row) == lang {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// StepView is a step resolved to one language.
type StepView struct {
	Number int    `json:"step_number"`
	Text   string `json:"text"`
}

// IngredientView is a required ingredient resolved to one language.
type IngredientView struct {
	IngredientID int64   `json:"ingredient_id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
}

// View is the full wire shape of one recipe for one user in one language.
type View struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Description      *string          `json:"description"`
	Image            *string          `json:"image"`
	IsOfficial       bool             `json:"is_official"`
	IsPrivate        bool             `json:"is_private"`
	IsFavourite      bool             `json:"is_favourite"`
	Steps            []StepView       `json:"steps"`
	Types            []string         `json:"types"`
	Ingredients      []IngredientView `json:"ingredients"`
	IngredientsMatch string           `json:"ingredients_match"`
}

// Summary is the reduced wire shape used by list endpoints.
type Summary struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	IsOfficial  bool     `json:"is_official"`
	IsPrivate   bool     `json:"is_private"`
	StepsCount  int      `json:"steps_count"`
	Types       []string `json:"types"`
}

// Project shapes a fully loaded recipe into its language-specific view,
// embedding the availability classification for the given pantry. The
// visibility gate is the caller's job; Project never rejects.
func Project(r *Recipe, favourited bool, pantry map[int64]PantryQuantity, lang, baseURL string) View {
	name, desc := nameAndDescription(r, lang)
	return View{
		ID:               r.ID,
		Name:             name,
		Description:      desc,
		Image:            imageURL(r, baseURL),
		IsOfficial:       r.IsOfficial,
		IsPrivate:        r.IsPrivate,
		IsFavourite:      favourited,
		Steps:            stepViews(r.Steps, lang),
		Types:            typeNames(r.Types, lang),
		Ingredients:      ingredientViews(r.Ingredients, lang),
		IngredientsMatch: i18n.T(lang, Match(r.Ingredients, pantry).Key()),
	}
}

// Summarize shapes a recipe into the reduced list view.
func Summarize(r *Recipe, lang, baseURL string) Summary {
	name, desc := nameAndDescription(r, lang)
	return Summary{
		ID:          r.ID,
		Name:        name,
		Description: desc,
		Image:       imageURL(r, baseURL),
		IsOfficial:  r.IsOfficial,
		IsPrivate:   r.IsPrivate,
		StepsCount:  len(r.Steps),
		Types:       typeNames(r.Types, lang),
	}
}

func nameAndDescription(r *Recipe, lang string) (string, *string) {
	tr, ok := localized(r.Translations, lang, func(t Translation) string { return t.Language })
	if !ok {
		return i18n.T(lang, "translation.missing"), nil
	}
	return tr.Name, &tr.Description
}

func imageURL(r *Recipe, baseURL string) *string {
	if r.ImagePath == "" {
		return nil
	}
	url := baseURL + "/" + r.ImagePath
	return &url
}

func stepViews(steps []Step, lang string) []StepView {
	ordered := make([]Step, len(steps))
	copy(ordered, steps)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	views := make([]StepView, 0, len(ordered))
	for _, s := range ordered {
		tr, _ := localized(s.Translations, lang, func(t StepTranslation) string { return t.Language })
		views = append(views, StepView{Number: s.Number, Text: tr.Text})
	}
	return views
}

func typeNames(types []Type, lang string) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		if tr, ok := localized(t.Translations, lang, func(t TypeTranslation) string { return t.Language }); ok {
			names = append(names, tr.Name)
		} else {
			names = append(names, i18n.T(lang, "translation.missing"))
		}
	}
	return names
}

func ingredientViews(quantities []IngredientQuantity, lang string) []IngredientView {
	views := make([]IngredientView, 0, len(quantities))
	for _, q := range quantities {
		name := q.Name
		if tr, ok := localized(q.Translations, lang, func(t IngredientTranslation) string { return t.Language }); ok {
			name = tr.Name
		}
		views = append(views, IngredientView{
			IngredientID: q.IngredientID,
			Name:         name,
			Quantity:     q.Quantity,
			Unit:         q.Unit,
		})
	}
	return views
}

// LocalizedIngredientName resolves an ingredient's display name for lang,
// falling back to the canonical name.
func LocalizedIngredientName(ing Ingredient, lang string) string {
	if tr, ok := localized(ing.Translations, lang, func(t IngredientTranslation) string { return t.Language }); ok {
		return tr.Name
	}
	return ing.Name
}
