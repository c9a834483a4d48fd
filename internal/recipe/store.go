package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Sentinel errors returned by store mutations. Reads follow the
// nil-without-error convention for absent rows.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("duplicate")
	ErrInvalidReference = errors.New("invalid reference")
)

// PostgresStore owns recipes and everything hanging off them: translations,
// steps, types, ingredient quantities, favourites and the UI translation
// catalog.
type PostgresStore struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id BIGSERIAL PRIMARY KEY,
	creator_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	is_official BOOLEAN NOT NULL DEFAULT FALSE,
	is_private BOOLEAN NOT NULL DEFAULT FALSE,
	image_path TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS recipe_translations (
	id BIGSERIAL PRIMARY KEY,
	recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	language TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	UNIQUE (recipe_id, language)
);

CREATE TABLE IF NOT EXISTS recipe_steps (
	id BIGSERIAL PRIMARY KEY,
	recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	step_number INT NOT NULL,
	UNIQUE (recipe_id, step_number)
);

CREATE TABLE IF NOT EXISTS recipe_step_translations (
	id BIGSERIAL PRIMARY KEY,
	recipe_step_id BIGINT NOT NULL REFERENCES recipe_steps(id) ON DELETE CASCADE,
	language TEXT NOT NULL,
	step_description TEXT NOT NULL,
	UNIQUE (recipe_step_id, language)
);

CREATE TABLE IF NOT EXISTS types (
	id BIGSERIAL PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS type_translations (
	id BIGSERIAL PRIMARY KEY,
	type_id BIGINT NOT NULL REFERENCES types(id) ON DELETE CASCADE,
	language TEXT NOT NULL,
	name TEXT NOT NULL,
	UNIQUE (type_id, language)
);

CREATE TABLE IF NOT EXISTS recipe_types (
	recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	type_id BIGINT NOT NULL REFERENCES types(id) ON DELETE CASCADE,
	PRIMARY KEY (recipe_id, type_id)
);

CREATE TABLE IF NOT EXISTS ingredients (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ingredient_translations (
	id BIGSERIAL PRIMARY KEY,
	ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
	language TEXT NOT NULL,
	name TEXT NOT NULL,
	UNIQUE (ingredient_id, language)
);

CREATE TABLE IF NOT EXISTS ingredient_quantities (
	id BIGSERIAL PRIMARY KEY,
	recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	ingredient_id BIGINT NOT NULL REFERENCES ingredients(id) ON DELETE CASCADE,
	quantity NUMERIC(10,2) NOT NULL,
	unit VARCHAR(50) NOT NULL,
	UNIQUE (recipe_id, ingredient_id)
);

CREATE TABLE IF NOT EXISTS favourites (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	recipe_id BIGINT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
	UNIQUE (user_id, recipe_id)
);

CREATE TABLE IF NOT EXISTS translations (
	id BIGSERIAL PRIMARY KEY,
	key TEXT NOT NULL,
	language TEXT NOT NULL,
	translation TEXT NOT NULL,
	UNIQUE (key, language)
);
`

// NewPostgresStore creates the recipe tables if they do not exist. The users
// table must already exist (the user store creates it), so wire that store
// first.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create recipe tables: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// visibleClause implements the visibility predicate: official recipes and
// public recipes are visible to everyone, private ones to their creator and
// to favouriters. The user id must be bound as $1.
const visibleClause = `(r.is_official
	OR r.creator_id = $1
	OR NOT r.is_private
	OR EXISTS (SELECT 1 FROM favourites f WHERE f.user_id = $1 AND f.recipe_id = r.id))`

const recipeColumns = `r.id, r.creator_id, r.is_official, r.is_private, r.image_path`

// GetRecipe loads one recipe with all relations. Absent recipes yield
// (nil, nil).
func (s *PostgresStore) GetRecipe(ctx context.Context, id int64) (*Recipe, error) {
	recipes, err := s.selectRecipes(ctx,
		"SELECT "+recipeColumns+" FROM recipes r WHERE r.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}
	return recipes[0], nil
}

// VisibleRecipes returns every recipe the user may see, fully loaded.
func (s *PostgresStore) VisibleRecipes(ctx context.Context, userID int64) ([]*Recipe, error) {
	return s.selectRecipes(ctx,
		"SELECT "+recipeColumns+" FROM recipes r WHERE "+visibleClause+" ORDER BY r.id", userID)
}

// FilterByIngredients returns visible recipes requiring at least one of the
// given ingredients (logical OR, not full coverage).
func (s *PostgresStore) FilterByIngredients(ctx context.Context, userID int64, ingredientIDs []int64) ([]*Recipe, error) {
	return s.selectRecipes(ctx,
		"SELECT "+recipeColumns+` FROM recipes r
		WHERE `+visibleClause+`
		AND EXISTS (
			SELECT 1 FROM ingredient_quantities q
			WHERE q.recipe_id = r.id AND q.ingredient_id = ANY($2)
		)
		ORDER BY r.id`,
		userID, pq.Array(ingredientIDs))
}

// FilterByName returns visible recipes whose name in lang contains name,
// case-insensitively.
func (s *PostgresStore) FilterByName(ctx context.Context, userID int64, lang, name string) ([]*Recipe, error) {
	return s.selectRecipes(ctx,
		"SELECT "+recipeColumns+` FROM recipes r
		WHERE `+visibleClause+`
		AND EXISTS (
			SELECT 1 FROM recipe_translations t
			WHERE t.recipe_id = r.id AND t.language = $2 AND t.name ILIKE '%' || $3 || '%'
		)
		ORDER BY r.id`,
		userID, lang, name)
}

// FilterByType returns visible recipes tagged with a type whose name in lang
// contains typeName, case-insensitively.
func (s *PostgresStore) FilterByType(ctx context.Context, userID int64, lang, typeName string) ([]*Recipe, error) {
	return s.selectRecipes(ctx,
		"SELECT "+recipeColumns+` FROM recipes r
		WHERE `+visibleClause+`
		AND EXISTS (
			SELECT 1 FROM recipe_types rt
			JOIN type_translations tt ON tt.type_id = rt.type_id
			WHERE rt.recipe_id = r.id AND tt.language = $2 AND tt.name ILIKE '%' || $3 || '%'
		)
		ORDER BY r.id`,
		userID, lang, typeName)
}

// FavouriteRecipes returns the recipes the user has favourited.
func (s *PostgresStore) FavouriteRecipes(ctx context.Context, userID int64) ([]*Recipe, error) {
	return s.selectRecipes(ctx,
		"SELECT "+recipeColumns+` FROM recipes r
		WHERE EXISTS (SELECT 1 FROM favourites f WHERE f.user_id = $1 AND f.recipe_id = r.id)
		ORDER BY r.id`,
		userID)
}

// CreatedRecipes returns the recipes the user created.
func (s *PostgresStore) CreatedRecipes(ctx context.Context, userID int64) ([]*Recipe, error) {
	return s.selectRecipes(ctx,
		"SELECT "+recipeColumns+" FROM recipes r WHERE r.creator_id = $1 ORDER BY r.id", userID)
}

// PublicRecipesOf returns the non-private recipes created by creatorID.
func (s *PostgresStore) PublicRecipesOf(ctx context.Context, creatorID int64) ([]*Recipe, error) {
	return s.selectRecipes(ctx,
		"SELECT "+recipeColumns+" FROM recipes r WHERE r.creator_id = $1 AND NOT r.is_private ORDER BY r.id", creatorID)
}

// CreateRecipe inserts the recipe and all relations in one transaction and
// fills in r.ID.
func (s *PostgresStore) CreateRecipe(ctx context.Context, r *Recipe) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"INSERT INTO recipes (creator_id, is_official, is_private, image_path) VALUES ($1, $2, $3, $4) RETURNING id",
		r.CreatorID, r.IsOfficial, r.IsPrivate, r.ImagePath,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", classify(err))
	}

	if err := insertRelations(ctx, tx, r); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}
	return nil
}

// UpdateRecipe replaces the recipe's translations, steps, ingredient links
// and type associations wholesale, inside one transaction. The stored image
// path is preserved.
func (s *PostgresStore) UpdateRecipe(ctx context.Context, r *Recipe) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE recipes SET is_private = $2 WHERE id = $1", r.ID, r.IsPrivate)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	for _, table := range []string{"recipe_translations", "recipe_steps", "ingredient_quantities", "recipe_types"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE recipe_id = $1", r.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertRelations(ctx, tx, r); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe update: %w", err)
	}
	return nil
}

func insertRelations(ctx context.Context, tx *sqlx.Tx, r *Recipe) error {
	for _, t := range r.Translations {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO recipe_translations (recipe_id, language, name, description) VALUES ($1, $2, $3, $4)",
			r.ID, t.Language, t.Name, t.Description)
		if err != nil {
			return fmt.Errorf("failed to insert recipe translation: %w", classify(err))
		}
	}

	for i := range r.Steps {
		step := &r.Steps[i]
		step.RecipeID = r.ID
		err := tx.QueryRowContext(ctx,
			"INSERT INTO recipe_steps (recipe_id, step_number) VALUES ($1, $2) RETURNING id",
			r.ID, step.Number,
		).Scan(&step.ID)
		if err != nil {
			return fmt.Errorf("failed to insert recipe step: %w", classify(err))
		}
		for _, t := range step.Translations {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO recipe_step_translations (recipe_step_id, language, step_description) VALUES ($1, $2, $3)",
				step.ID, t.Language, t.Text)
			if err != nil {
				return fmt.Errorf("failed to insert step translation: %w", classify(err))
			}
		}
	}

	for _, q := range r.Ingredients {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO ingredient_quantities (recipe_id, ingredient_id, quantity, unit) VALUES ($1, $2, $3, $4)",
			r.ID, q.IngredientID, q.Quantity, q.Unit)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient quantity: %w", classify(err))
		}
	}

	for _, t := range r.Types {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO recipe_types (recipe_id, type_id) VALUES ($1, $2)",
			r.ID, t.ID)
		if err != nil {
			return fmt.Errorf("failed to insert recipe type: %w", classify(err))
		}
	}
	return nil
}

// DeleteRecipe removes the recipe; translations, steps, quantities, type
// links and favourites go with it through the cascading foreign keys.
func (s *PostgresStore) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPrivate flips the visibility flag. Setting the current value again is a
// no-op, not an error.
func (s *PostgresStore) SetPrivate(ctx context.Context, id int64, private bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE recipes SET is_private = $2 WHERE id = $1", id, private)
	if err != nil {
		return fmt.Errorf("failed to update recipe visibility: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetImagePath records the stored image reference on the recipe.
func (s *PostgresStore) SetImagePath(ctx context.Context, id int64, path string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE recipes SET image_path = $2 WHERE id = $1", id, path)
	if err != nil {
		return fmt.Errorf("failed to update recipe image: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// IsFavourite reports whether the user has favourited the recipe.
func (s *PostgresStore) IsFavourite(ctx context.Context, userID, recipeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM favourites WHERE user_id = $1 AND recipe_id = $2)",
		userID, recipeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favourite: %w", err)
	}
	return exists, nil
}

// AddFavourite marks the recipe as a favourite of the user. A second add is
// ErrDuplicate; a missing recipe is ErrNotFound.
func (s *PostgresStore) AddFavourite(ctx context.Context, userID, recipeID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO favourites (user_id, recipe_id) VALUES ($1, $2)", userID, recipeID)
	if err != nil {
		if pqCode(err, "23505") {
			return ErrDuplicate
		}
		if pqCode(err, "23503") {
			return ErrNotFound
		}
		return fmt.Errorf("failed to add favourite: %w", err)
	}
	return nil
}

// RemoveFavourite deletes the favourite row; ErrNotFound if there was none.
func (s *PostgresStore) RemoveFavourite(ctx context.Context, userID, recipeID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM favourites WHERE user_id = $1 AND recipe_id = $2", userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove favourite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTypes returns the full type catalog with translations.
func (s *PostgresStore) ListTypes(ctx context.Context) ([]Type, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, "SELECT id FROM types ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}

	types := make([]Type, 0, len(ids))
	byID := make(map[int64]*Type, len(ids))
	for _, id := range ids {
		types = append(types, Type{ID: id})
	}
	for i := range types {
		byID[types[i].ID] = &types[i]
	}

	var rows []struct {
		TypeID   int64  `db:"type_id"`
		Language string `db:"language"`
		Name     string `db:"name"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT type_id, language, name FROM type_translations WHERE type_id = ANY($1)",
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load type translations: %w", err)
	}
	for _, row := range rows {
		t := byID[row.TypeID]
		t.Translations = append(t.Translations, TypeTranslation{Language: row.Language, Name: row.Name})
	}
	return types, nil
}

// ListIngredients returns the full ingredient catalog with translations.
func (s *PostgresStore) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	var ingredients []Ingredient
	err := s.db.SelectContext(ctx, &ingredients, "SELECT id, name FROM ingredients ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	ids := make([]int64, 0, len(ingredients))
	byID := make(map[int64]*Ingredient, len(ingredients))
	for i := range ingredients {
		ids = append(ids, ingredients[i].ID)
		byID[ingredients[i].ID] = &ingredients[i]
	}

	var rows []struct {
		IngredientID int64  `db:"ingredient_id"`
		Language     string `db:"language"`
		Name         string `db:"name"`
	}
	err = s.db.SelectContext(ctx, &rows,
		"SELECT ingredient_id, language, name FROM ingredient_translations WHERE ingredient_id = ANY($1)",
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient translations: %w", err)
	}
	for _, row := range rows {
		ing := byID[row.IngredientID]
		ing.Translations = append(ing.Translations, IngredientTranslation{Language: row.Language, Name: row.Name})
	}
	return ingredients, nil
}

// UITranslations returns the key/value catalog for one language.
func (s *PostgresStore) UITranslations(ctx context.Context, language string) (map[string]string, error) {
	var rows []struct {
		Key         string `db:"key"`
		Translation string `db:"translation"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT key, translation FROM translations WHERE language = $1", language)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Translation
	}
	return out, nil
}

// selectRecipes runs a query producing recipe base rows and eager-loads every
// relation for the result set.
func (s *PostgresStore) selectRecipes(ctx context.Context, query string, args ...any) ([]*Recipe, error) {
	var recipes []*Recipe
	if err := s.db.SelectContext(ctx, &recipes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, nil
	}
	if err := s.loadRelations(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *PostgresStore) loadRelations(ctx context.Context, recipes []*Recipe) error {
	ids := make([]int64, 0, len(recipes))
	byID := make(map[int64]*Recipe, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
		byID[r.ID] = r
	}
	idArr := pq.Array(ids)

	var translations []struct {
		RecipeID int64 `db:"recipe_id"`
		Translation
	}
	err := s.db.SelectContext(ctx, &translations,
		"SELECT recipe_id, language, name, description FROM recipe_translations WHERE recipe_id = ANY($1)", idArr)
	if err != nil {
		return fmt.Errorf("failed to load recipe translations: %w", err)
	}
	for _, row := range translations {
		r := byID[row.RecipeID]
		r.Translations = append(r.Translations, row.Translation)
	}

	if err := s.loadSteps(ctx, byID, idArr); err != nil {
		return err
	}
	if err := s.loadTypes(ctx, byID, idArr); err != nil {
		return err
	}
	return s.loadQuantities(ctx, byID, idArr)
}

func (s *PostgresStore) loadSteps(ctx context.Context, byID map[int64]*Recipe, idArr any) error {
	var steps []Step
	err := s.db.SelectContext(ctx, &steps,
		"SELECT id, recipe_id, step_number FROM recipe_steps WHERE recipe_id = ANY($1) ORDER BY step_number", idArr)
	if err != nil {
		return fmt.Errorf("failed to load recipe steps: %w", err)
	}
	if len(steps) == 0 {
		return nil
	}

	stepIDs := make([]int64, 0, len(steps))
	stepByID := make(map[int64]*Step, len(steps))
	for _, step := range steps {
		r := byID[step.RecipeID]
		r.Steps = append(r.Steps, step)
		stepIDs = append(stepIDs, step.ID)
	}
	for _, r := range byID {
		for i := range r.Steps {
			stepByID[r.Steps[i].ID] = &r.Steps[i]
		}
	}

	var rows []struct {
		StepID int64 `db:"recipe_step_id"`
		StepTranslation
	}
	err = s.db.SelectContext(ctx, &rows,
		"SELECT recipe_step_id, language, step_description FROM recipe_step_translations WHERE recipe_step_id = ANY($1)",
		pq.Array(stepIDs))
	if err != nil {
		return fmt.Errorf("failed to load step translations: %w", err)
	}
	for _, row := range rows {
		step := stepByID[row.StepID]
		step.Translations = append(step.Translations, row.StepTranslation)
	}
	return nil
}

func (s *PostgresStore) loadTypes(ctx context.Context, byID map[int64]*Recipe, idArr any) error {
	var links []struct {
		RecipeID int64 `db:"recipe_id"`
		TypeID   int64 `db:"type_id"`
	}
	err := s.db.SelectContext(ctx, &links,
		"SELECT recipe_id, type_id FROM recipe_types WHERE recipe_id = ANY($1) ORDER BY type_id", idArr)
	if err != nil {
		return fmt.Errorf("failed to load recipe types: %w", err)
	}
	if len(links) == 0 {
		return nil
	}

	typeIDs := make([]int64, 0, len(links))
	seen := make(map[int64]bool, len(links))
	for _, link := range links {
		if !seen[link.TypeID] {
			seen[link.TypeID] = true
			typeIDs = append(typeIDs, link.TypeID)
		}
	}

	var rows []struct {
		TypeID   int64  `db:"type_id"`
		Language string `db:"language"`
		Name     string `db:"name"`
	}
	err = s.db.SelectContext(ctx, &rows,
		"SELECT type_id, language, name FROM type_translations WHERE type_id = ANY($1)", pq.Array(typeIDs))
	if err != nil {
		return fmt.Errorf("failed to load type translations: %w", err)
	}
	translationsByType := make(map[int64][]TypeTranslation)
	for _, row := range rows {
		translationsByType[row.TypeID] = append(translationsByType[row.TypeID],
			TypeTranslation{Language: row.Language, Name: row.Name})
	}

	for _, link := range links {
		r := byID[link.RecipeID]
		r.Types = append(r.Types, Type{ID: link.TypeID, Translations: translationsByType[link.TypeID]})
	}
	return nil
}

func (s *PostgresStore) loadQuantities(ctx context.Context, byID map[int64]*Recipe, idArr any) error {
	var rows []struct {
		RecipeID     int64   `db:"recipe_id"`
		IngredientID int64   `db:"ingredient_id"`
		Name         string  `db:"name"`
		Quantity     float64 `db:"quantity"`
		Unit         string  `db:"unit"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT q.recipe_id, q.ingredient_id, i.name, q.quantity, q.unit
		FROM ingredient_quantities q
		JOIN ingredients i ON i.id = q.ingredient_id
		WHERE q.recipe_id = ANY($1)
		ORDER BY q.ingredient_id`, idArr)
	if err != nil {
		return fmt.Errorf("failed to load ingredient quantities: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	ingredientIDs := make([]int64, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if !seen[row.IngredientID] {
			seen[row.IngredientID] = true
			ingredientIDs = append(ingredientIDs, row.IngredientID)
		}
	}

	var trRows []struct {
		IngredientID int64  `db:"ingredient_id"`
		Language     string `db:"language"`
		Name         string `db:"name"`
	}
	err = s.db.SelectContext(ctx, &trRows,
		"SELECT ingredient_id, language, name FROM ingredient_translations WHERE ingredient_id = ANY($1)",
		pq.Array(ingredientIDs))
	if err != nil {
		return fmt.Errorf("failed to load ingredient translations: %w", err)
	}
	translationsByIngredient := make(map[int64][]IngredientTranslation)
	for _, row := range trRows {
		translationsByIngredient[row.IngredientID] = append(translationsByIngredient[row.IngredientID],
			IngredientTranslation{Language: row.Language, Name: row.Name})
	}

	for _, row := range rows {
		r := byID[row.RecipeID]
		r.Ingredients = append(r.Ingredients, IngredientQuantity{
			IngredientID: row.IngredientID,
			Name:         row.Name,
			Quantity:     row.Quantity,
			Unit:         row.Unit,
			Translations: translationsByIngredient[row.IngredientID],
		})
	}
	return nil
}

// classify maps integrity violations onto the store sentinels so handlers can
// report them as validation input errors instead of opaque 500s.
func classify(err error) error {
	if pqCode(err, "23505") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	if pqCode(err, "23503") {
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}

func pqCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
