package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func req(id int64, qty float64, unit string) IngredientQuantity {
	return IngredientQuantity{IngredientID: id, Quantity: qty, Unit: unit}
}

func TestMatchNoRequirements(t *testing.T) {
	assert.Equal(t, CanMake, Match(nil, nil))
	assert.Equal(t, CanMake, Match([]IngredientQuantity{}, map[int64]PantryQuantity{}))
}

func TestMatchOnlyTasteRequirements(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 0, "taste"),
		req(2, 0, " Taste "),
	}
	// Empty pantry, yet nothing blocks.
	assert.Equal(t, CanMake, Match(required, map[int64]PantryQuantity{}))
}

func TestMatchCanMake(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 200, "g"),
		req(2, 2, "units"),
		req(3, 0, "taste"),
	}
	pantry := map[int64]PantryQuantity{
		1: {Quantity: 500, Unit: "g"},
		2: {Quantity: 2, Unit: "units"},
	}
	assert.Equal(t, CanMake, Match(required, pantry))
}

func TestMatchNotEnough(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 200, "g"),
		req(2, 3, "units"),
	}
	pantry := map[int64]PantryQuantity{
		1: {Quantity: 100, Unit: "g"},
		2: {Quantity: 3, Unit: "units"},
	}
	assert.Equal(t, NotEnough, Match(required, pantry))
}

func TestMatchDifferentUnits(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 200, "g"),
	}
	pantry := map[int64]PantryQuantity{
		// More than enough by magnitude, but units never convert.
		1: {Quantity: 5, Unit: "kg"},
	}
	assert.Equal(t, DifferentUnits, Match(required, pantry))
}

func TestMatchMissing(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 200, "g"),
		req(2, 1, "units"),
	}
	pantry := map[int64]PantryQuantity{
		1: {Quantity: 500, Unit: "g"},
	}
	assert.Equal(t, Missing, Match(required, pantry))
}

func TestMatchMissingDominatesEverything(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 200, "g"),  // short
		req(2, 1, "l"),    // wrong unit
		req(3, 1, "unit"), // absent
	}
	pantry := map[int64]PantryQuantity{
		1: {Quantity: 50, Unit: "g"},
		2: {Quantity: 3, Unit: "ml"},
	}
	assert.Equal(t, Missing, Match(required, pantry))
}

func TestMatchUnitMismatchDominatesShortage(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 200, "g"), // short
		req(2, 1, "l"),   // wrong unit
	}
	pantry := map[int64]PantryQuantity{
		1: {Quantity: 50, Unit: "g"},
		2: {Quantity: 3, Unit: "ml"},
	}
	assert.Equal(t, DifferentUnits, Match(required, pantry))
}

func TestMatchUnitsCompareCaseInsensitively(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 100, "G"),
	}
	pantry := map[int64]PantryQuantity{
		1: {Quantity: 100, Unit: " g "},
	}
	assert.Equal(t, CanMake, Match(required, pantry))
}

func TestMatchExactQuantityIsEnough(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 100, "g"),
	}
	pantry := map[int64]PantryQuantity{
		1: {Quantity: 100, Unit: "g"},
	}
	assert.Equal(t, CanMake, Match(required, pantry))
}

func TestMatchTasteIngredientNeverBlocks(t *testing.T) {
	required := []IngredientQuantity{
		req(1, 100, "g"),
		req(2, 0, "taste"), // not in pantry at all
	}
	pantry := map[int64]PantryQuantity{
		1: {Quantity: 100, Unit: "g"},
	}
	assert.Equal(t, CanMake, Match(required, pantry))
}

func TestNormalizeUnit(t *testing.T) {
	assert.Equal(t, "g", NormalizeUnit("  G "))
	assert.Equal(t, "units", NormalizeUnit("Units"))
	assert.Equal(t, "", NormalizeUnit("   "))
}

func TestAvailabilityStrings(t *testing.T) {
	assert.Equal(t, "CAN_MAKE", CanMake.String())
	assert.Equal(t, "NOT_ENOUGH", NotEnough.String())
	assert.Equal(t, "DIFFERENT_UNITS", DifferentUnits.String())
	assert.Equal(t, "MISSING", Missing.String())
}

func TestAvailabilityKeys(t *testing.T) {
	assert.Equal(t, "match.can_make", CanMake.Key())
	assert.Equal(t, "match.not_enough", NotEnough.Key())
	assert.Equal(t, "match.different_units", DifferentUnits.Key())
	assert.Equal(t, "match.missing", Missing.Key())
}
