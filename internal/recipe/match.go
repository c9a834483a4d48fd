package recipe

import "strings"

// tasteUnit marks "to taste" requirements ("salt to taste"); they never block
// availability.
const tasteUnit = "taste"

// Availability classifies whether a pantry covers a recipe's requirements.
type Availability int

const (
	// CanMake means every required ingredient is present in a sufficient,
	// unit-compatible quantity.
	CanMake Availability = iota
	// NotEnough means every required ingredient is present with a matching
	// unit, but at least one falls short of the required quantity.
	NotEnough
	// DifferentUnits means every required ingredient is present, but at least
	// one is stored in a unit that differs from the required one. Quantities
	// in different units are never compared.
	DifferentUnits
	// Missing means at least one required ingredient is absent from the
	// pantry altogether.
	Missing
)

// Key returns the message-catalog key for the classification.
func (a Availability) Key() string {
	switch a {
	case NotEnough:
		return "match.not_enough"
	case DifferentUnits:
		return "match.different_units"
	case Missing:
		return "match.missing"
	default:
		return "match.can_make"
	}
}

func (a Availability) String() string {
	switch a {
	case NotEnough:
		return "NOT_ENOUGH"
	case DifferentUnits:
		return "DIFFERENT_UNITS"
	case Missing:
		return "MISSING"
	default:
		return "CAN_MAKE"
	}
}

// PantryQuantity is what a user owns of one ingredient.
type PantryQuantity struct {
	Quantity float64 `db:"quantity" json:"quantity"`
	Unit     string  `db:"unit" json:"unit"`
}

// NormalizeUnit lower-cases and trims a unit string. Two units are compatible
// iff their normalized forms are equal; no unit-system conversion (g vs kg,
// ml vs l) is attempted.
func NormalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// Match classifies one recipe's requirements against a pantry keyed by
// ingredient id. Every non-"taste" tuple is inspected so the result reflects
// the worst condition found: a missing ingredient dominates a unit mismatch,
// which dominates an insufficient quantity. A recipe with no non-"taste"
// requirements is CanMake regardless of the pantry.
func Match(required []IngredientQuantity, pantry map[int64]PantryQuantity) Availability {
	var missing, mismatched, short int
	for _, req := range required {
		if NormalizeUnit(req.Unit) == tasteUnit {
			continue
		}
		owned, ok := pantry[req.IngredientID]
		switch {
		case !ok:
			missing++
		case NormalizeUnit(owned.Unit) != NormalizeUnit(req.Unit):
			mismatched++
		case owned.Quantity < req.Quantity:
			short++
		}
	}
	switch {
	case missing > 0:
		return Missing
	case mismatched > 0:
		return DifferentUnits
	case short > 0:
		return NotEnough
	default:
		return CanMake
	}
}
