// Package i18n holds the fixed two-locale message catalog. Spanish is the
// first-listed locale and acts as the fallback for unrecognized language tags.
package i18n

// Fallback is the language used when a message has no entry for the
// requested language.
const Fallback = "es"

var messages = map[string]map[string]string{
	"ingredients.required": {
		"es": "Debes proporcionar al menos un ingrediente.",
		"en": "You must provide at least one ingredient.",
	},
	"recipes.name_required": {
		"es": "Debes proporcionar un nombre de receta.",
		"en": "You must provide a recipe name.",
	},
	"recipes.type_required": {
		"es": "Debes proporcionar un tipo de receta.",
		"en": "You must provide a recipe type.",
	},
	"recipes.none": {
		"es": "No se encontraron recetas.",
		"en": "No recipes found.",
	},
	"recipes.none_for_ingredients": {
		"es": "No se encontraron recetas con esos ingredientes.",
		"en": "No recipes found with those ingredients.",
	},
	"recipes.none_by_name": {
		"es": "No se encontraron recetas con ese nombre.",
		"en": "No recipes found with that name.",
	},
	"recipes.none_by_type": {
		"es": "No se encontraron recetas de ese tipo.",
		"en": "No recipes found of that type.",
	},
	"recipes.none_favourite": {
		"es": "No se encontraron recetas favoritas.",
		"en": "No favourite recipes found.",
	},
	"recipes.none_created": {
		"es": "No se encontraron recetas creadas por ti.",
		"en": "No recipes created by you found.",
	},
	"recipes.not_found": {
		"es": "Receta no encontrada.",
		"en": "Recipe not found.",
	},
	"recipes.forbidden": {
		"es": "No tienes permiso para hacer esto.",
		"en": "You do not have permission to do this.",
	},
	"recipes.created": {
		"es": "Receta creada.",
		"en": "Recipe created.",
	},
	"recipes.updated": {
		"es": "Receta actualizada.",
		"en": "Recipe updated.",
	},
	"recipes.deleted": {
		"es": "Receta eliminada.",
		"en": "Recipe deleted.",
	},
	"recipes.marked_private": {
		"es": "Receta marcada como privada.",
		"en": "Recipe marked as private.",
	},
	"recipes.marked_public": {
		"es": "Receta marcada como pública.",
		"en": "Recipe marked as public.",
	},
	"favourites.added": {
		"es": "Receta añadida a tus favoritos.",
		"en": "Recipe added to your favourites.",
	},
	"favourites.removed": {
		"es": "Receta eliminada de tus favoritos.",
		"en": "Recipe removed from your favourites.",
	},
	"favourites.exists": {
		"es": "Receta ya está en tus favoritos.",
		"en": "Recipe already in your favourites.",
	},
	"favourites.not_found": {
		"es": "Favorito no encontrado.",
		"en": "Favourite not found.",
	},
	"pantry.empty": {
		"es": "No tienes ingredientes",
		"en": "You have no ingredients",
	},
	"pantry.duplicate": {
		"es": "El ingrediente ya existe en tu lista",
		"en": "The ingredient already exists in your list",
	},
	"pantry.added": {
		"es": "Ingrediente añadido",
		"en": "Ingredient added",
	},
	"pantry.updated": {
		"es": "Ingrediente actualizado",
		"en": "Ingredient updated",
	},
	"pantry.deleted": {
		"es": "Ingrediente eliminado",
		"en": "Ingredient deleted",
	},
	"pantry.deleted_all": {
		"es": "Todos los ingredientes eliminados",
		"en": "All ingredients deleted",
	},
	"ingredients.not_found": {
		"es": "Ingrediente no encontrado",
		"en": "Ingredient not found",
	},
	"translation.missing": {
		"es": "Sin traducción",
		"en": "No translation",
	},
	"match.can_make": {
		"es": "Puedes prepararla",
		"en": "You can make it",
	},
	"match.not_enough": {
		"es": "No tienes suficiente cantidad",
		"en": "Not enough of some ingredients",
	},
	"match.different_units": {
		"es": "Tienes unidades distintas",
		"en": "Different units for some ingredients",
	},
	"match.missing": {
		"es": "Te faltan ingredientes",
		"en": "Missing ingredients",
	},
}

// T returns the message for key in the requested language. Unknown languages
// fall back to Spanish; unknown keys return the key itself so a missing
// catalog entry is visible in the response rather than silent.
func T(lang, key string) string {
	byLang, ok := messages[key]
	if !ok {
		return key
	}
	if msg, ok := byLang[lang]; ok {
		return msg
	}
	return byLang[Fallback]
}

// Or returns lang when set, the fallback language otherwise.
func Or(lang string) string {
	if lang == "" {
		return Fallback
	}
	return lang
}
