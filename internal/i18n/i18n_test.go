package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTKnownLanguages(t *testing.T) {
	assert.Equal(t, "Puedes prepararla", T("es", "match.can_make"))
	assert.Equal(t, "You can make it", T("en", "match.can_make"))
}

func TestTUnknownLanguageFallsBackToSpanish(t *testing.T) {
	assert.Equal(t, "Receta no encontrada.", T("fr", "recipes.not_found"))
	assert.Equal(t, "Receta no encontrada.", T("", "recipes.not_found"))
}

func TestTUnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "no.such.key", T("es", "no.such.key"))
}

func TestOr(t *testing.T) {
	assert.Equal(t, Fallback, Or(""))
	assert.Equal(t, "en", Or("en"))
}

func TestEveryMessageHasBothLocales(t *testing.T) {
	for key, byLang := range messages {
		assert.Contains(t, byLang, "es", "key %s missing es", key)
		assert.Contains(t, byLang, "en", "key %s missing en", key)
	}
}
