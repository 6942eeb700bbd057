package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "", DetectLanguage("   "))
	assert.Equal(t, "es", DetectLanguage("Hola a todos, hoy es un día muy bonito para salir a caminar por el parque con mis amigos."))
	assert.Equal(t, "en", DetectLanguage("The quick brown fox jumps over the lazy dog while the children are playing in the garden."))
}
