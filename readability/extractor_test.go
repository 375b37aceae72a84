package readability_test

import (
	"testing"

	"github.com/fwojciec/linguacrawl"
	"github.com/fwojciec/linguacrawl/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("returns article text without menus", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html lang="es">
<body>
<nav><a href="/">Inicio</a><a href="/en/">English version</a></nav>
<article>
<p>La biblioteca municipal abre sus puertas todos los días laborables desde las nueve de la mañana.</p>
<p>Los lectores pueden consultar periódicos, revistas y libros en varias lenguas cooficiales.</p>
</article>
</body>
</html>`

		text, err := readability.NewExtractor().ExtractText(html)

		require.NoError(t, err)
		assert.Contains(t, text, "biblioteca municipal")
		assert.Contains(t, text, "lenguas cooficiales")
		assert.NotContains(t, text, "English version")
	})

	t.Run("strips inline markup", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><p>Texto <em>sin</em> etiquetas en el resultado final de la extracción del artículo principal.</p></article></body></html>`

		text, err := readability.NewExtractor().ExtractText(html)

		require.NoError(t, err)
		assert.NotContains(t, text, "<em>")
		assert.Contains(t, text, "Texto sin etiquetas")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().ExtractText("")

		assert.Equal(t, linguacrawl.EINVALID, linguacrawl.ErrorCode(err))
	})
}
