package invoice

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	domorder "github.com/oculare/shop-backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(t *testing.T) *domorder.Order {
	t.Helper()

	o, err := domorder.New("Alice Doe", "alice@example.com", "+34 600 000 000",
		"Calle Mayor 1, Madrid", "Portable Eye Massager", 2)
	require.NoError(t, err)
	o.ID = 1
	return o
}

func TestRenderWritesPDFArtifact(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewPDFRenderer(dir)
	require.NoError(t, err)

	inv, err := renderer.Render(context.Background(), testOrder(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.Filename, "invoice_"))
	assert.True(t, strings.HasSuffix(inv.Filename, ".pdf"))

	content, err := os.ReadFile(inv.Path)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"), "artifact must be a PDF document")
}

func TestRenderProducesUniqueArtifacts(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewPDFRenderer(dir)
	require.NoError(t, err)

	first, err := renderer.Render(context.Background(), testOrder(t))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := renderer.Render(context.Background(), testOrder(t))
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename)
}
