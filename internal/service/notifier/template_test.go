package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesVariables(t *testing.T) {
	out := Render("Olá {{name}}! Treinamento {{training}}.", map[string]string{
		"name":     "Ana",
		"training": "Imunização",
	})
	assert.Equal(t, "Olá Ana! Treinamento Imunização.", out)
}

func TestRenderLeavesUnmatchedPlaceholders(t *testing.T) {
	out := Render("Hi {{name}}, {{missing}}", map[string]string{"name": "Ana"})
	assert.Equal(t, "Hi Ana, {{missing}}", out)
}

func TestRenderIgnoresExtraVariables(t *testing.T) {
	out := Render("no placeholders here", map[string]string{"name": "Ana"})
	assert.Equal(t, "no placeholders here", out)
}

func TestTemplateStoreDefaults(t *testing.T) {
	store, err := NewTemplateStore("")
	require.NoError(t, err)

	tpl, ok := store.Get(KindConfirmation)
	require.True(t, ok)
	assert.Contains(t, tpl, "{{name}}")

	_, ok = store.Get("unknown-kind")
	assert.False(t, ok)
}

func TestTemplateStorePersistsEdits(t *testing.T) {
	path := t.TempDir() + "/templates.json"

	store, err := NewTemplateStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KindConfirmation, "Oi {{name}}, confirmado!"))

	reloaded, err := NewTemplateStore(path)
	require.NoError(t, err)

	tpl, ok := reloaded.Get(KindConfirmation)
	require.True(t, ok)
	assert.Equal(t, "Oi {{name}}, confirmado!", tpl)

	// Kinds that were never edited keep their defaults.
	tpl, ok = reloaded.Get(KindStatusChange)
	require.True(t, ok)
	assert.Equal(t, DefaultTemplates()[KindStatusChange], tpl)
}
