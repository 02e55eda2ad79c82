package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treinasus/admin-api/internal/model"
)

type failingStore struct {
	*MemoryStore
	failSave bool
}

func (s *failingStore) Save(statuses []model.ClassStatus) error {
	if s.failSave {
		return errors.New("disk full")
	}
	return s.MemoryStore.Save(statuses)
}

func TestRegistrySeedsDefaultsWhenEmpty(t *testing.T) {
	store := NewMemoryStore(nil)
	registry, err := NewRegistry(store)
	require.NoError(t, err)

	statuses := registry.List()
	assert.Len(t, statuses, len(model.DefaultClassStatuses()))

	// Defaults must also have been written back to the store.
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, statuses, saved)
}

func TestRegistryKeepsExistingEntries(t *testing.T) {
	seed := []model.ClassStatus{{ID: "x", Name: "Custom", Color: "#000000"}}
	registry, err := NewRegistry(NewMemoryStore(seed))
	require.NoError(t, err)

	assert.Equal(t, seed, registry.List())
}

func TestRegistryGetColorUnknownName(t *testing.T) {
	registry, err := NewRegistry(NewMemoryStore(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultColor, registry.GetColor("No Such Status"))
	assert.Equal(t, "#22c55e", registry.GetColor("Open"))
}

// The default statuses assigned on create must resolve to a seeded
// color, not the unknown-name fallback.
func TestRegistrySeedsCoverDefaultEntityStatuses(t *testing.T) {
	registry, err := NewRegistry(NewMemoryStore(nil))
	require.NoError(t, err)

	assert.NotEqual(t, DefaultColor, registry.GetColor("Scheduled"))
	assert.NotEqual(t, DefaultColor, registry.GetColor("Planned"))
}

func TestRegistryAddAndUpdate(t *testing.T) {
	registry, err := NewRegistry(NewMemoryStore(nil))
	require.NoError(t, err)

	st, err := registry.Add("Waitlisted", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultColor, st.Color)

	newName := "Wait List"
	updated, err := registry.Update(st.ID, UpdateStatusPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Wait List", updated.Name)
	assert.Equal(t, DefaultColor, updated.Color)
}

func TestRegistryUpdateUnknownID(t *testing.T) {
	registry, err := NewRegistry(NewMemoryStore(nil))
	require.NoError(t, err)

	name := "Anything"
	_, err = registry.Update("missing", UpdateStatusPatch{Name: &name})
	assert.Error(t, err)
}

func TestRegistryDeleteDoesNotCascade(t *testing.T) {
	registry, err := NewRegistry(NewMemoryStore(nil))
	require.NoError(t, err)

	st, ok := registry.GetByName("Cancelled")
	require.True(t, ok)
	require.NoError(t, registry.Delete(st.ID))

	// Rows that stored the name keep it as free text; the registry now
	// renders it with the default color.
	_, ok = registry.GetByName("Cancelled")
	assert.False(t, ok)
	assert.Equal(t, DefaultColor, registry.GetColor("Cancelled"))
}

func TestRegistryRollsBackOnSaveFailure(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(nil)}
	registry, err := NewRegistry(store)
	require.NoError(t, err)

	before := registry.List()
	store.failSave = true

	_, err = registry.Add("Doomed", "#123456")
	assert.Error(t, err)
	assert.Equal(t, before, registry.List())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/statuses.json"
	store := NewFileStore(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	seed := model.DefaultClassStatuses()
	require.NoError(t, store.Save(seed))

	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, seed, loaded)
}
