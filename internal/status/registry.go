package status

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/treinasus/admin-api/internal/model"
	apperrors "github.com/treinasus/admin-api/pkg/errors"
)

// DefaultColor is returned for status names the registry does not know.
const DefaultColor = "#9ca3af"

// Registry is the single source of truth for the editable vocabulary of
// status labels and colors shared by class and appointment views. It is
// constructed once at startup with an injected Store and writes back on
// every mutation. Names are not unique, and deleting an entry does not
// touch rows that stored its name as free text.
type Registry struct {
	mu       sync.RWMutex
	store    Store
	statuses []model.ClassStatus
}

type UpdateStatusPatch struct {
	Name  *string
	Color *string
}

func NewRegistry(store Store) (*Registry, error) {
	statuses, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load status registry: %w", err)
	}
	if len(statuses) == 0 {
		statuses = model.DefaultClassStatuses()
		if err := store.Save(statuses); err != nil {
			return nil, fmt.Errorf("failed to seed status registry: %w", err)
		}
	}

	return &Registry{
		store:    store,
		statuses: statuses,
	}, nil
}

func (r *Registry) List() []model.ClassStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.ClassStatus(nil), r.statuses...)
}

func (r *Registry) Add(name, color string) (*model.ClassStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := model.ClassStatus{
		ID:    uuid.New().String(),
		Name:  name,
		Color: color,
	}
	if st.Color == "" {
		st.Color = DefaultColor
	}

	r.statuses = append(r.statuses, st)
	if err := r.store.Save(r.statuses); err != nil {
		r.statuses = r.statuses[:len(r.statuses)-1]
		return nil, err
	}
	return &st, nil
}

func (r *Registry) Update(id string, patch UpdateStatusPatch) (*model.ClassStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.statuses {
		if r.statuses[i].ID != id {
			continue
		}
		prev := r.statuses[i]
		if patch.Name != nil {
			r.statuses[i].Name = *patch.Name
		}
		if patch.Color != nil {
			r.statuses[i].Color = *patch.Color
		}
		if err := r.store.Save(r.statuses); err != nil {
			r.statuses[i] = prev
			return nil, err
		}
		st := r.statuses[i]
		return &st, nil
	}
	return nil, apperrors.NotFound("class status", nil)
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.statuses {
		if r.statuses[i].ID != id {
			continue
		}
		next := append(append([]model.ClassStatus(nil), r.statuses[:i]...), r.statuses[i+1:]...)
		if err := r.store.Save(next); err != nil {
			return err
		}
		r.statuses = next
		return nil
	}
	return apperrors.NotFound("class status", nil)
}

// GetByName returns the first entry with the given name. Duplicate names
// may exist; callers get the earliest one.
func (r *Registry) GetByName(name string) (*model.ClassStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.statuses {
		if r.statuses[i].Name == name {
			st := r.statuses[i]
			return &st, true
		}
	}
	return nil, false
}

// GetColor never fails: unknown names get the neutral default color.
func (r *Registry) GetColor(name string) string {
	if st, ok := r.GetByName(name); ok {
		return st.Color
	}
	return DefaultColor
}
