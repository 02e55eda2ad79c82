package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Notification kinds with a template.
const (
	KindConfirmation = "confirmation"
	KindStatusChange = "status_change"
)

// DefaultTemplates seed the store on first start. Placeholders use the
// {{variable}} form.
func DefaultTemplates() map[string]string {
	return map[string]string{
		KindConfirmation: "Olá {{name}}! Sua inscrição no treinamento {{training}} foi confirmada para {{date}}.",
		KindStatusChange: "Olá {{name}}! O status da sua inscrição no treinamento {{training}} mudou para {{status}}.",
	}
}

// Render substitutes every {{key}} occurrence with the matching variable.
// Placeholders with no matching variable are left literally in place, so
// rendering never fails on missing data.
func Render(template string, variables map[string]string) string {
	out := template
	for key, value := range variables {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// TemplateStore holds the editable message templates, persisted locally
// through the same load/save adapter shape the status registry uses.
type TemplateStore struct {
	mu        sync.RWMutex
	path      string
	templates map[string]string
}

func NewTemplateStore(path string) (*TemplateStore, error) {
	s := &TemplateStore{
		path:      path,
		templates: DefaultTemplates(),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template store: %w", err)
	}

	var saved map[string]string
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to decode template store: %w", err)
	}
	for kind, tpl := range saved {
		s.templates[kind] = tpl
	}
	return s, nil
}

func (s *TemplateStore) Get(kind string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[kind]
	return tpl, ok
}

func (s *TemplateStore) List() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.templates))
	for kind, tpl := range s.templates {
		out[kind] = tpl
	}
	return out
}

func (s *TemplateStore) Set(kind, template string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.templates[kind]
	s.templates[kind] = template
	if err := s.persist(); err != nil {
		if had {
			s.templates[kind] = prev
		} else {
			delete(s.templates, kind)
		}
		return err
	}
	return nil
}

func (s *TemplateStore) persist() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.templates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode template store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create template store dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write template store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace template store: %w", err)
	}
	return nil
}
