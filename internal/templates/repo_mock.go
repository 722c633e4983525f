package templates

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type repoMock struct {
	mu        sync.Mutex
	templates map[string]Template
}

func NewMockTemplatesRepo() *repoMock {
	return &repoMock{
		templates: map[string]Template{},
	}
}

func (m *repoMock) Add(_ context.Context, template Template) (*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	if template.CreatedAt.IsZero() {
		template.CreatedAt = time.Now()
	}
	m.templates[template.ID] = template
	return &template, nil
}

func (m *repoMock) Get(_ context.Context, id string) (*Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	template, ok := m.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return &template, nil
}

func (m *repoMock) ListGlobal(_ context.Context) ([]Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var templates []Template
	for _, t := range m.templates {
		if t.IsGlobal {
			templates = append(templates, t)
		}
	}
	sortTemplates(templates)
	return templates, nil
}

func (m *repoMock) ListForUser(_ context.Context, userID string) ([]Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var templates []Template
	for _, t := range m.templates {
		if !t.IsGlobal && t.UserID == userID {
			templates = append(templates, t)
		}
	}
	sortTemplates(templates)
	return templates, nil
}

func (m *repoMock) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return ErrTemplateNotFound
	}
	delete(m.templates, id)
	return nil
}

func (m *repoMock) DeleteAllForUser(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, t := range m.templates {
		if !t.IsGlobal && t.UserID == userID {
			delete(m.templates, id)
			removed++
		}
	}
	return removed, nil
}

func sortTemplates(templates []Template) {
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
}
