package exercises

import (
	"context"
	"sort"
	"sync"
	"time"
)

// repoMock keeps exercises in memory, keyed by scope. The global scope uses
// an empty user id key.
type repoMock struct {
	mu        sync.Mutex
	exercises map[string]map[string]Exercise
	knownUser map[string]bool
}

func NewMockExercisesRepo() *repoMock {
	return &repoMock{
		exercises: map[string]map[string]Exercise{
			"": {},
		},
		knownUser: map[string]bool{},
	}
}

func (m *repoMock) AddKnownUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.knownUser[userID] = true
}

func (m *repoMock) add(userID string, exercise Exercise) (*Exercise, error) {
	scope, ok := m.exercises[userID]
	if !ok {
		scope = map[string]Exercise{}
		m.exercises[userID] = scope
	}
	if _, ok := scope[exercise.ExerciseID]; ok {
		return nil, ErrExerciseExists
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now()
	}
	exercise.UserID = userID
	scope[exercise.ExerciseID] = exercise
	return &exercise, nil
}

func (m *repoMock) AddGlobal(_ context.Context, exercise Exercise) (*Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add("", exercise)
}

func (m *repoMock) AddCustom(_ context.Context, userID string, exercise Exercise) (*Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.knownUser) > 0 && !m.knownUser[userID] {
		return nil, ErrOwnerNotFound
	}
	return m.add(userID, exercise)
}

func (m *repoMock) list(userID string) []Exercise {
	var exercises []Exercise
	for _, ex := range m.exercises[userID] {
		exercises = append(exercises, ex)
	}
	sort.Slice(exercises, func(i, j int) bool {
		return exercises[i].Name < exercises[j].Name
	})
	return exercises
}

func (m *repoMock) ListGlobal(_ context.Context) ([]Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(""), nil
}

func (m *repoMock) ListCustomForUser(_ context.Context, userID string) ([]Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(userID), nil
}

func (m *repoMock) DeleteGlobal(_ context.Context, exerciseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exercises[""][exerciseID]; !ok {
		return ErrExerciseNotFound
	}
	delete(m.exercises[""], exerciseID)
	return nil
}

func (m *repoMock) DeleteCustom(_ context.Context, userID, exerciseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exercises[userID][exerciseID]; !ok {
		return ErrExerciseNotFound
	}
	delete(m.exercises[userID], exerciseID)
	return nil
}

func (m *repoMock) DeleteAllCustomForUser(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := len(m.exercises[userID])
	delete(m.exercises, userID)
	return removed, nil
}
