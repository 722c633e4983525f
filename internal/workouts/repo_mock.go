package workouts

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type repoMock struct {
	mu       sync.Mutex
	workouts map[string]Workout
}

func NewMockWorkoutsRepo() *repoMock {
	return &repoMock{
		workouts: map[string]Workout{},
	}
}

func (m *repoMock) Add(_ context.Context, workout Workout) (*Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	m.workouts[workout.ID] = workout
	return &workout, nil
}

func (m *repoMock) Get(_ context.Context, id string) (*Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	workout, ok := m.workouts[id]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	return &workout, nil
}

func (m *repoMock) ListForUser(_ context.Context, userID string) ([]Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var workouts []Workout
	for _, w := range m.workouts {
		if w.UserID == userID {
			workouts = append(workouts, w)
		}
	}
	sort.Slice(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
	return workouts, nil
}

func (m *repoMock) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workouts[id]; !ok {
		return ErrWorkoutNotFound
	}
	delete(m.workouts, id)
	return nil
}

func (m *repoMock) DeleteAllForUser(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, w := range m.workouts {
		if w.UserID == userID {
			delete(m.workouts, id)
			removed++
		}
	}
	return removed, nil
}
