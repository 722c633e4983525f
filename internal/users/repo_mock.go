package users

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type repoMock struct {
	users map[string]*User
}

func NewMockUsersRepo() *repoMock {
	return &repoMock{
		users: make(map[string]*User),
	}
}

func (r *repoMock) Add(_ context.Context, user User) (*User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID] = &user
	return &user, nil
}

func (r *repoMock) Get(_ context.Context, id string) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *repoMock) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *repoMock) List(context.Context) ([]User, error) {
	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *repoMock) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
