package service

import (
	"context"
	"sort"
	"sync"

	"github.com/mkpass/mkpass-go/internal/model"
	"github.com/mkpass/mkpass-go/internal/repository"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*model.User{}}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	s.users[user.Email] = &stored
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type profileKey struct {
	userID int64
	name   string
}

type memProfileStore struct {
	mu       sync.Mutex
	profiles map[profileKey]model.Profile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: map[profileKey]model.Profile{}}
}

func (s *memProfileStore) Upsert(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profileKey{p.UserID, p.Name}] = *p
	return nil
}

func (s *memProfileStore) Get(_ context.Context, userID int64, name string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[profileKey{userID, name}]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (s *memProfileStore) ListByUser(_ context.Context, userID int64) ([]model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Profile
	for k, p := range s.profiles {
		if k.userID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memProfileStore) Delete(_ context.Context, userID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := profileKey{userID, name}
	if _, ok := s.profiles[k]; !ok {
		return repository.ErrProfileNotFound
	}
	delete(s.profiles, k)
	return nil
}
