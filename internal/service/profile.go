package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/mkpass/mkpass-go/internal/model"
	"github.com/mkpass/mkpass-go/internal/repository"
)

var (
	ErrInvalidProfileName = errors.New("profile name must be 1-64 letters, digits, '-' or '_'")
	ErrProfileNotFound    = errors.New("profile not found")
)

var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ProfileStore is the persistence ProfileService needs.
type ProfileStore interface {
	Upsert(ctx context.Context, p *model.Profile) error
	Get(ctx context.Context, userID int64, name string) (*model.Profile, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Profile, error)
	Delete(ctx context.Context, userID int64, name string) error
}

// ProfileService manages saved requirement profiles and generates
// passwords from them.
type ProfileService struct {
	store     ProfileStore
	generator *GeneratorService
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store ProfileStore, generator *GeneratorService) *ProfileService {
	return &ProfileService{store: store, generator: generator}
}

// Save stores the validated form of req under name, replacing any
// existing profile with that name.
func (s *ProfileService) Save(ctx context.Context, userID int64, name string, req model.GenerateRequest) (model.ProfileResponse, error) {
	if !profileNamePattern.MatchString(name) {
		return model.ProfileResponse{}, ErrInvalidProfileName
	}

	r := ToModel(s.generator.Requirements(req).Validate())
	p := &model.Profile{
		UserID:        userID,
		Name:          name,
		Length:        r.Length,
		Numbers:       r.Numbers,
		Specials:      r.Specials,
		FirstIsLetter: r.FirstIsLetter,
		AllowRepeats:  r.AllowRepeats,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.store.Upsert(ctx, p); err != nil {
		return model.ProfileResponse{}, err
	}
	return profileResponse(*p), nil
}

// List returns every profile the user owns.
func (s *ProfileService) List(ctx context.Context, userID int64) ([]model.ProfileResponse, error) {
	profiles, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]model.ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = profileResponse(p)
	}
	return resp, nil
}

// Delete removes a profile.
func (s *ProfileService) Delete(ctx context.Context, userID int64, name string) error {
	err := s.store.Delete(ctx, userID, name)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return ErrProfileNotFound
	}
	return err
}

// Generate produces passwords from a saved profile.
func (s *ProfileService) Generate(ctx context.Context, userID int64, name string, count int, hash bool) (model.GenerateResponse, error) {
	p, err := s.store.Get(ctx, userID, name)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return model.GenerateResponse{}, ErrProfileNotFound
		}
		return model.GenerateResponse{}, err
	}
	return s.generator.GenerateFor(FromModel(profileRequirements(*p)), count, hash)
}

func profileRequirements(p model.Profile) model.Requirements {
	return model.Requirements{
		Length:        p.Length,
		Numbers:       p.Numbers,
		Specials:      p.Specials,
		FirstIsLetter: p.FirstIsLetter,
		AllowRepeats:  p.AllowRepeats,
	}
}

func profileResponse(p model.Profile) model.ProfileResponse {
	return model.ProfileResponse{
		Name:         p.Name,
		Requirements: profileRequirements(p),
		UpdatedAt:    p.UpdatedAt,
	}
}
