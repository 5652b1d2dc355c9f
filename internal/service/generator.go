package service

import (
	"errors"
	"math"

	"github.com/mkpass/mkpass-go/internal/crypto"
	"github.com/mkpass/mkpass-go/internal/model"
)

// MaxCount caps how many passwords one request may ask for.
const MaxCount = 50

var ErrCountOutOfRange = errors.New("count must be between 1 and 50")

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	defaults  crypto.Requirements
	newSource func() crypto.Source
}

// NewGeneratorService creates a GeneratorService that fills missing request
// fields from defaults and draws from the system's secure random source.
func NewGeneratorService(defaults crypto.Requirements) *GeneratorService {
	return &GeneratorService{defaults: defaults, newSource: crypto.NewSource}
}

// NewGeneratorServiceWithSource is like NewGeneratorService but takes a
// factory for the random source. The factory is called once per request.
func NewGeneratorServiceWithSource(defaults crypto.Requirements, newSource func() crypto.Source) *GeneratorService {
	return &GeneratorService{defaults: defaults, newSource: newSource}
}

// Defaults returns the requirements used for missing request fields.
func (s *GeneratorService) Defaults() crypto.Requirements {
	return s.defaults
}

// Requirements merges req over the service defaults without validating.
func (s *GeneratorService) Requirements(req model.GenerateRequest) crypto.Requirements {
	r := s.defaults
	if req.Length != nil {
		r.Length = clampUint16(*req.Length)
	}
	if req.Numbers != nil {
		r.Digits = clampUint16(*req.Numbers)
	}
	if req.Specials != nil {
		r.Specials = clampUint16(*req.Specials)
	}
	if req.FirstIsLetter != nil {
		r.FirstIsLetter = *req.FirstIsLetter
	}
	if req.AllowRepeats != nil {
		r.AllowRepeats = *req.AllowRepeats
	}
	return r
}

// Validate returns the normalized requirements for req.
func (s *GeneratorService) Validate(req model.GenerateRequest) model.Requirements {
	return ToModel(crypto.Validate(s.Requirements(req)))
}

// Generate produces req.Count passwords (one when unset).
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	return s.GenerateFor(s.Requirements(req), req.Count, req.Hash)
}

// GenerateFor produces count passwords for r, optionally with an Argon2id
// hash of each. A count of zero means one.
func (s *GeneratorService) GenerateFor(r crypto.Requirements, count int, hash bool) (model.GenerateResponse, error) {
	if count == 0 {
		count = 1
	}
	if count < 1 || count > MaxCount {
		return model.GenerateResponse{}, ErrCountOutOfRange
	}

	r = crypto.Validate(r)
	src := s.newSource()
	resp := model.GenerateResponse{
		Passwords:    make([]string, 0, count),
		Requirements: ToModel(r),
	}

	for range count {
		password, err := crypto.Generate(r, src)
		if err != nil {
			return model.GenerateResponse{}, err
		}
		resp.Passwords = append(resp.Passwords, password)

		if hash {
			h, err := crypto.HashPassword(password)
			if err != nil {
				return model.GenerateResponse{}, err
			}
			resp.Hashes = append(resp.Hashes, h)
		}
	}

	return resp, nil
}

// Samples lists every character pool.
func (s *GeneratorService) Samples() []model.SampleSet {
	sets := make([]model.SampleSet, 0, len(crypto.Kinds))
	for _, kind := range crypto.Kinds {
		sets = append(sets, sampleSet(kind))
	}
	return sets
}

// Sample lists the pool named by kind.
func (s *GeneratorService) Sample(kind string) (model.SampleSet, error) {
	k, err := crypto.ParseKind(kind)
	if err != nil {
		return model.SampleSet{}, err
	}
	return sampleSet(k), nil
}

func sampleSet(kind crypto.CharacterKind) model.SampleSet {
	pool := kind.Pool()
	set := make([]string, len(pool))
	for i := range len(pool) {
		set[i] = pool[i : i+1]
	}
	return model.SampleSet{Kind: kind.String(), Set: set}
}

// ToModel converts requirements to their JSON form.
func ToModel(r crypto.Requirements) model.Requirements {
	return model.Requirements{
		Length:        r.Length,
		Numbers:       r.Digits,
		Specials:      r.Specials,
		FirstIsLetter: r.FirstIsLetter,
		AllowRepeats:  r.AllowRepeats,
	}
}

// FromModel converts the JSON form back to requirements.
func FromModel(r model.Requirements) crypto.Requirements {
	return crypto.Requirements{
		Length:        r.Length,
		Digits:        r.Numbers,
		Specials:      r.Specials,
		FirstIsLetter: r.FirstIsLetter,
		AllowRepeats:  r.AllowRepeats,
	}
}

func clampUint16(n int) uint16 {
	return uint16(max(0, min(n, math.MaxUint16)))
}
