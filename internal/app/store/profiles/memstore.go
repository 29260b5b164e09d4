// internal/app/store/profiles/memstore.go
package profilestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/devhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used for local runs and tests.
// A single mutex serializes every operation, which gives the same
// per-document atomicity the Mongo backend gets from its update operators.
// Profiles are deep-copied on the way in and out.
type MemoryStore struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]*models.Profile
	clock func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{
		byID:  make(map[primitive.ObjectID]*models.Profile),
		clock: time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, p models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.User == p.User {
			return models.Profile{}, ErrProfileExists
		}
		if existing.Handle == p.Handle {
			return models.Profile{}, ErrDuplicateHandle
		}
	}

	p = prepareNew(clone(p), s.clock())
	// Successive inserts must sort newest first even within one clock tick.
	if last := s.latestCreatedLocked(); !p.CreatedAt.After(last) {
		p.CreatedAt = last.Add(time.Millisecond)
		p.UpdatedAt = p.CreatedAt
	}
	stored := p
	s.byID[p.ID] = &stored
	return clone(p), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return clone(*p), nil
}

func (s *MemoryStore) GetByUser(_ context.Context, userID primitive.ObjectID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.byUserLocked(userID)
	if p == nil {
		return models.Profile{}, ErrNotFound
	}
	return clone(*p), nil
}

func (s *MemoryStore) GetByHandle(_ context.Context, handle string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.Handle == handle {
			return clone(*p), nil
		}
	}
	return models.Profile{}, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context, skip, limit int64) ([]models.ProfileSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*models.Profile, 0, len(s.byID))
	for _, p := range s.byID {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.Hex() > all[j].ID.Hex()
	})

	out := make([]models.ProfileSummary, 0)
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(all)) {
		return out, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	for _, p := range all {
		out = append(out, models.ProfileSummary{
			ID:     p.ID,
			UserID: p.User,
			Status: p.Status,
			Skills: append([]string{}, p.Skills...),
		})
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id, owner primitive.ObjectID, f models.ProfileFields) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok || p.User != owner {
		return models.Profile{}, ErrNotFound
	}
	for _, other := range s.byID {
		if other.ID != id && other.Handle == f.Handle {
			return models.Profile{}, ErrDuplicateHandle
		}
	}
	f.Apply(p)
	if p.Skills == nil {
		p.Skills = []string{}
	}
	p.UpdatedAt = s.nowLocked()
	return clone(*p), nil
}

func (s *MemoryStore) Delete(_ context.Context, id, owner primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok || p.User != owner {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) AppendExperience(_ context.Context, owner primitive.ObjectID, e models.Experience) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.byUserLocked(owner)
	if p == nil {
		return models.Profile{}, ErrNotFound
	}
	e.ID = primitive.NewObjectID()
	p.Experience = append(p.Experience, cloneExperience(e))
	p.UpdatedAt = s.nowLocked()
	return clone(*p), nil
}

func (s *MemoryStore) ReplaceExperience(_ context.Context, owner, entryID primitive.ObjectID, e models.Experience) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.byUserLocked(owner)
	if p == nil {
		return models.Profile{}, ErrNotFound
	}
	for i := range p.Experience {
		if p.Experience[i].ID == entryID {
			e.ID = entryID
			p.Experience[i] = cloneExperience(e)
			p.UpdatedAt = s.nowLocked()
			return clone(*p), nil
		}
	}
	return models.Profile{}, ErrEntryNotFound
}

func (s *MemoryStore) RemoveExperience(_ context.Context, owner, entryID primitive.ObjectID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.byUserLocked(owner)
	if p == nil {
		return models.Profile{}, ErrNotFound
	}
	for i := range p.Experience {
		if p.Experience[i].ID == entryID {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			p.UpdatedAt = s.nowLocked()
			break
		}
	}
	return clone(*p), nil
}

func (s *MemoryStore) AppendEducation(_ context.Context, owner primitive.ObjectID, e models.Education) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.byUserLocked(owner)
	if p == nil {
		return models.Profile{}, ErrNotFound
	}
	e.ID = primitive.NewObjectID()
	p.Education = append(p.Education, cloneEducation(e))
	p.UpdatedAt = s.nowLocked()
	return clone(*p), nil
}

func (s *MemoryStore) ReplaceEducation(_ context.Context, owner, entryID primitive.ObjectID, e models.Education) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.byUserLocked(owner)
	if p == nil {
		return models.Profile{}, ErrNotFound
	}
	for i := range p.Education {
		if p.Education[i].ID == entryID {
			e.ID = entryID
			p.Education[i] = cloneEducation(e)
			p.UpdatedAt = s.nowLocked()
			return clone(*p), nil
		}
	}
	return models.Profile{}, ErrEntryNotFound
}

func (s *MemoryStore) RemoveEducation(_ context.Context, owner, entryID primitive.ObjectID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.byUserLocked(owner)
	if p == nil {
		return models.Profile{}, ErrNotFound
	}
	for i := range p.Education {
		if p.Education[i].ID == entryID {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			p.UpdatedAt = s.nowLocked()
			break
		}
	}
	return clone(*p), nil
}

func (s *MemoryStore) byUserLocked(userID primitive.ObjectID) *models.Profile {
	for _, p := range s.byID {
		if p.User == userID {
			return p
		}
	}
	return nil
}

func (s *MemoryStore) latestCreatedLocked() time.Time {
	var last time.Time
	for _, p := range s.byID {
		if p.CreatedAt.After(last) {
			last = p.CreatedAt
		}
	}
	return last
}

func (s *MemoryStore) nowLocked() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

func clone(p models.Profile) models.Profile {
	out := p
	if p.Skills != nil {
		out.Skills = append([]string{}, p.Skills...)
	}
	if p.Experience != nil {
		out.Experience = make([]models.Experience, len(p.Experience))
		for i, e := range p.Experience {
			out.Experience[i] = cloneExperience(e)
		}
	}
	if p.Education != nil {
		out.Education = make([]models.Education, len(p.Education))
		for i, e := range p.Education {
			out.Education[i] = cloneEducation(e)
		}
	}
	return out
}

func cloneExperience(e models.Experience) models.Experience {
	if e.To != nil {
		t := *e.To
		e.To = &t
	}
	return e
}

func cloneEducation(e models.Education) models.Education {
	if e.To != nil {
		t := *e.To
		e.To = &t
	}
	return e
}
