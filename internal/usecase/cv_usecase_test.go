package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	cvdomain "cv-forge/internal/domain/cv"
	"cv-forge/internal/domain/validation"
	"cv-forge/internal/repository"
)

// memCVRepository is an in-memory stand-in for the Postgres store. It mimics
// the store contract: assigned identities, full child replacement on update,
// ErrCVNotFound on missing reads.
type memCVRepository struct {
	cvs    map[int64]cvdomain.CV
	nextID int64

	createErr error
	updateErr error
	deleteErr error
	getErr    error
	listErr   error

	createCalls int
}

func newMemCVRepository() *memCVRepository {
	return &memCVRepository{cvs: make(map[int64]cvdomain.CV), nextID: 1}
}

func (m *memCVRepository) assignChildIDs(c *cvdomain.CV) {
	for i := range c.Education {
		m.nextID++
		c.Education[i].ID = m.nextID
		c.Education[i].CVID = c.ID
	}
	for i := range c.Experience {
		m.nextID++
		c.Experience[i].ID = m.nextID
		c.Experience[i].CVID = c.ID
	}
	for i := range c.Skills {
		m.nextID++
		c.Skills[i].ID = m.nextID
		c.Skills[i].CVID = c.ID
	}
	for i := range c.Languages {
		m.nextID++
		c.Languages[i].ID = m.nextID
		c.Languages[i].CVID = c.ID
	}
}

func (m *memCVRepository) Create(ctx context.Context, c cvdomain.CV) (int64, error) {
	m.createCalls++
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	c.ID = m.nextID
	m.assignChildIDs(&c)
	m.cvs[c.ID] = c
	return c.ID, nil
}

func (m *memCVRepository) Update(ctx context.Context, c cvdomain.CV) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	if _, ok := m.cvs[c.ID]; !ok {
		return false, nil
	}
	m.assignChildIDs(&c)
	m.cvs[c.ID] = c
	return true, nil
}

func (m *memCVRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	if _, ok := m.cvs[id]; !ok {
		return false, nil
	}
	delete(m.cvs, id)
	return true, nil
}

func (m *memCVRepository) GetByID(ctx context.Context, id int64) (cvdomain.CV, error) {
	if m.getErr != nil {
		return cvdomain.CV{}, m.getErr
	}
	c, ok := m.cvs[id]
	if !ok {
		return cvdomain.CV{}, repository.ErrCVNotFound
	}
	return c, nil
}

func (m *memCVRepository) ListByUser(ctx context.Context, userID int64) ([]cvdomain.CV, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []cvdomain.CV
	for _, c := range m.cvs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func validAggregate() cvdomain.CV {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	return cvdomain.CV{
		Title:    "Dev",
		FullName: "A B",
		Email:    "a@b.com",
		Phone:    "+1234567890",
		Education: []cvdomain.Education{
			{Institution: "MIT", StartDate: &start, EndDate: &end},
		},
		Experience: []cvdomain.Experience{
			{Company: "Acme", Position: "Engineer", StartDate: &start},
			{Company: "Globex", Position: "Lead", StartDate: &end},
		},
		Skills:    []cvdomain.Skill{{Name: "Go", Level: 5}, {Name: "SQL", Level: 3}, {Name: "Docker", Level: 4}},
		Languages: []cvdomain.Language{{Name: "English", Proficiency: cvdomain.ProficiencyNative}},
	}
}

func TestCVCreate_RoundTrip(t *testing.T) {
	repo := newMemCVRepository()
	u := NewCVUsecase(repo, nil)
	ctx := context.Background()

	in := validAggregate()
	created, err := u.Create(ctx, 7, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected assigned identity, got %d", created.ID)
	}
	if created.UserID != 7 {
		t.Fatalf("expected owner 7, got %d", created.UserID)
	}

	got, err := u.Get(ctx, 7, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != in.Title || got.FullName != in.FullName || got.Email != in.Email || got.Phone != in.Phone {
		t.Fatalf("root fields changed on round trip: %+v", got)
	}
	if len(got.Education) != 1 || len(got.Experience) != 2 || len(got.Skills) != 3 || len(got.Languages) != 1 {
		t.Fatalf("child counts changed on round trip: %d/%d/%d/%d",
			len(got.Education), len(got.Experience), len(got.Skills), len(got.Languages))
	}
	if got.Education[0].Institution != "MIT" {
		t.Fatalf("education field changed: %+v", got.Education[0])
	}
	if got.Education[0].ID == 0 {
		t.Fatalf("child identity not assigned")
	}
}

func TestCVCreate_ValidationBlocksBeforeStore(t *testing.T) {
	repo := newMemCVRepository()
	u := NewCVUsecase(repo, nil)

	in := validAggregate()
	in.Email = "broken"

	_, err := u.Create(context.Background(), 7, in)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *validation.Error, got %T", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("store must not be touched on validation failure")
	}
}

func TestCVCreate_IgnoresClientAssignedIdentity(t *testing.T) {
	repo := newMemCVRepository()
	u := NewCVUsecase(repo, nil)

	in := validAggregate()
	in.ID = 999

	created, err := u.Create(context.Background(), 7, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 999 {
		t.Fatalf("client-supplied identity must be discarded")
	}
}

func TestCVUpdate_ReplacesChildren(t *testing.T) {
	repo := newMemCVRepository()
	u := NewCVUsecase(repo, nil)
	ctx := context.Background()

	created, err := u.Create(ctx, 7, validAggregate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	oldSkillIDs := make(map[int64]bool)
	for _, s := range created.Skills {
		oldSkillIDs[s.ID] = true
	}

	mod := created
	mod.Skills = []cvdomain.Skill{{Name: "Rust", Level: 2}}
	mod.Languages = nil

	updated, err := u.Update(ctx, 7, mod)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Skills) != 1 || updated.Skills[0].Name != "Rust" {
		t.Fatalf("children not replaced: %+v", updated.Skills)
	}
	if oldSkillIDs[updated.Skills[0].ID] {
		t.Fatalf("replacement child kept a previous identity")
	}
	if len(updated.Languages) != 0 {
		t.Fatalf("removed collection survived: %+v", updated.Languages)
	}
}

func TestCVUpdate_MissingAggregate(t *testing.T) {
	u := NewCVUsecase(newMemCVRepository(), nil)

	in := validAggregate()
	in.ID = 42

	_, err := u.Update(context.Background(), 7, in)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCVOwnership(t *testing.T) {
	repo := newMemCVRepository()
	u := NewCVUsecase(repo, nil)
	ctx := context.Background()

	created, err := u.Create(ctx, 7, validAggregate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := u.Get(ctx, 8, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Get by stranger: expected ErrForbidden, got %v", err)
	}
	if _, err := u.Update(ctx, 8, created); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Update by stranger: expected ErrForbidden, got %v", err)
	}
	if err := u.Delete(ctx, 8, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Delete by stranger: expected ErrForbidden, got %v", err)
	}

	// The owner still sees the aggregate untouched.
	if _, err := u.Get(ctx, 7, created.ID); err != nil {
		t.Fatalf("owner Get after denied access: %v", err)
	}
}

func TestCVDelete(t *testing.T) {
	repo := newMemCVRepository()
	u := NewCVUsecase(repo, nil)
	ctx := context.Background()

	created, err := u.Create(ctx, 7, validAggregate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := u.Delete(ctx, 7, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := u.Get(ctx, 7, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := u.Delete(ctx, 7, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

// Low-level failures propagate from every operation, including delete and
// reads; nothing is absorbed into a best-effort result.
func TestCVErrorsPropagate(t *testing.T) {
	storeErr := errors.New("connection reset")
	ctx := context.Background()

	repo := newMemCVRepository()
	u := NewCVUsecase(repo, nil)
	created, err := u.Create(ctx, 7, validAggregate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	repo.getErr = storeErr
	if _, err := u.Get(ctx, 7, created.ID); !errors.Is(err, storeErr) {
		t.Fatalf("Get: expected raw store error, got %v", err)
	}
	if err := u.Delete(ctx, 7, created.ID); !errors.Is(err, storeErr) {
		t.Fatalf("Delete: expected raw store error via authorize, got %v", err)
	}
	repo.getErr = nil

	repo.listErr = storeErr
	if _, err := u.List(ctx, 7); !errors.Is(err, storeErr) {
		t.Fatalf("List: expected raw store error, got %v", err)
	}
	repo.listErr = nil

	repo.deleteErr = storeErr
	if err := u.Delete(ctx, 7, created.ID); !errors.Is(err, storeErr) {
		t.Fatalf("Delete: expected raw store error, got %v", err)
	}
	repo.deleteErr = nil

	repo.createErr = storeErr
	if _, err := u.Create(ctx, 7, validAggregate()); !errors.Is(err, storeErr) {
		t.Fatalf("Create: expected raw store error, got %v", err)
	}
}

func TestCVList_FiltersByOwner(t *testing.T) {
	repo := newMemCVRepository()
	u := NewCVUsecase(repo, nil)
	ctx := context.Background()

	if _, err := u.Create(ctx, 7, validAggregate()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.Create(ctx, 7, validAggregate()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.Create(ctx, 8, validAggregate()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := u.List(ctx, 7)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 aggregates for owner, got %d", len(list))
	}
}

// fakeCache records invalidations and serves one pinned aggregate.
type fakeCache struct {
	cv          *cvdomain.CV
	invalidated []int64
}

func (f *fakeCache) GetCV(ctx context.Context, id int64, out any) (bool, error) {
	if f.cv == nil || f.cv.ID != id {
		return false, nil
	}
	*out.(*cvdomain.CV) = *f.cv
	return true, nil
}

func (f *fakeCache) SetCV(ctx context.Context, id int64, value any) error { return nil }

func (f *fakeCache) GetUserList(ctx context.Context, userID int64, out any) (bool, error) {
	return false, nil
}

func (f *fakeCache) SetUserList(ctx context.Context, userID int64, value any) error { return nil }

func (f *fakeCache) InvalidateCV(ctx context.Context, id, userID int64) error {
	f.invalidated = append(f.invalidated, id)
	return nil
}

func TestCVGet_CacheHitStillChecksOwnership(t *testing.T) {
	cached := validAggregate()
	cached.ID = 5
	cached.UserID = 7

	u := NewCVUsecase(newMemCVRepository(), &fakeCache{cv: &cached})
	ctx := context.Background()

	got, err := u.Get(ctx, 7, 5)
	if err != nil {
		t.Fatalf("Get from cache: %v", err)
	}
	if got.Title != cached.Title {
		t.Fatalf("unexpected cached aggregate: %+v", got)
	}

	if _, err := u.Get(ctx, 8, 5); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on cached foreign aggregate, got %v", err)
	}
}

func TestCVDelete_InvalidatesCache(t *testing.T) {
	repo := newMemCVRepository()
	cache := &fakeCache{}
	u := NewCVUsecase(repo, cache)
	ctx := context.Background()

	created, err := u.Create(ctx, 7, validAggregate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := u.Delete(ctx, 7, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	found := false
	for _, id := range cache.invalidated {
		if id == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("delete did not invalidate cache entry %d: %v", created.ID, cache.invalidated)
	}
}
