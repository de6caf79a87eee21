package usecase

import (
	"context"
	"errors"
	"log"

	cvdomain "cv-forge/internal/domain/cv"
	"cv-forge/internal/repository"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// CVCache is the read-through cache surface the usecase needs; a nil cache
// disables caching entirely.
type CVCache interface {
	GetCV(ctx context.Context, id int64, out any) (bool, error)
	SetCV(ctx context.Context, id int64, value any) error
	GetUserList(ctx context.Context, userID int64, out any) (bool, error)
	SetUserList(ctx context.Context, userID int64, value any) error
	InvalidateCV(ctx context.Context, id, userID int64) error
}

type CVUsecase interface {
	Create(ctx context.Context, userID int64, c cvdomain.CV) (cvdomain.CV, error)
	Update(ctx context.Context, userID int64, c cvdomain.CV) (cvdomain.CV, error)
	Delete(ctx context.Context, userID, id int64) error
	Get(ctx context.Context, userID, id int64) (cvdomain.CV, error)
	List(ctx context.Context, userID int64) ([]cvdomain.CV, error)
}

type CV struct {
	repo  repository.CVRepository
	cache CVCache
}

func NewCVUsecase(repo repository.CVRepository, cvCache CVCache) *CV {
	return &CV{repo: repo, cache: cvCache}
}

// Create validates the aggregate before any I/O, then persists it as one
// cascade. Validation and translated constraint errors pass through to the
// caller unchanged.
func (u *CV) Create(ctx context.Context, userID int64, c cvdomain.CV) (cvdomain.CV, error) {
	c.ID = 0
	c.UserID = userID
	if err := c.Validate(); err != nil {
		return cvdomain.CV{}, err
	}

	id, err := u.repo.Create(ctx, c)
	if err != nil {
		return cvdomain.CV{}, err
	}
	u.invalidate(ctx, id, userID)

	return u.load(ctx, id)
}

// Update rewrites the root and fully replaces the children. The aggregate
// must already belong to the caller.
func (u *CV) Update(ctx context.Context, userID int64, c cvdomain.CV) (cvdomain.CV, error) {
	if err := u.authorize(ctx, userID, c.ID); err != nil {
		return cvdomain.CV{}, err
	}

	c.UserID = userID
	if err := c.Validate(); err != nil {
		return cvdomain.CV{}, err
	}

	updated, err := u.repo.Update(ctx, c)
	if err != nil {
		return cvdomain.CV{}, err
	}
	if !updated {
		return cvdomain.CV{}, ErrNotFound
	}
	u.invalidate(ctx, c.ID, userID)

	return u.load(ctx, c.ID)
}

func (u *CV) Delete(ctx context.Context, userID, id int64) error {
	if err := u.authorize(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	u.invalidate(ctx, id, userID)
	return nil
}

func (u *CV) Get(ctx context.Context, userID, id int64) (cvdomain.CV, error) {
	if u.cache != nil {
		var cached cvdomain.CV
		if hit, err := u.cache.GetCV(ctx, id, &cached); err == nil && hit {
			if cached.UserID != userID {
				return cvdomain.CV{}, ErrForbidden
			}
			return cached, nil
		}
	}

	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return cvdomain.CV{}, ErrNotFound
		}
		return cvdomain.CV{}, err
	}
	if c.UserID != userID {
		return cvdomain.CV{}, ErrForbidden
	}

	if u.cache != nil {
		if err := u.cache.SetCV(ctx, id, c); err != nil {
			log.Printf("cv cache set failed: %v", err)
		}
	}
	return c, nil
}

func (u *CV) List(ctx context.Context, userID int64) ([]cvdomain.CV, error) {
	if u.cache != nil {
		var cached []cvdomain.CV
		if hit, err := u.cache.GetUserList(ctx, userID, &cached); err == nil && hit {
			return cached, nil
		}
	}

	list, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.SetUserList(ctx, userID, list); err != nil {
			log.Printf("cv list cache set failed: %v", err)
		}
	}
	return list, nil
}

// authorize resolves the stored aggregate and checks ownership.
func (u *CV) authorize(ctx context.Context, userID, id int64) error {
	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return ErrNotFound
		}
		return err
	}
	if existing.UserID != userID {
		return ErrForbidden
	}
	return nil
}

// load re-reads the persisted aggregate so callers observe the assigned
// child identities.
func (u *CV) load(ctx context.Context, id int64) (cvdomain.CV, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCVNotFound) {
			return cvdomain.CV{}, ErrNotFound
		}
		return cvdomain.CV{}, err
	}
	return c, nil
}

func (u *CV) invalidate(ctx context.Context, id, userID int64) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateCV(ctx, id, userID); err != nil {
		log.Printf("cv cache invalidate failed: %v", err)
	}
}
