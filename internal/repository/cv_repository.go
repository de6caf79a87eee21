package repository

import (
	"context"
	"database/sql"
	"errors"

	cvdomain "cv-forge/internal/domain/cv"

	"cv-forge/internal/database"

	"github.com/jackc/pgx/v5"
)

var ErrCVNotFound = errors.New("cv not found")

type CVRepository interface {
	Create(ctx context.Context, c cvdomain.CV) (int64, error)
	Update(ctx context.Context, c cvdomain.CV) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (cvdomain.CV, error)
	ListByUser(ctx context.Context, userID int64) ([]cvdomain.CV, error)
}

type PostgresCVRepository struct {
	db database.DB
}

func NewPostgresCVRepository(db database.DB) *PostgresCVRepository {
	return &PostgresCVRepository{db: db}
}

// querier is the subset of database.DB and database.Tx the child helpers
// need, so cascades run on whichever the caller holds.
type querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (database.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) database.Row
}

// Create inserts the root row and every child in one transaction. A failure
// at any step rolls the whole aggregate back.
func (r *PostgresCVRepository) Create(ctx context.Context, c cvdomain.CV) (int64, error) {
	var id int64
	err := database.Transact(ctx, r.db, func(tx database.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO cvs (user_id, title, full_name, email, phone, address, summary)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			c.UserID, c.Title, c.FullName, c.Email, c.Phone,
			nullIfEmpty(c.Address), nullIfEmpty(c.Summary),
		)
		if err := row.Scan(&id); err != nil {
			return err
		}
		return insertChildren(ctx, tx, id, c)
	})
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

// Update rewrites the root row by identity, then fully replaces the child
// rows with the in-memory collections (cascade replace; child identities are
// not preserved). When the root row does not exist the children are left
// untouched and (false, nil) is returned.
func (r *PostgresCVRepository) Update(ctx context.Context, c cvdomain.CV) (bool, error) {
	var updated bool
	err := database.Transact(ctx, r.db, func(tx database.Tx) error {
		affected, err := tx.Exec(ctx,
			`UPDATE cvs
			 SET title = $1, full_name = $2, email = $3, phone = $4, address = $5, summary = $6, updated_at = now()
			 WHERE id = $7`,
			c.Title, c.FullName, c.Email, c.Phone,
			nullIfEmpty(c.Address), nullIfEmpty(c.Summary), c.ID,
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			return nil
		}
		updated = true

		if err := deleteChildren(ctx, tx, c.ID); err != nil {
			return err
		}
		return insertChildren(ctx, tx, c.ID, c)
	})
	if err != nil {
		return false, translateError(err)
	}
	return updated, nil
}

// Delete removes the four child collections and then the root row in one
// transaction, reporting whether the root row existed.
func (r *PostgresCVRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := database.Transact(ctx, r.db, func(tx database.Tx) error {
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		affected, err := tx.Exec(ctx, `DELETE FROM cvs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, translateError(err)
	}
	return deleted, nil
}

func (r *PostgresCVRepository) GetByID(ctx context.Context, id int64) (cvdomain.CV, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, full_name, email, phone, COALESCE(address, ''), COALESCE(summary, '')
		 FROM cvs WHERE id = $1`,
		id,
	)

	var c cvdomain.CV
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.FullName, &c.Email, &c.Phone, &c.Address, &c.Summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return cvdomain.CV{}, ErrCVNotFound
		}
		return cvdomain.CV{}, translateError(err)
	}

	if err := loadChildren(ctx, r.db, &c); err != nil {
		return cvdomain.CV{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresCVRepository) ListByUser(ctx context.Context, userID int64) ([]cvdomain.CV, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, full_name, email, phone, COALESCE(address, ''), COALESCE(summary, '')
		 FROM cvs WHERE user_id = $1
		 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	out := make([]cvdomain.CV, 0)
	for rows.Next() {
		var c cvdomain.CV
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.FullName, &c.Email, &c.Phone, &c.Address, &c.Summary); err != nil {
			return nil, translateError(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	// One load per child kind per aggregate. The per-user catalog stays
	// small, so the extra round trips are tolerable.
	for i := range out {
		if err := loadChildren(ctx, r.db, &out[i]); err != nil {
			return nil, translateError(err)
		}
	}
	return out, nil
}

func insertChildren(ctx context.Context, q querier, cvID int64, c cvdomain.CV) error {
	for _, edu := range c.Education {
		_, err := q.Exec(ctx,
			`INSERT INTO education (cv_id, institution, degree, field_of_study, start_date, end_date, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			cvID, edu.Institution, edu.Degree, edu.FieldOfStudy, edu.StartDate, edu.EndDate, edu.Description,
		)
		if err != nil {
			return err
		}
	}

	for _, exp := range c.Experience {
		_, err := q.Exec(ctx,
			`INSERT INTO experience (cv_id, company, position, location, start_date, end_date, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			cvID, exp.Company, exp.Position, exp.Location, exp.StartDate, exp.EndDate, exp.Description,
		)
		if err != nil {
			return err
		}
	}

	for _, sk := range c.Skills {
		_, err := q.Exec(ctx,
			`INSERT INTO skills (cv_id, name, level) VALUES ($1, $2, $3)`,
			cvID, sk.Name, sk.Level,
		)
		if err != nil {
			return err
		}
	}

	for _, lang := range c.Languages {
		_, err := q.Exec(ctx,
			`INSERT INTO languages (cv_id, name, proficiency) VALUES ($1, $2, $3)`,
			cvID, lang.Name, lang.Proficiency,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func deleteChildren(ctx context.Context, q querier, cvID int64) error {
	for _, table := range []string{"education", "experience", "skills", "languages"} {
		if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE cv_id = $1`, cvID); err != nil {
			return err
		}
	}
	return nil
}

func loadChildren(ctx context.Context, q querier, c *cvdomain.CV) error {
	if err := loadEducation(ctx, q, c); err != nil {
		return err
	}
	if err := loadExperience(ctx, q, c); err != nil {
		return err
	}
	if err := loadSkills(ctx, q, c); err != nil {
		return err
	}
	return loadLanguages(ctx, q, c)
}

func loadEducation(ctx context.Context, q querier, c *cvdomain.CV) error {
	rows, err := q.Query(ctx,
		`SELECT id, cv_id, institution, COALESCE(degree, ''), COALESCE(field_of_study, ''), start_date, end_date, COALESCE(description, '')
		 FROM education WHERE cv_id = $1
		 ORDER BY id ASC`,
		c.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.Education = make([]cvdomain.Education, 0)
	for rows.Next() {
		var edu cvdomain.Education
		if err := rows.Scan(&edu.ID, &edu.CVID, &edu.Institution, &edu.Degree, &edu.FieldOfStudy, &edu.StartDate, &edu.EndDate, &edu.Description); err != nil {
			return err
		}
		c.Education = append(c.Education, edu)
	}
	return rows.Err()
}

func loadExperience(ctx context.Context, q querier, c *cvdomain.CV) error {
	rows, err := q.Query(ctx,
		`SELECT id, cv_id, company, COALESCE(position, ''), COALESCE(location, ''), start_date, end_date, COALESCE(description, '')
		 FROM experience WHERE cv_id = $1
		 ORDER BY id ASC`,
		c.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.Experience = make([]cvdomain.Experience, 0)
	for rows.Next() {
		var exp cvdomain.Experience
		if err := rows.Scan(&exp.ID, &exp.CVID, &exp.Company, &exp.Position, &exp.Location, &exp.StartDate, &exp.EndDate, &exp.Description); err != nil {
			return err
		}
		c.Experience = append(c.Experience, exp)
	}
	return rows.Err()
}

func loadSkills(ctx context.Context, q querier, c *cvdomain.CV) error {
	rows, err := q.Query(ctx,
		`SELECT id, cv_id, name, level FROM skills WHERE cv_id = $1 ORDER BY id ASC`,
		c.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.Skills = make([]cvdomain.Skill, 0)
	for rows.Next() {
		var sk cvdomain.Skill
		if err := rows.Scan(&sk.ID, &sk.CVID, &sk.Name, &sk.Level); err != nil {
			return err
		}
		c.Skills = append(c.Skills, sk)
	}
	return rows.Err()
}

func loadLanguages(ctx context.Context, q querier, c *cvdomain.CV) error {
	rows, err := q.Query(ctx,
		`SELECT id, cv_id, name, proficiency FROM languages WHERE cv_id = $1 ORDER BY id ASC`,
		c.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	c.Languages = make([]cvdomain.Language, 0)
	for rows.Next() {
		var lang cvdomain.Language
		if err := rows.Scan(&lang.ID, &lang.CVID, &lang.Name, &lang.Proficiency); err != nil {
			return err
		}
		c.Languages = append(c.Languages, lang)
	}
	return rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
