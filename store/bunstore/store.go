// Package bunstore implements spaceship.Store on top of uptrace/bun.
package bunstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-spaceship/spaceship"
	"github.com/goliatone/go-spaceship/store/internal/dberr"
	"github.com/uptrace/bun"
)

const nameContains = `LOWER(name) LIKE LOWER(?) ESCAPE '\'`

type spaceshipModel struct {
	bun.BaseModel `bun:"table:spaceship"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
}

func fromRecord(r spaceship.Record) *spaceshipModel {
	return &spaceshipModel{ID: r.ID, Name: r.Name}
}

func (m spaceshipModel) record() spaceship.Record {
	return spaceship.Record{ID: m.ID, Name: m.Name}
}

func records(models []spaceshipModel) []spaceship.Record {
	out := make([]spaceship.Record, 0, len(models))
	for _, m := range models {
		out = append(out, m.record())
	}
	return out
}

// Store is a spaceship.Store backed by a bun.DB.
type Store struct {
	db *bun.DB
}

var _ spaceship.Store = (*Store)(nil)

// New wraps db. Call Migrate before first use on an empty database.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Migrate creates the spaceship table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*spaceshipModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) FindAll(ctx context.Context) ([]spaceship.Record, error) {
	var models []spaceshipModel
	err := s.db.NewSelect().
		Model(&models).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records(models), nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (spaceship.Record, error) {
	m := new(spaceshipModel)
	err := s.db.NewSelect().
		Model(m).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return spaceship.Record{}, spaceship.ErrRecordNotFound
	}
	if err != nil {
		return spaceship.Record{}, err
	}
	return m.record(), nil
}

func (s *Store) FindPage(ctx context.Context, req spaceship.PageRequest) ([]spaceship.Record, int, error) {
	return s.page(ctx, req, func(q *bun.SelectQuery) *bun.SelectQuery { return q })
}

func (s *Store) FindByNameContaining(ctx context.Context, pattern string) ([]spaceship.Record, error) {
	var models []spaceshipModel
	err := s.db.NewSelect().
		Model(&models).
		Where(nameContains, spaceship.LikePattern(pattern)).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records(models), nil
}

func (s *Store) FindByNameContainingPage(ctx context.Context, pattern string, req spaceship.PageRequest) ([]spaceship.Record, int, error) {
	return s.page(ctx, req, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(nameContains, spaceship.LikePattern(pattern))
	})
}

func (s *Store) page(ctx context.Context, req spaceship.PageRequest, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]spaceship.Record, int, error) {
	total, err := filter(s.db.NewSelect().Model((*spaceshipModel)(nil))).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var models []spaceshipModel
	err = filter(s.db.NewSelect().Model(&models)).
		OrderExpr("id ASC").
		Limit(req.Size).
		Offset(req.Offset()).
		Scan(ctx)
	if err != nil {
		return nil, 0, err
	}
	return records(models), total, nil
}

func (s *Store) Save(ctx context.Context, r *spaceship.Record) error {
	m := fromRecord(*r)

	if r.ID == 0 {
		if _, err := s.db.NewInsert().Model(m).Exec(ctx); err != nil {
			return translate(err)
		}
		r.ID = m.ID
		return nil
	}

	res, err := s.db.NewUpdate().
		Model(m).
		Column("name").
		WherePK().
		Exec(ctx)
	if err != nil {
		return translate(err)
	}
	return expectRow(res)
}

func (s *Store) Delete(ctx context.Context, r spaceship.Record) error {
	res, err := s.db.NewDelete().
		Model(fromRecord(r)).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *Store) DeleteAll(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*spaceshipModel)(nil)).
		Where("1 = 1").
		Exec(ctx)
	return err
}

func translate(err error) error {
	if dberr.IsUniqueViolation(err) {
		return errors.Join(spaceship.ErrDuplicateName, err)
	}
	return err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return spaceship.ErrRecordNotFound
	}
	return nil
}
