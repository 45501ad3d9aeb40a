// Package gormstore implements spaceship.Store on top of gorm.
package gormstore

import (
	"context"
	"errors"

	"github.com/goliatone/go-spaceship/spaceship"
	"github.com/goliatone/go-spaceship/store/internal/dberr"
	"gorm.io/gorm"
)

type spaceshipModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:255;not null;uniqueIndex"`
}

func (spaceshipModel) TableName() string {
	return "spaceship"
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

// Store is a spaceship.Store backed by a gorm.DB.
type Store struct {
	db           *gorm.DB
	nameContains string
}

var _ spaceship.Store = (*Store)(nil)

// New wraps db. Call Migrate before first use on an empty database.
func New(db *gorm.DB) *Store {
	escape := `'\'`
	if db.Dialector.Name() == "mysql" {
		// mysql treats backslash as an escape inside string literals
		escape = `'\\'`
	}
	return &Store{
		db:           db,
		nameContains: "LOWER(name) LIKE LOWER(?) ESCAPE " + escape,
	}
}

// Migrate creates the spaceship table and its unique index when missing.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&spaceshipModel{})
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) FindAll(ctx context.Context) ([]spaceship.Record, error) {
	var models []spaceshipModel
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return records(models), nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (spaceship.Record, error) {
	var m spaceshipModel
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return spaceship.Record{}, spaceship.ErrRecordNotFound
	}
	if err != nil {
		return spaceship.Record{}, err
	}
	return m.record(), nil
}

func (s *Store) FindPage(ctx context.Context, req spaceship.PageRequest) ([]spaceship.Record, int, error) {
	return s.page(ctx, req, func(q *gorm.DB) *gorm.DB { return q })
}

func (s *Store) FindByNameContaining(ctx context.Context, pattern string) ([]spaceship.Record, error) {
	var models []spaceshipModel
	err := s.db.WithContext(ctx).
		Where(s.nameContains, spaceship.LikePattern(pattern)).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return records(models), nil
}

func (s *Store) FindByNameContainingPage(ctx context.Context, pattern string, req spaceship.PageRequest) ([]spaceship.Record, int, error) {
	return s.page(ctx, req, func(q *gorm.DB) *gorm.DB {
		return q.Where(s.nameContains, spaceship.LikePattern(pattern))
	})
}

func (s *Store) page(ctx context.Context, req spaceship.PageRequest, filter func(*gorm.DB) *gorm.DB) ([]spaceship.Record, int, error) {
	var total int64
	if err := filter(s.db.WithContext(ctx).Model(&spaceshipModel{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []spaceshipModel
	err := filter(s.db.WithContext(ctx)).
		Order("id ASC").
		Limit(req.Size).
		Offset(req.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}
	return records(models), int(total), nil
}

func (s *Store) Save(ctx context.Context, r *spaceship.Record) error {
	db := s.db.WithContext(ctx)

	if r.ID == 0 {
		m := spaceshipModel{Name: r.Name}
		if err := db.Create(&m).Error; err != nil {
			return translate(err)
		}
		r.ID = m.ID
		return nil
	}

	res := db.Model(&spaceshipModel{}).Where("id = ?", r.ID).Update("name", r.Name)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// mysql reports zero affected rows when the name is unchanged
	_, err := s.FindByID(ctx, r.ID)
	return err
}

func (s *Store) Delete(ctx context.Context, r spaceship.Record) error {
	res := s.db.WithContext(ctx).Where("id = ?", r.ID).Delete(&spaceshipModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return spaceship.ErrRecordNotFound
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&spaceshipModel{}).Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || dberr.IsUniqueViolation(err) {
		return errors.Join(spaceship.ErrDuplicateName, err)
	}
	return err
}
