package spaceship

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrRecordNotFound is returned by a Store when no record matches.
	ErrRecordNotFound = errors.New("spaceship: record not found")
	// ErrDuplicateName is returned by a Store when a write violates the unique name constraint.
	ErrDuplicateName = errors.New("spaceship: duplicate name")
)

// Store persists spaceship records. Implementations order every listing by id
// ascending so pages are stable, and match name patterns case-insensitively.
type Store interface {
	FindAll(ctx context.Context) ([]Record, error)
	FindByID(ctx context.Context, id int64) (Record, error)
	FindPage(ctx context.Context, req PageRequest) ([]Record, int, error)
	FindByNameContaining(ctx context.Context, pattern string) ([]Record, error)
	FindByNameContainingPage(ctx context.Context, pattern string, req PageRequest) ([]Record, int, error)
	// Save inserts r when r.ID is zero and assigns the new id, otherwise it updates r.
	Save(ctx context.Context, r *Record) error
	Delete(ctx context.Context, r Record) error
	DeleteAll(ctx context.Context) error
}

// LikeEscape is the escape character used by LikePattern.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns a substring into a SQL LIKE pattern matching it anywhere,
// with LIKE wildcards in the substring matched literally.
func LikePattern(substring string) string {
	return "%" + likeReplacer.Replace(substring) + "%"
}
