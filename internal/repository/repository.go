package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel/internal/domain"
)

// forUpdate locks selected rows until the surrounding transaction ends.
// sqlite ignores the clause; postgres and mysql honour it.
var forUpdate = clause.Locking{Strength: "UPDATE"}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Page normalises pagination input.
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func (p Page) Offset() int {
	p = p.normalize()
	return (p.Page - 1) * p.Limit
}

func (p Page) Size() int {
	return p.normalize().Limit
}

func (p Page) Number() int {
	return p.normalize().Page
}
