package database

import (
	"errors"

	"gorm.io/gorm"
)

type Query[T any] struct {
	db     *gorm.DB
	limit  int
	offset int
	order  string
}

func (q *Query[T]) get(tx *gorm.DB) []*T {
	var res []*T

	if q.order != "" {
		tx = tx.Order(q.order)
	}

	if q.limit > 0 {
		tx = tx.Limit(q.limit)
	}

	if q.offset > 0 {
		tx = tx.Offset(q.offset)
	}

	if err := tx.Find(&res).Error; err != nil {
		return nil
	}

	return res
}

// first returns nil, nil when nothing matches.
func (q *Query[T]) first(tx *gorm.DB) (*T, error) {
	res := new(T)

	err := tx.Take(res).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}

func (q *Query[T]) one(tx *gorm.DB) *T {
	res, _ := q.first(tx)

	return res
}

func (q *Query[T]) count(tx *gorm.DB) int64 {
	var c int64

	tx.Count(&c)

	return c
}
