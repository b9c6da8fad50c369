package database

import (
	"gorm.io/gorm"

	"github.com/dronesurvey/dss/internal/model"
)

type DroneQuery struct {
	Query[model.Drone]
	id   uint
	name string
}

func NewDroneQuery(db *gorm.DB) *DroneQuery {
	return &DroneQuery{
		Query: Query[model.Drone]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "drones.id",
		},
	}
}

func (q *DroneQuery) Limit(n int) *DroneQuery {
	q.limit = n
	return q
}

func (q *DroneQuery) Offset(n int) *DroneQuery {
	q.offset = n
	return q
}

func (q *DroneQuery) Id(id uint) *DroneQuery {
	q.id = id
	return q
}

func (q *DroneQuery) Name(name string) *DroneQuery {
	q.name = name
	return q
}

func (q *DroneQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("drones.id = ?", q.id)
	}

	if q.name != "" {
		tx = tx.Where("drones.name = ?", q.name)
	}

	return tx
}

func (q *DroneQuery) Get() []*model.Drone {
	return q.get(q.where().Model(&model.Drone{}))
}

func (q *DroneQuery) One() *model.Drone {
	return q.one(q.where().Model(&model.Drone{}))
}

func (q *DroneQuery) Count() int64 {
	return q.count(q.where().Model(&model.Drone{}))
}
