package database

import (
	"gorm.io/gorm"

	"github.com/dronesurvey/dss/internal/model"
)

type MissionQuery struct {
	Query[model.Mission]
	id     uint
	status model.MissionStatus
	full   bool
}

func NewMissionQuery(db *gorm.DB) *MissionQuery {
	return &MissionQuery{
		Query: Query[model.Mission]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "missions.id",
		},
	}
}

func (q *MissionQuery) Limit(n int) *MissionQuery {
	if q == nil {
		return nil
	}

	q.limit = n
	return q
}

func (q *MissionQuery) Offset(n int) *MissionQuery {
	if q == nil {
		return nil
	}

	q.offset = n
	return q
}

func (q *MissionQuery) Id(id uint) *MissionQuery {
	if q == nil {
		return nil
	}

	q.id = id
	return q
}

func (q *MissionQuery) Status(s model.MissionStatus) *MissionQuery {
	if q == nil {
		return nil
	}

	q.status = s
	return q
}

// Full preloads waypoints (in traversal order) and the report.
func (q *MissionQuery) Full() *MissionQuery {
	if q == nil {
		return nil
	}

	q.full = true
	return q
}

func (q *MissionQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("missions.id = ?", q.id)
	}

	if q.status != "" {
		tx = tx.Where("missions.status = ?", q.status)
	}

	if q.full {
		tx = tx.Preload("Waypoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("waypoints.sequence_order")
		}).Preload("Report")
	}

	return tx
}

func (q *MissionQuery) Get() []*model.Mission {
	return q.get(q.where().Model(&model.Mission{}))
}

func (q *MissionQuery) One() *model.Mission {
	return q.one(q.where().Model(&model.Mission{}))
}

func (q *MissionQuery) First() (*model.Mission, error) {
	return q.first(q.where().Model(&model.Mission{}))
}

func (q *MissionQuery) Count() int64 {
	return q.count(q.where().Model(&model.Mission{}))
}
