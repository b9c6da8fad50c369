package database

import (
	"gorm.io/gorm"

	"github.com/dronesurvey/dss/internal/model"
)

type ReportQuery struct {
	Query[model.SurveyReport]
	missionID uint
}

func NewReportQuery(db *gorm.DB) *ReportQuery {
	return &ReportQuery{
		Query: Query[model.SurveyReport]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "survey_reports.generated_at DESC",
		},
	}
}

func (q *ReportQuery) Limit(n int) *ReportQuery {
	q.limit = n
	return q
}

func (q *ReportQuery) Offset(n int) *ReportQuery {
	q.offset = n
	return q
}

func (q *ReportQuery) Mission(id uint) *ReportQuery {
	q.missionID = id
	return q
}

func (q *ReportQuery) where() *gorm.DB {
	tx := q.db

	if q.missionID != 0 {
		tx = tx.Where("survey_reports.mission_id = ?", q.missionID)
	}

	return tx
}

func (q *ReportQuery) Get() []*model.SurveyReport {
	return q.get(q.where().Model(&model.SurveyReport{}))
}

func (q *ReportQuery) One() *model.SurveyReport {
	return q.one(q.where().Model(&model.SurveyReport{}))
}

func (q *ReportQuery) Count() int64 {
	return q.count(q.where().Model(&model.SurveyReport{}))
}
