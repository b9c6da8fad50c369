package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dronesurvey/dss/internal/model"
)

func TestGenerate(t *testing.T) {
	m := &model.Mission{ID: 12, Name: "north field", Status: model.StatusCompleted}

	r := Generate(m)

	assert.Equal(t, uint(12), r.MissionID)
	assert.Contains(t, r.Summary, "north field")
	assert.Contains(t, r.Summary, "completed")
	assert.Contains(t, r.Summary, "km")
	assert.Contains(t, r.Summary, "500,000")
	assert.Equal(t, 3600, r.TotalDuration)
	assert.Equal(t, 15000.0, r.TotalDistance)
	assert.Equal(t, 500000.0, r.CoverageArea)
	assert.False(t, r.GeneratedAt.IsZero())
	assert.Zero(t, r.ID)
}

func TestGenerateAborted(t *testing.T) {
	r := Generate(&model.Mission{ID: 1, Name: "m", Status: model.StatusAborted})

	assert.Contains(t, r.Summary, "Status: aborted")
}
