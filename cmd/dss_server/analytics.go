package main

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/dronesurvey/dss/internal/model"
)

const (
	analyticsKey = "summary"

	// no telemetry ingestion, so the collected data volume is unknown
	dataCollectedGb = 0
)

type AnalyticsSummary struct {
	TotalSurveysDone   int64   `json:"total_surveys_done"`
	TotalFlightHours   float64 `json:"total_flight_hours"`
	TotalDistanceKm    float64 `json:"total_distance_km"`
	DataCollectedGb    float64 `json:"data_collected_gb"`
	DroneCount         int64   `json:"organization_wide_drone_count"`
	MissionsInProgress int64   `json:"missions_in_progress"`
}

func (app *App) loadAnalytics(_ string) *AnalyticsSummary {
	s := &AnalyticsSummary{
		TotalSurveysDone:   app.dbm.MissionQuery().Status(model.StatusCompleted).Count(),
		DataCollectedGb:    dataCollectedGb,
		DroneCount:         app.dbm.DroneQuery().Count(),
		MissionsInProgress: app.dbm.MissionQuery().Status(model.StatusInProgress).Count(),
	}

	duration, distance, err := app.dbm.ReportTotals()
	if err != nil {
		app.logger.Error("report totals error", slog.Any("error", err))
	}

	s.TotalFlightHours = float64(duration) / 3600
	s.TotalDistanceKm = distance / 1000

	return s
}

func getAnalyticsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(app.analytics.Load(analyticsKey))
	}
}
