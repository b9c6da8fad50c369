package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/dronesurvey/dss/internal/geometry"
	"github.com/dronesurvey/dss/internal/missions"
	"github.com/dronesurvey/dss/internal/model"
)

type DroneCreate struct {
	Name         string            `json:"name"`
	Model        string            `json:"model"`
	Status       model.DroneStatus `json:"status"`
	BatteryLevel int               `json:"battery_level"`
	Lat          *float64          `json:"current_location_lat"`
	Lon          *float64          `json:"current_location_lon"`
}

type WaypointCreate struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"`
	SequenceOrder int     `json:"sequence_order"`
}

type MissionCreate struct {
	Name              string              `json:"name"`
	FlightPattern     model.FlightPattern `json:"flight_pattern"`
	FlightAltitude    float64             `json:"flight_altitude_m"`
	OverlapPercentage int                 `json:"overlap_percentage"`
	SurveyArea        json.RawMessage     `json:"survey_area_geojson"`
	CollectionFreq    float64             `json:"data_collection_frequency_hz"`
	Sensors           []string            `json:"sensors_to_use"`
	DroneID           *uint               `json:"drone_id"`
	Waypoints         []*WaypointCreate   `json:"waypoints"`
}

type MissionControl struct {
	Action string `json:"action"`
}

func addDroneApi(app *App, r fiber.Router) {
	g := r.Group("/drones")

	g.Post("/", getDroneCreateHandler(app))
	g.Get("/", getDronesHandler(app))
	g.Get("/:id", getDroneHandler(app))
}

func addMissionApi(app *App, r fiber.Router) {
	g := r.Group("/missions")

	g.Post("/", getMissionCreateHandler(app))
	g.Get("/", getMissionsHandler(app))
	g.Get("/:id", getMissionHandler(app))
	g.Post("/:id/control", getMissionControlHandler(app))
}

func addReportApi(app *App, r fiber.Router) {
	r.Get("/reports", getReportsHandler(app))
	r.Get("/analytics/summary", getAnalyticsHandler(app))
}

func getDroneCreateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		req := new(DroneCreate)

		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		req.Name = strings.TrimSpace(req.Name)

		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		if req.Status == "" {
			req.Status = model.DroneAvailable
		}

		if !req.Status.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid drone status '%s'", req.Status))
		}

		if req.BatteryLevel < 0 || req.BatteryLevel > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "battery_level must be within 0..100")
		}

		if app.dbm.DroneQuery().Name(req.Name).One() != nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("drone '%s' already exists", req.Name))
		}

		d := &model.Drone{
			Name:         req.Name,
			Model:        req.Model,
			Status:       req.Status,
			BatteryLevel: req.BatteryLevel,
			Lat:          req.Lat,
			Lon:          req.Lon,
		}

		if err := app.dbm.Create(d); err != nil {
			return err
		}

		return ctx.JSON(model.ToDroneDTO(d))
	}
}

func getDronesHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		skip, limit := paging(ctx)

		data := app.dbm.DroneQuery().Offset(skip).Limit(limit).Get()
		result := make([]*model.DroneDTO, len(data))

		for i, d := range data {
			result[i] = model.ToDroneDTO(d)
		}

		return ctx.JSON(result)
	}
}

func getDroneHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx)
		if err != nil {
			return err
		}

		d := app.dbm.DroneQuery().Id(id).One()
		if d == nil {
			return fiber.NewError(fiber.StatusNotFound, "Drone not found")
		}

		return ctx.JSON(model.ToDroneDTO(d))
	}
}

func getMissionCreateHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		req := new(MissionCreate)

		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		m, err := app.newMission(req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := app.dbm.Create(m); err != nil {
			return err
		}

		app.logger.Info("new mission", slog.Uint64("id", uint64(m.ID)), slog.String("name", m.Name))

		full, err := app.dbm.LoadMission(m.ID)
		if err != nil {
			return err
		}

		return ctx.JSON(model.ToMissionDTO(full))
	}
}

func (app *App) newMission(req *MissionCreate) (*model.Mission, error) {
	req.Name = strings.TrimSpace(req.Name)

	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	if !req.FlightPattern.Valid() {
		return nil, fmt.Errorf("invalid flight pattern '%s'", req.FlightPattern)
	}

	if req.FlightAltitude <= 0 {
		return nil, errors.New("flight_altitude_m must be positive")
	}

	if req.OverlapPercentage < 0 || req.OverlapPercentage > 100 {
		return nil, errors.New("overlap_percentage must be within 0..100")
	}

	if req.CollectionFreq < 0 {
		return nil, errors.New("data_collection_frequency_hz must not be negative")
	}

	area, err := geometry.ParseArea(req.SurveyArea)
	if err != nil {
		return nil, err
	}

	if req.DroneID != nil && app.dbm.DroneQuery().Id(*req.DroneID).One() == nil {
		return nil, fmt.Errorf("drone %d not found", *req.DroneID)
	}

	var waypoints []*model.Waypoint

	if len(req.Waypoints) > 0 {
		for _, w := range req.Waypoints {
			if w == nil {
				return nil, errors.New("empty waypoint")
			}

			waypoints = append(waypoints, &model.Waypoint{
				Latitude:      w.Latitude,
				Longitude:     w.Longitude,
				Altitude:      w.Altitude,
				SequenceOrder: w.SequenceOrder,
			})
		}
	} else {
		if waypoints, err = app.planner.Plan(area, req.FlightPattern, req.FlightAltitude); err != nil {
			return nil, fmt.Errorf("waypoint planning: %w", err)
		}
	}

	if err := geometry.CheckSequence(waypoints); err != nil {
		return nil, err
	}

	sensors := req.Sensors
	if sensors == nil {
		sensors = []string{}
	}

	return &model.Mission{
		Name:              req.Name,
		Status:            model.StatusPlanned,
		FlightPattern:     req.FlightPattern,
		FlightAltitude:    req.FlightAltitude,
		OverlapPercentage: req.OverlapPercentage,
		SurveyArea:        datatypes.JSON(req.SurveyArea),
		CollectionFreq:    req.CollectionFreq,
		Sensors:           datatypes.NewJSONSlice(sensors),
		DroneID:           req.DroneID,
		Waypoints:         waypoints,
	}, nil
}

func getMissionsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		skip, limit := paging(ctx)
		status := model.MissionStatus(ctx.Query("status"))

		if status != "" && !status.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid status '%s'", status))
		}

		data := app.dbm.MissionQuery().Status(status).Full().Offset(skip).Limit(limit).Get()
		result := make([]*model.MissionDTO, len(data))

		for i, m := range data {
			result[i] = model.ToMissionDTO(m)
		}

		return ctx.JSON(result)
	}
}

func getMissionHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx)
		if err != nil {
			return err
		}

		m, err := app.dbm.LoadMission(id)
		if err != nil {
			return err
		}

		if m == nil {
			return fiber.NewError(fiber.StatusNotFound, "Mission not found")
		}

		return ctx.JSON(model.ToMissionDTO(m))
	}
}

func getMissionControlHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx)
		if err != nil {
			return err
		}

		req := new(MissionControl)

		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		action, err := missions.ParseAction(req.Action)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := app.controller.Apply(id, action)

		switch {
		case errors.Is(err, missions.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Mission not found")
		case errors.Is(err, missions.ErrInvalidTransition):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return err
		}

		return ctx.JSON(snapshot)
	}
}

func getReportsHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		skip, limit := paging(ctx)

		data := app.dbm.ReportQuery().Offset(skip).Limit(limit).Get()
		result := make([]*model.ReportDTO, 0, len(data))

		for _, r := range data {
			result = append(result, model.ToReportDTO(r))
		}

		return ctx.JSON(result)
	}
}
