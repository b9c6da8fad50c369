package main

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dronesurvey/dss/internal/wshandler"
)

const missionIDKey = "mission_id"

// getMissionCheckHandler rejects the upgrade for unknown missions.
func getMissionCheckHandler(app *App) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx)
		if err != nil {
			return err
		}

		if app.dbm.MissionQuery().Id(id).Count() == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Mission not found")
		}

		ctx.Locals(missionIDKey, id)

		return ctx.Next()
	}
}

func getMissionWsHandler(app *App) fiber.Handler {
	logger := slog.With("logger", "ws")

	return websocket.New(func(ws *websocket.Conn) {
		missionID, ok := ws.Locals(missionIDKey).(uint)
		if !ok {
			_ = ws.Close()
			return
		}

		name := uuid.NewString()
		h := wshandler.NewHandler(logger, name, ws, app.config.WsBuffer())

		logger.Debug("observer connected", slog.String("name", name), slog.Uint64("mission", uint64(missionID)))

		app.registry.Register(missionID, h)
		defer app.registry.Unregister(missionID, h)

		h.Listen()

		logger.Debug("observer disconnected", slog.String("name", name), slog.Uint64("mission", uint64(missionID)))
	})
}
