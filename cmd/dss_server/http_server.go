package main

import (
	"errors"
	"log/slog"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dronesurvey/dss/pkg/log"
)

type HttpServer struct {
	f    *fiber.App
	addr string
}

func NewHttp(app *App, addr string) *HttpServer {
	srv := &HttpServer{addr: addr}

	srv.f = fiber.New(fiber.Config{
		EnablePrintRoutes:     false,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	srv.f.Use(log.NewFiberLogger(&log.LoggerConfig{Name: "api", Level: slog.LevelDebug, DoMetrics: true}))

	srv.f.Use(cors.New(corsConfig(app.config.CorsOrigins())))

	srv.f.Get("/", getRootHandler())

	api := srv.f.Group("/api")
	addDroneApi(app, api)
	addMissionApi(app, api)
	addReportApi(app, api)

	srv.f.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}

		return fiber.ErrUpgradeRequired
	})

	srv.f.Get("/ws/missions/:id", getMissionCheckHandler(app), getMissionWsHandler(app))

	srv.f.Get("/stack", getStackHandler())
	srv.f.Get("/metrics", getMetricsHandler())

	return srv
}

func (h *HttpServer) Address() string {
	return h.addr
}

func (h *HttpServer) Listen() error {
	return h.f.Listen(h.addr)
}

func (h *HttpServer) Shutdown(timeout time.Duration) error {
	return h.f.ShutdownWithTimeout(timeout)
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return cors.Config{AllowOrigins: "*"}
	}

	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: true,
	}
}

// errorHandler renders every error as {"detail": "..."}.
func errorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}

	return ctx.Status(code).JSON(fiber.Map{"detail": msg})
}

func getRootHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"message": "Welcome to the Drone Survey Management System API"})
	}
}

func getStackHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return pprof.Lookup("goroutine").WriteTo(ctx.Response().BodyWriter(), 1)
	}
}

func getMetricsHandler() fiber.Handler {
	handler := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})

	return adaptor.HTTPHandler(handler)
}
