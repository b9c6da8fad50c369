package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronesurvey/dss/internal/config"
	"github.com/dronesurvey/dss/internal/model"
)

const testArea = `{"type":"Polygon","coordinates":[[[30.1,59.1],[30.2,59.1],[30.2,59.2],[30.1,59.2],[30.1,59.1]]]}`

type TestApp struct {
	*App
	srv *HttpServer
}

func NewTestApp(t *testing.T) *TestApp {
	t.Helper()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg := config.NewAppConfig()
	cfg.Set("db", ":memory:")
	cfg.Set("analytics_ttl", time.Minute)

	app, err := NewApp(cfg)
	require.NoError(t, err)

	return &TestApp{App: app, srv: NewHttp(app, "127.0.0.1:0")}
}

func (app *TestApp) Req(method, url string, body any) (*http.Response, error) {
	var r io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}

		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return app.srv.f.Test(req)
}

func (app *TestApp) call(t *testing.T, method, url string, body any, code int, res any) {
	t.Helper()

	resp, err := app.Req(method, url, body)
	require.NoError(t, err)

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, code, resp.StatusCode, string(data))

	if res != nil {
		require.NoError(t, json.Unmarshal(data, res))
	}
}

func (app *TestApp) createMission(t *testing.T, name string) *model.MissionDTO {
	t.Helper()

	req := map[string]any{
		"name":                name,
		"flight_pattern":      "grid",
		"flight_altitude_m":   120,
		"overlap_percentage":  70,
		"survey_area_geojson": json.RawMessage(testArea),
		"sensors_to_use":      []string{"rgb"},
		"waypoints": []map[string]any{
			{"latitude": 59.1, "longitude": 30.1, "altitude": 120, "sequence_order": 2},
			{"latitude": 59.2, "longitude": 30.2, "altitude": 120, "sequence_order": 1},
		},
	}

	res := new(model.MissionDTO)
	app.call(t, http.MethodPost, "/api/missions", req, http.StatusOK, res)

	return res
}

func (app *TestApp) control(t *testing.T, id uint, action string, code int) map[string]any {
	t.Helper()

	res := make(map[string]any)
	app.call(t, http.MethodPost, fmt.Sprintf("/api/missions/%d/control", id), map[string]string{"action": action}, code, &res)

	return res
}

// listen serves the app on a random local port until the test ends.
func (app *TestApp) listen(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = app.srv.f.Listener(ln)
	}()

	t.Cleanup(func() {
		_ = app.srv.Shutdown(time.Second)
	})

	return ln.Addr().String()
}

func (app *TestApp) dial(t *testing.T, addr string, id uint) *websocket.Conn {
	t.Helper()

	n := app.registry.Count(id)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws/missions/%d", addr, id), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return app.registry.Count(id) == n+1 }, time.Second*2, time.Millisecond*10)

	return conn
}

func TestRoot(t *testing.T) {
	app := NewTestApp(t)

	res := make(map[string]any)
	app.call(t, http.MethodGet, "/", nil, http.StatusOK, &res)
	assert.NotEmpty(t, res["message"])
}

func TestCreateMission(t *testing.T) {
	app := NewTestApp(t)

	m := app.createMission(t, "field 1")

	assert.NotZero(t, m.ID)
	assert.Equal(t, model.StatusPlanned, m.Status)
	assert.Nil(t, m.StartedAt)
	assert.Nil(t, m.CompletedAt)
	assert.Nil(t, m.Report)
	assert.Equal(t, []string{"rgb"}, m.Sensors)
	require.Len(t, m.Waypoints, 2)
	assert.Equal(t, 1, m.Waypoints[0].SequenceOrder)
	assert.Equal(t, 2, m.Waypoints[1].SequenceOrder)

	got := new(model.MissionDTO)
	app.call(t, http.MethodGet, fmt.Sprintf("/api/missions/%d", m.ID), nil, http.StatusOK, got)
	assert.Equal(t, m.Name, got.Name)
	assert.JSONEq(t, testArea, string(got.SurveyArea))

	var list []*model.MissionDTO
	app.call(t, http.MethodGet, "/api/missions", nil, http.StatusOK, &list)
	assert.Len(t, list, 1)
}

func TestCreateMissionValidation(t *testing.T) {
	app := NewTestApp(t)

	base := func() map[string]any {
		return map[string]any{
			"name":                "m",
			"flight_pattern":      "grid",
			"flight_altitude_m":   100,
			"overlap_percentage":  50,
			"survey_area_geojson": json.RawMessage(testArea),
		}
	}

	tests := map[string]func(m map[string]any){
		"no name":       func(m map[string]any) { m["name"] = " " },
		"bad pattern":   func(m map[string]any) { m["flight_pattern"] = "spiral" },
		"zero altitude": func(m map[string]any) { m["flight_altitude_m"] = 0 },
		"overlap":       func(m map[string]any) { m["overlap_percentage"] = 101 },
		"no area":       func(m map[string]any) { delete(m, "survey_area_geojson") },
		"point area":    func(m map[string]any) { m["survey_area_geojson"] = json.RawMessage(`{"type":"Point","coordinates":[30,59]}`) },
		"no drone":      func(m map[string]any) { m["drone_id"] = 42 },
		"sequence gap": func(m map[string]any) {
			m["waypoints"] = []map[string]any{{"sequence_order": 1}, {"sequence_order": 3}}
		},
	}

	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			req := base()
			f(req)

			res := make(map[string]any)
			app.call(t, http.MethodPost, "/api/missions", req, http.StatusBadRequest, &res)
			assert.NotEmpty(t, res["detail"])
		})
	}

	assert.EqualValues(t, 0, app.dbm.MissionQuery().Count())
}

func TestMissionNotFound(t *testing.T) {
	app := NewTestApp(t)

	res := make(map[string]any)
	app.call(t, http.MethodGet, "/api/missions/100", nil, http.StatusNotFound, &res)
	assert.Equal(t, "Mission not found", res["detail"])

	res = app.control(t, 100, "start", http.StatusNotFound)
	assert.Equal(t, "Mission not found", res["detail"])

	app.call(t, http.MethodGet, "/api/missions/abc", nil, http.StatusBadRequest, nil)
}

func TestMissionControl(t *testing.T) {
	app := NewTestApp(t)

	m := app.createMission(t, "field 1")

	res := app.control(t, m.ID, "pause", http.StatusBadRequest)
	assert.Equal(t, "invalid action 'pause' for current status 'planned'", res["detail"])

	res = app.control(t, m.ID, "fly", http.StatusBadRequest)
	assert.NotEmpty(t, res["detail"])

	res = app.control(t, m.ID, "start", http.StatusOK)
	assert.Equal(t, "in_progress", res["status"])
	assert.NotNil(t, res["started_at"])

	res = app.control(t, m.ID, "complete", http.StatusOK)
	assert.Equal(t, "completed", res["status"])
	assert.NotNil(t, res["completed_at"])
	require.NotNil(t, res["report"])

	report := res["report"].(map[string]any)
	assert.Contains(t, report["summary"], "field 1")

	res = app.control(t, m.ID, "complete", http.StatusBadRequest)
	assert.Equal(t, "invalid action 'complete' for current status 'completed'", res["detail"])

	var reports []*model.ReportDTO
	app.call(t, http.MethodGet, "/api/reports", nil, http.StatusOK, &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, m.ID, reports[0].MissionID)
}

func TestMissionsStatusFilter(t *testing.T) {
	app := NewTestApp(t)

	m1 := app.createMission(t, "m1")
	app.createMission(t, "m2")
	app.createMission(t, "m3")

	app.control(t, m1.ID, "start", http.StatusOK)

	var list []*model.MissionDTO
	app.call(t, http.MethodGet, "/api/missions?status=in_progress", nil, http.StatusOK, &list)
	require.Len(t, list, 1)
	assert.Equal(t, m1.ID, list[0].ID)

	list = nil
	app.call(t, http.MethodGet, "/api/missions?status=planned&limit=1", nil, http.StatusOK, &list)
	assert.Len(t, list, 1)

	list = nil
	app.call(t, http.MethodGet, "/api/missions?status=planned", nil, http.StatusOK, &list)
	assert.Len(t, list, 2)

	app.call(t, http.MethodGet, "/api/missions?status=flying", nil, http.StatusBadRequest, nil)
}

func TestDrones(t *testing.T) {
	app := NewTestApp(t)

	d := new(model.DroneDTO)
	app.call(t, http.MethodPost, "/api/drones", map[string]any{"name": "d1", "model": "M300", "battery_level": 90}, http.StatusOK, d)
	assert.NotZero(t, d.ID)
	assert.Equal(t, model.DroneAvailable, d.Status)

	app.call(t, http.MethodPost, "/api/drones", map[string]any{"name": "d1"}, http.StatusConflict, nil)
	app.call(t, http.MethodPost, "/api/drones", map[string]any{"name": "d2", "battery_level": 120}, http.StatusBadRequest, nil)
	app.call(t, http.MethodPost, "/api/drones", map[string]any{"name": "d3", "status": "flying"}, http.StatusBadRequest, nil)

	var list []*model.DroneDTO
	app.call(t, http.MethodGet, "/api/drones", nil, http.StatusOK, &list)
	assert.Len(t, list, 1)

	res := make(map[string]any)
	app.call(t, http.MethodGet, "/api/drones/5", nil, http.StatusNotFound, &res)
	assert.Equal(t, "Drone not found", res["detail"])
}

func TestAnalytics(t *testing.T) {
	app := NewTestApp(t)

	app.call(t, http.MethodPost, "/api/drones", map[string]any{"name": "d1"}, http.StatusOK, nil)

	m1 := app.createMission(t, "m1")
	m2 := app.createMission(t, "m2")

	res := new(AnalyticsSummary)
	app.call(t, http.MethodGet, "/api/analytics/summary", nil, http.StatusOK, res)
	assert.EqualValues(t, 0, res.TotalSurveysDone)
	assert.EqualValues(t, 1, res.DroneCount)

	app.control(t, m1.ID, "start", http.StatusOK)
	app.control(t, m1.ID, "complete", http.StatusOK)
	app.control(t, m2.ID, "start", http.StatusOK)

	// every transition drops the cached summary
	app.call(t, http.MethodGet, "/api/analytics/summary", nil, http.StatusOK, res)
	assert.EqualValues(t, 1, res.TotalSurveysDone)
	assert.EqualValues(t, 1, res.MissionsInProgress)
	assert.InDelta(t, 1.0, res.TotalFlightHours, 0.001)
	assert.InDelta(t, 15.0, res.TotalDistanceKm, 0.001)
}

func TestWsUnknownMission(t *testing.T) {
	app := NewTestApp(t)

	req, err := http.NewRequest(http.MethodGet, "/ws/missions/1", nil)
	require.NoError(t, err)

	resp, err := app.srv.f.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)

	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")

	resp, err = app.srv.f.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWsObservers(t *testing.T) {
	app := NewTestApp(t)

	addr := app.listen(t)

	m1 := app.createMission(t, "m1")
	m2 := app.createMission(t, "m2")

	c1 := app.dial(t, addr, m1.ID)
	c2 := app.dial(t, addr, m2.ID)

	app.control(t, m1.ID, "start", http.StatusOK)

	var snapshot model.MissionDTO

	require.NoError(t, c1.SetReadDeadline(time.Now().Add(time.Second*2)))
	require.NoError(t, c1.ReadJSON(&snapshot))
	assert.Equal(t, m1.ID, snapshot.ID)
	assert.Equal(t, model.StatusInProgress, snapshot.Status)
	assert.NotNil(t, snapshot.StartedAt)

	// the other mission's observer gets nothing
	require.NoError(t, c2.SetReadDeadline(time.Now().Add(time.Millisecond*300)))
	assert.Error(t, c2.ReadJSON(&snapshot))

	_ = c1.Close()
	_ = c2.Close()

	require.Eventually(t, func() bool { return app.registry.Total() == 0 }, time.Second*2, time.Millisecond*10)

	// publishing with no observers left is fine
	app.control(t, m1.ID, "complete", http.StatusOK)
}

func TestWsStalledObserverDropped(t *testing.T) {
	app := NewTestApp(t)
	addr := app.listen(t)

	m1 := app.createMission(t, "m1")
	m2 := app.createMission(t, "m2")

	// never reads
	stalled := app.dial(t, addr, m1.ID)
	defer stalled.Close()

	other := app.dial(t, addr, m2.ID)
	defer other.Close()

	big := &model.MissionDTO{ID: m1.ID, Name: strings.Repeat("x", 64*1024)}

	start := time.Now()

	for i := 0; i < 2000 && app.registry.Count(m1.ID) > 0; i++ {
		app.broadcaster.Publish(m1.ID, big)
	}

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 0, app.registry.Count(m1.ID))
	assert.Equal(t, 1, app.registry.Count(m2.ID))

	app.control(t, m2.ID, "start", http.StatusOK)

	var snapshot model.MissionDTO

	require.NoError(t, other.SetReadDeadline(time.Now().Add(time.Second*2)))
	require.NoError(t, other.ReadJSON(&snapshot))
	assert.Equal(t, m2.ID, snapshot.ID)
	assert.Equal(t, model.StatusInProgress, snapshot.Status)

	require.Eventually(t, func() bool { return app.registry.Total() == 1 }, time.Second*2, time.Millisecond*10)
}
