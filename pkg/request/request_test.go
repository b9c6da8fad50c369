package request

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body == nil {
			body = make(map[string]any)
		}

		body["method"] = r.Method
		body["q"] = r.URL.Query().Get("q")
		body["ct"] = r.Header.Get("Content-Type")

		_ = json.NewEncoder(w).Encode(body)
	})

	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Mission not found"}`))
	})

	mux.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestGetJSON(t *testing.T) {
	srv := testServer(t)

	var res map[string]any

	err := New(srv.Client(), nil).URL(srv.URL + "/echo").Args(map[string]string{"q": "1"}).GetJSON(context.Background(), &res)
	require.NoError(t, err)
	assert.Equal(t, "GET", res["method"])
	assert.Equal(t, "1", res["q"])
}

func TestPostJSON(t *testing.T) {
	srv := testServer(t)

	var res map[string]any

	err := New(srv.Client(), nil).URL(srv.URL+"/echo").Post().JSON(map[string]string{"action": "start"}).GetJSON(context.Background(), &res)
	require.NoError(t, err)
	assert.Equal(t, "POST", res["method"])
	assert.Equal(t, "start", res["action"])
	assert.Equal(t, "application/json", res["ct"])
}

func TestStatusError(t *testing.T) {
	srv := testServer(t)

	err := New(srv.Client(), nil).URL(srv.URL+"/missing").GetJSON(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, "404: Mission not found", err.Error())

	err = New(srv.Client(), nil).URL(srv.URL+"/plain").GetJSON(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, "status is 502", err.Error())
}
