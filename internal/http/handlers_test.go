package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepherg/rigtune"
	"github.com/stepherg/rigtune/catalog"
)

func newTestRouter(t *testing.T, c Catalog) (*mux.Router, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	api, err := New(c, logger, nil)
	require.NoError(t, err)
	r := mux.NewRouter()
	api.Register(r.PathPrefix("/api").Subrouter())
	return r, hook
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestNewRejectsNilCatalog(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.ErrorIs(t, err, rigtune.ErrNilStore)
}

func TestListStartupPrograms(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())
	rr := do(t, r, http.MethodGet, "/api/startup-programs")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	programs := decode[[]rigtune.StartupProgram](t, rr)
	require.Len(t, programs, 15)
	assert.Equal(t, "Microsoft Teams", programs[0].Name)
	assert.Equal(t, rigtune.ImpactHigh, programs[0].Impact)
}

func TestStartupProgramWireShape(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())
	rr := do(t, r, http.MethodGet, "/api/startup-programs/2")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"id": "2",
		"name": "Spotify",
		"publisher": "Spotify AB",
		"path": "C:\\Users\\AppData\\Roaming\\Spotify\\Spotify.exe",
		"enabled": true,
		"impact": "medium",
		"category": "bloatware",
		"description": "Music streaming service - not needed at startup"
	}`, rr.Body.String())
}

func TestToggleStartupProgram(t *testing.T) {
	store := catalog.Default()
	r, hook := newTestRouter(t, store)

	rr := do(t, r, http.MethodPost, "/api/startup-programs/3/toggle")
	require.Equal(t, http.StatusOK, rr.Code)
	p := decode[rigtune.StartupProgram](t, rr)
	assert.Equal(t, "3", p.ID)
	assert.False(t, p.Enabled)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "startup program toggled", entry.Message)
	assert.Equal(t, "3", entry.Data["program_id"])
}

func TestToggleStartupProgramNotFound(t *testing.T) {
	store := catalog.Default()
	r, _ := newTestRouter(t, store)
	before := store.StartupPrograms()

	rr := do(t, r, http.MethodPost, "/api/startup-programs/999/toggle")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Program not found"}`, rr.Body.String())
	assert.Equal(t, before, store.StartupPrograms())

	rr = do(t, r, http.MethodGet, "/api/startup-programs/999")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestToggleEssentialProgramUnchanged(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())
	rr := do(t, r, http.MethodPost, "/api/startup-programs/9/toggle")
	require.Equal(t, http.StatusOK, rr.Code)
	p := decode[rigtune.StartupProgram](t, rr)
	assert.True(t, p.Enabled)
}

func TestDisableBloatware(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())
	rr := do(t, r, http.MethodPost, "/api/startup-programs/disable-bloatware")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode[disableBloatwareResponse](t, rr)
	assert.True(t, body.Success)
	assert.Len(t, body.Disabled, 7)

	rr = do(t, r, http.MethodGet, "/api/optimization-score")
	assert.JSONEq(t, `{"score":50}`, rr.Body.String())
}

func TestListOptimizationSettings(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())
	rr := do(t, r, http.MethodGet, "/api/optimization-settings")
	require.Equal(t, http.StatusOK, rr.Code)
	settings := decode[[]rigtune.OptimizationSetting](t, rr)
	require.Len(t, settings, 12)
	assert.Equal(t, rigtune.SettingPerformance, settings[0].Category)

	rr = do(t, r, http.MethodGet, "/api/optimization-settings/clean-temp")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Clean Temporary Files", decode[rigtune.OptimizationSetting](t, rr).Name)

	rr = do(t, r, http.MethodGet, "/api/optimization-settings/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Setting not found"}`, rr.Body.String())
}

func TestToggleOptimizationSetting(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())

	rr := do(t, r, http.MethodPost, "/api/optimization-settings/game-mode/toggle")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Windows Game Mode has been enabled","settingId":"game-mode"}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/api/optimization-settings/missing/toggle")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Setting not found","settingId":"missing"}`, rr.Body.String())
}

func TestApplyRecommended(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())

	rr := do(t, r, http.MethodPost, "/api/optimization-settings/apply-recommended")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[applyRecommendedResponse](t, rr)
	assert.True(t, body.Success)
	assert.Len(t, body.Results, 8)

	rr = do(t, r, http.MethodPost, "/api/optimization-settings/apply-recommended")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"results":[]}`, rr.Body.String())
}

func TestSystemInfo(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())
	rr := do(t, r, http.MethodGet, "/api/system-info")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"os": "Windows 11 Pro (Build 22621)",
		"cpu": "AMD Ryzen 7 5800X @ 3.80GHz",
		"ram": "32GB DDR4 3600MHz",
		"gpu": "NVIDIA GeForce RTX 3070",
		"storage": "1TB NVMe SSD (45% used)"
	}`, rr.Body.String())
}

func TestScoreAndSummary(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())

	rr := do(t, r, http.MethodGet, "/api/optimization-score")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"score":0}`, rr.Body.String())

	do(t, r, http.MethodPost, "/api/startup-programs/disable-bloatware")
	do(t, r, http.MethodPost, "/api/optimization-settings/apply-recommended")

	rr = do(t, r, http.MethodGet, "/api/optimization-score")
	assert.JSONEq(t, `{"score":100}`, rr.Body.String())

	rr = do(t, r, http.MethodGet, "/api/summary")
	require.Equal(t, http.StatusOK, rr.Code)
	sum := decode[rigtune.Summary](t, rr)
	assert.Equal(t, 100, sum.Score)
	assert.Zero(t, sum.EnabledBloatware)
	assert.Zero(t, sum.PendingRecommended)
}

func TestMethodNotAllowed(t *testing.T) {
	r, _ := newTestRouter(t, catalog.Default())
	rr := do(t, r, http.MethodGet, "/api/startup-programs/1/toggle")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

// faultyCatalog fails every call it overrides.
type faultyCatalog struct {
	*catalog.Store
}

func (faultyCatalog) StartupPrograms() []rigtune.StartupProgram { panic("backing array corrupted") }

func (faultyCatalog) ToggleStartupProgram(string) (rigtune.StartupProgram, error) {
	return rigtune.StartupProgram{}, errors.New("write failed")
}

func (faultyCatalog) OptimizationScore() int { panic("divide by zero") }

func TestInternalFaults(t *testing.T) {
	r, hook := newTestRouter(t, faultyCatalog{catalog.Default()})

	tests := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/api/startup-programs", "Failed to fetch startup programs"},
		{http.MethodPost, "/api/startup-programs/1/toggle", "Failed to toggle startup program"},
		{http.MethodGet, "/api/optimization-score", "Failed to calculate optimization score"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			hook.Reset()
			rr := do(t, r, tt.method, tt.path)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rr.Body.String())
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		})
	}

	// untouched endpoints keep working
	rr := do(t, r, http.MethodGet, "/api/system-info")
	assert.Equal(t, http.StatusOK, rr.Code)
}
