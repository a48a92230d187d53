package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/stepherg/rigtune"
	"github.com/stepherg/rigtune/internal/logging"
)

// Catalog is the store surface the API needs. *catalog.Store implements it.
type Catalog interface {
	StartupPrograms() []rigtune.StartupProgram
	StartupProgram(id string) (rigtune.StartupProgram, error)
	ToggleStartupProgram(id string) (rigtune.StartupProgram, error)
	DisableAllBloatware() []rigtune.StartupProgram
	OptimizationSettings() []rigtune.OptimizationSetting
	OptimizationSetting(id string) (rigtune.OptimizationSetting, error)
	ToggleOptimizationSetting(id string) rigtune.OptimizationResult
	ApplyRecommendedSettings() []rigtune.OptimizationResult
	SystemInfo() rigtune.SystemInfo
	OptimizationScore() int
	Summary() rigtune.Summary
	Subscribe(buffer int) rigtune.EventSubscription
}

// API serves the dashboard endpoints over a Catalog.
type API struct {
	catalog Catalog
	log     logrus.FieldLogger
	events  *EventStream
}

func New(c Catalog, logger logrus.FieldLogger, checkOrigin func(*http.Request) bool) (*API, error) {
	if c == nil {
		return nil, rigtune.ErrNilStore
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &API{
		catalog: c,
		log:     logger,
		events:  NewEventStream(c, logger, checkOrigin),
	}, nil
}

// Register mounts the API routes on r; r is normally the /api subrouter.
func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/startup-programs", a.guard("Failed to fetch startup programs", a.listPrograms)).Methods(http.MethodGet)
	r.HandleFunc("/startup-programs/disable-bloatware", a.guard("Failed to disable bloatware", a.disableBloatware)).Methods(http.MethodPost)
	r.HandleFunc("/startup-programs/{id}", a.guard("Failed to fetch startup program", a.getProgram)).Methods(http.MethodGet)
	r.HandleFunc("/startup-programs/{id}/toggle", a.guard("Failed to toggle startup program", a.toggleProgram)).Methods(http.MethodPost)

	r.HandleFunc("/optimization-settings", a.guard("Failed to fetch optimization settings", a.listSettings)).Methods(http.MethodGet)
	r.HandleFunc("/optimization-settings/apply-recommended", a.guard("Failed to apply recommended settings", a.applyRecommended)).Methods(http.MethodPost)
	r.HandleFunc("/optimization-settings/{id}", a.guard("Failed to fetch optimization setting", a.getSetting)).Methods(http.MethodGet)
	r.HandleFunc("/optimization-settings/{id}/toggle", a.guard("Failed to toggle optimization setting", a.toggleSetting)).Methods(http.MethodPost)

	r.HandleFunc("/system-info", a.guard("Failed to fetch system info", a.systemInfo)).Methods(http.MethodGet)
	r.HandleFunc("/optimization-score", a.guard("Failed to calculate optimization score", a.score)).Methods(http.MethodGet)
	r.HandleFunc("/summary", a.guard("Failed to build summary", a.summary)).Methods(http.MethodGet)
	r.Handle("/events", a.events).Methods(http.MethodGet)
}

// handlerFunc reports unexpected faults as errors; guard turns them, and
// panics, into a 500 carrying the endpoint's generic message.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (a *API) guard(failure string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context(), a.log)
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", fmt.Sprint(rec)).Error(failure)
				writeError(w, http.StatusInternalServerError, failure)
			}
		}()
		if err := h(w, r); err != nil {
			log.WithError(err).Error(failure)
			writeError(w, http.StatusInternalServerError, failure)
		}
	}
}

func (a *API) listPrograms(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, a.catalog.StartupPrograms())
	return nil
}

func (a *API) getProgram(w http.ResponseWriter, r *http.Request) error {
	p, err := a.catalog.StartupProgram(mux.Vars(r)["id"])
	if errors.Is(err, rigtune.ErrProgramNotFound) {
		writeError(w, http.StatusNotFound, "Program not found")
		return nil
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

func (a *API) toggleProgram(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["id"]
	p, err := a.catalog.ToggleStartupProgram(id)
	if errors.Is(err, rigtune.ErrProgramNotFound) {
		writeError(w, http.StatusNotFound, "Program not found")
		return nil
	}
	if err != nil {
		return err
	}
	logging.FromContext(r.Context(), a.log).WithFields(logrus.Fields{
		"program_id": id,
		"enabled":    p.Enabled,
	}).Info("startup program toggled")
	writeJSON(w, http.StatusOK, p)
	return nil
}

type disableBloatwareResponse struct {
	Success  bool                     `json:"success"`
	Disabled []rigtune.StartupProgram `json:"disabled"`
}

func (a *API) disableBloatware(w http.ResponseWriter, r *http.Request) error {
	disabled := a.catalog.DisableAllBloatware()
	logging.FromContext(r.Context(), a.log).WithField("count", len(disabled)).Info("bloatware disabled")
	writeJSON(w, http.StatusOK, disableBloatwareResponse{Success: true, Disabled: disabled})
	return nil
}

func (a *API) listSettings(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, a.catalog.OptimizationSettings())
	return nil
}

func (a *API) getSetting(w http.ResponseWriter, r *http.Request) error {
	s, err := a.catalog.OptimizationSetting(mux.Vars(r)["id"])
	if errors.Is(err, rigtune.ErrSettingNotFound) {
		writeError(w, http.StatusNotFound, "Setting not found")
		return nil
	}
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, s)
	return nil
}

func (a *API) toggleSetting(w http.ResponseWriter, r *http.Request) error {
	res := a.catalog.ToggleOptimizationSetting(mux.Vars(r)["id"])
	if !res.Success {
		writeJSON(w, http.StatusNotFound, res)
		return nil
	}
	logging.FromContext(r.Context(), a.log).WithField("setting_id", res.SettingID).Info(res.Message)
	writeJSON(w, http.StatusOK, res)
	return nil
}

type applyRecommendedResponse struct {
	Success bool                         `json:"success"`
	Results []rigtune.OptimizationResult `json:"results"`
}

func (a *API) applyRecommended(w http.ResponseWriter, r *http.Request) error {
	results := a.catalog.ApplyRecommendedSettings()
	logging.FromContext(r.Context(), a.log).WithField("count", len(results)).Info("recommended settings applied")
	writeJSON(w, http.StatusOK, applyRecommendedResponse{Success: true, Results: results})
	return nil
}

func (a *API) systemInfo(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, a.catalog.SystemInfo())
	return nil
}

func (a *API) score(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, struct {
		Score int `json:"score"`
	}{Score: a.catalog.OptimizationScore()})
	return nil
}

func (a *API) summary(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, a.catalog.Summary())
	return nil
}
