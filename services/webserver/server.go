// Package webserver serves the dashboard page and the JSON readings API.
// Handlers only ever read whole snapshots from the store: nothing here can
// block or slow the acquisition loop.
package webserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"watersensor-go/types"
	"watersensor-go/x/timex"
)

// SnapshotReader is the store surface the server needs.
type SnapshotReader interface {
	Read() types.Snapshot
}

type Server struct {
	store SnapshotReader
	log   *slog.Logger
	http  *http.Server

	nowMs func() int64 // injectable for tests
}

// New builds the server on the given bind address.
func New(bind string, store SnapshotReader, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{store: store, log: log, nowMs: timex.NowMs}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.getIndex)
	mux.HandleFunc("/api/data", s.getData)

	s.http = &http.Server{Addr: bind, Handler: mux}
	return s
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.log.Info("http server starting", "bind", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("http server stopping")
	return s.http.Shutdown(ctx)
}

func (s *Server) getIndex(w http.ResponseWriter, r *http.Request) {
	// The catch-all pattern also matches unknown paths; anything that is
	// not exactly the root is a 404.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexPage)
}

func (s *Server) getData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := s.store.Read()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(buildAPIBody(&snap, s.nowMs())); err != nil {
		s.log.Error("encode readings", "error", err)
	}
}

// ------------------------
// JSON body
// ------------------------

// apiBody is the wire shape of GET /api/data. Every field is always present;
// absent values are null, never omitted.
type apiBody struct {
	WaterLevelM        *float64           `json:"water_level_m"`
	ThermocoupleC      *float64           `json:"thermocouple_c"`
	AmbientC           *float64           `json:"ambient_c"`
	AmbientHumidityPct *float64           `json:"ambient_humidity_pct"`
	Status             map[string]string  `json:"status"`
	AgeS               map[string]float64 `json:"age_s"`
}

func buildAPIBody(snap *types.Snapshot, nowMs int64) apiBody {
	body := apiBody{
		Status: make(map[string]string, types.NumKinds),
		AgeS:   make(map[string]float64, types.NumKinds),
	}
	values := [types.NumKinds]**float64{
		types.WaterLevel:       &body.WaterLevelM,
		types.ThermocoupleTemp: &body.ThermocoupleC,
		types.AmbientTemp:      &body.AmbientC,
		types.AmbientHumidity:  &body.AmbientHumidityPct,
	}

	for _, k := range types.AllKinds {
		r := snap.Reading(k)
		body.Status[k.String()] = string(r.Meas.Status)
		if r.HasGood {
			v := math.Round(float64(r.Good)*1000) / 1000
			*values[k] = &v
			body.AgeS[k.String()] = round1(timex.AgeSeconds(r.GoodMs, nowMs))
		} else {
			// Nothing displayed yet: age of the latest status instead.
			body.AgeS[k.String()] = round1(timex.AgeSeconds(r.Meas.TSms, nowMs))
		}
	}
	return body
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
