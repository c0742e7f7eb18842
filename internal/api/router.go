// Package api exposes the tracker over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/julianstephens/pillbox/internal/constants"
	"github.com/julianstephens/pillbox/internal/logger"
	"github.com/julianstephens/pillbox/internal/tracker"
)

// Acknowledger is the part of the reminder scanner the API forwards check-ins to.
type Acknowledger interface {
	Acknowledge(medID string, taken bool) bool
}

type Options struct {
	Tracker *tracker.Tracker
	// Scanner may be nil when reminders are not running in-process.
	Scanner Acknowledger
	// Location interprets YYYY-MM-DD dates. Defaults to time.Local.
	Location *time.Location
	// BufferDays is the travel plan buffer used when a request omits it.
	BufferDays   int
	LowStockDays int
}

type server struct {
	opts Options
}

func NewRouter(opts Options) http.Handler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.BufferDays == 0 {
		opts.BufferDays = constants.DefaultBufferDays
	}
	s := &server{opts: opts}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/medications", func(mr chi.Router) {
		mr.Get("/", s.listMedications)
		mr.Post("/", s.createMedication)
		mr.Route("/{medID}", func(ir chi.Router) {
			ir.Get("/", s.getMedication)
			ir.Put("/", s.updateMedication)
			ir.Delete("/", s.deleteMedication)
			ir.Get("/history", s.history)
			ir.Get("/adherence", s.adherence)
			ir.Get("/match", s.match)
			ir.Post("/checkin", s.checkIn)
		})
	})

	r.Route("/consumption", func(cr chi.Router) {
		cr.Post("/", s.recordConsumption)
		cr.Patch("/{recordID}", s.updateConsumption)
	})

	r.Get("/today", s.today)
	r.Get("/stock", s.stock)
	r.Post("/travel", s.travel)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
