package prs

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/metrics"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/internal/telemetry/tracing"
	"github.com/Pac-Lorenzo/Gym-Tracker-Database/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=prs_test

type prAnalyzer interface {
	ComputePRs(ctx context.Context, userID string) ([]PersonalRecord, error)
}

type prCache interface {
	Get(ctx context.Context, userID string) ([]PersonalRecord, bool)
	Set(ctx context.Context, userID string, records []PersonalRecord)
}

type Handler struct {
	analyzer prAnalyzer
	cache    prCache
	metrics  *metrics.Manager
}

func NewHandler(analyzer prAnalyzer, cache prCache, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		analyzer: analyzer,
		cache:    cache,
		metrics:  metricsManager,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.prs.get")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	if userID == "" {
		pkg.WriteError(w, pkg.ErrKindValidation, "error, user id empty", http.StatusBadRequest)
		return
	}

	handler.metrics.CounterPRQueries.Inc()

	records, cached := handler.cache.Get(ctx, userID)
	if cached {
		handler.metrics.CounterPRCacheHits.Inc()
	} else {
		var err error
		records, err = handler.analyzer.ComputePRs(ctx, userID)
		if err != nil {
			log.Errorf("failed to compute prs for user %s: %s", userID, err)
			pkg.WriteError(w, pkg.ErrKindStorage, "failed to compute personal records", http.StatusInternalServerError)
			return
		}
		handler.cache.Set(ctx, userID, records)
	}

	recordsJson, err := json.Marshal(records)
	if err != nil {
		log.Errorf("failed to marshal prs: %s", err)
		pkg.WriteError(w, pkg.ErrKindStorage, "failed to marshal personal records", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, recordsJson)
}
