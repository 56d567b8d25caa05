package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"travel-matrix-service/internal/api/dto"
	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/metrics"
	"travel-matrix-service/internal/ports"
	"travel-matrix-service/internal/publisher"
	"travel-matrix-service/internal/services"
)

// MatrixHandler runs the upload-and-calculate flow: validate the multipart
// input, process every row sequentially, record the run, respond with the
// results and per-row errors.
type MatrixHandler struct {
	Repo        ports.RunRepository
	NewProvider func(apiKey string) (ports.TravelProvider, error)
	DefaultMode domain.Mode

	// Key used when the request carries none. Requests may still override it.
	FallbackAPIKey string

	// Optional; nil disables the concern without changing outcomes.
	Metrics *metrics.Collector
	Events  *publisher.NATSPublisher
}

func (h *MatrixHandler) Compute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "a csv file upload is required")
		return
	}
	defer file.Close()

	apiKey := strings.TrimSpace(r.FormValue("api_key"))
	if apiKey == "" {
		apiKey = h.FallbackAPIKey
	}
	if apiKey == "" {
		writeError(w, r, http.StatusBadRequest, "a google api key is required")
		return
	}

	mode := h.DefaultMode
	if v := strings.TrimSpace(r.FormValue("mode")); v != "" {
		m, err := domain.ParseMode(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	tbl, err := services.LoadTable(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("error reading csv file: %v", err))
		return
	}

	if err := services.ValidateColumns(tbl); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	provider, err := h.NewProvider(apiKey)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("error creating travel client: %v", err))
		return
	}

	start := time.Now()
	outcome, err := services.ComputeMatrix(r.Context(), services.MatrixRequest{Table: tbl, Mode: mode}, provider)
	if err != nil {
		log.Printf("compute matrix failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Metrics != nil {
		h.Metrics.RunsCompleted.Inc()
		h.Metrics.RowsProcessed.Add(float64(outcome.RowsProcessed()))
		for _, re := range outcome.RowErrors {
			h.Metrics.RowsSkipped.WithLabelValues(re.Stage).Inc()
		}
		h.Metrics.RunDuration.Observe(time.Since(start).Seconds())
	}

	run := &domain.Run{
		RunID:         uuid.New().String(),
		Mode:          mode,
		CreatedAt:     time.Now().UTC(),
		RowsTotal:     outcome.RowsTotal,
		RowsProcessed: outcome.RowsProcessed(),
		RowsSkipped:   outcome.RowsSkipped(),
		Results:       outcome.Results,
		RowErrors:     outcome.RowErrors,
	}

	// Recording is off the critical path: the response is served either way.
	if h.Repo != nil {
		if err := h.Repo.SaveRun(r.Context(), run); err != nil {
			log.Printf("save run failed: run_id=%s err=%v", run.RunID, err)
		}
	}

	if h.Events != nil {
		msg := publisher.RunCompletedMessage{
			RunID:         run.RunID,
			Mode:          run.Mode.String(),
			RowsTotal:     run.RowsTotal,
			RowsProcessed: run.RowsProcessed,
			RowsSkipped:   run.RowsSkipped,
			CompletedAt:   run.CreatedAt,
		}
		if err := h.Events.PublishRunCompleted(msg); err != nil {
			log.Printf("publish run completed failed: run_id=%s err=%v", run.RunID, err)
		}
	}

	res := dto.MatrixResponse{
		RunID:         run.RunID,
		Mode:          run.Mode.String(),
		RowsTotal:     run.RowsTotal,
		RowsProcessed: run.RowsProcessed,
		RowsSkipped:   run.RowsSkipped,
		Results:       resultViews(run.Results),
		RowErrors:     rowErrorViews(run.RowErrors),
	}
	if len(run.Results) == 0 {
		res.Message = services.NoResultsMessage
	}

	writeJSON(w, r, http.StatusOK, res)
}

func resultViews(results []domain.TravelResult) []dto.TravelResultResponse {
	out := make([]dto.TravelResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.TravelResultResponse{
			Origin:          r.Origin,
			Destination:     r.Destination,
			DepartureTime:   r.DepartureTime.Format(domain.DepartureTimeLayout),
			DistanceText:    r.DistanceText,
			DistanceMeters:  r.DistanceMeters,
			DurationText:    r.DurationText,
			DurationSeconds: r.DurationSeconds,
		})
	}
	return out
}

func rowErrorViews(rowErrors []domain.RowError) []dto.RowErrorResponse {
	out := make([]dto.RowErrorResponse, 0, len(rowErrors))
	for _, re := range rowErrors {
		out = append(out, dto.RowErrorResponse{
			Row:     re.Row,
			Stage:   re.Stage,
			Warning: re.Warning,
			Message: re.Err.Error(),
		})
	}
	return out
}
