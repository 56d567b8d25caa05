package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strings"

	"travel-matrix-service/internal/api/dto"
	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/ports"
	"travel-matrix-service/internal/services"
)

// RunsHandler exposes recorded run history and CSV export.
type RunsHandler struct {
	Repo ports.RunRepository
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summaries, err := h.Repo.ListRuns(r.Context())
	if err != nil {
		log.Printf("list runs failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{
		Runs: make([]dto.RunSummaryResponse, 0, len(summaries)),
	}
	for _, s := range summaries {
		res.Runs = append(res.Runs, dto.RunSummaryResponse{
			RunID:         s.RunID,
			Mode:          s.Mode.String(),
			CreatedAt:     s.CreatedAt.Format(domain.DepartureTimeLayout),
			RowsTotal:     s.RowsTotal,
			RowsProcessed: s.RowsProcessed,
			RowsSkipped:   s.RowsSkipped,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Item dispatches /api/v1/runs/{id} and /api/v1/runs/{id}/export.
func (h *RunsHandler) Item(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/runs/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.get(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "export":
		h.export(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (h *RunsHandler) get(w http.ResponseWriter, r *http.Request, runID string) {
	run, err := h.Repo.GetRun(r.Context(), runID)
	if errors.Is(err, domain.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		log.Printf("get run failed: run_id=%s err=%v", runID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.RunResponse{
		RunID:         run.RunID,
		Mode:          run.Mode.String(),
		CreatedAt:     run.CreatedAt.Format(domain.DepartureTimeLayout),
		RowsTotal:     run.RowsTotal,
		RowsProcessed: run.RowsProcessed,
		RowsSkipped:   run.RowsSkipped,
		Results:       resultViews(run.Results),
		RowErrors:     rowErrorViews(run.RowErrors),
	}

	writeJSON(w, r, http.StatusOK, res)
}

// export streams the run's results as a csv download. Runs with nothing to
// export answer with an informational message instead of a file.
func (h *RunsHandler) export(w http.ResponseWriter, r *http.Request, runID string) {
	run, err := h.Repo.GetRun(r.Context(), runID)
	if errors.Is(err, domain.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		log.Printf("export run failed: run_id=%s err=%v", runID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteResultsCSV(&buf, run.Results); err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			writeJSON(w, r, http.StatusOK, map[string]string{"message": services.NoResultsMessage})
			return
		}
		log.Printf("export run failed: run_id=%s err=%v", runID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeAttachment(w, r, services.ExportContentType, services.ExportFilename, buf.Bytes())
}
