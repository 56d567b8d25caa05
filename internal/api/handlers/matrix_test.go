package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travel-matrix-service/internal/adapters/googlemaps"
	"travel-matrix-service/internal/api/dto"
	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/ports"
)

type fakeRunRepository struct {
	saved   []*domain.Run
	runs    map[string]*domain.Run
	list    []domain.RunSummary
	saveErr error
	listErr error
}

func (f *fakeRunRepository) SaveRun(ctx context.Context, run *domain.Run) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, run)
	return nil
}

func (f *fakeRunRepository) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	if run, ok := f.runs[runID]; ok {
		return run, nil
	}
	return nil, domain.ErrRunNotFound
}

func (f *fakeRunRepository) ListRuns(ctx context.Context) ([]domain.RunSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

const uploadFixture = "OriginLat,OriginLon,DestLat,DestLon,endTime\n" +
	"40.7128,-74.0060,40.7306,-73.9866,14:30\n" +
	"34.0522,-118.2437,33.9416,-118.4085,09:15\n"

var uploadPairs = [][2]string{
	{"40.7128,-74.006", "40.7306,-73.9866"},
	{"34.0522,-118.2437", "33.9416,-118.4085"},
}

func metric(text string, value int) *ports.TravelMetric {
	return &ports.TravelMetric{Text: text, Value: value}
}

func stockedProvider(t *testing.T) *googlemaps.MockTravelProvider {
	t.Helper()
	provider := googlemaps.NewMockTravelProvider()
	for _, p := range uploadPairs {
		provider.SetElement(p[0], p[1], &ports.TravelElement{
			Status:   ports.StatusOK,
			Distance: metric("5.2 km", 5200),
			Duration: metric("10 mins", 600),
		})
	}
	return provider
}

// uploadRequest builds a multipart POST; an empty csv body omits the file part.
func uploadRequest(t *testing.T, csvBody string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if csvBody != "" {
		fw, err := mw.CreateFormFile("file", "upload.csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(csvBody)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matrix", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newMatrixHandler(repo ports.RunRepository, provider ports.TravelProvider) *MatrixHandler {
	return &MatrixHandler{
		Repo:        repo,
		NewProvider: func(apiKey string) (ports.TravelProvider, error) { return provider, nil },
		DefaultMode: domain.ModeDriving,
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestMatrixCompute(t *testing.T) {
	repo := &fakeRunRepository{}
	provider := stockedProvider(t)

	var gotKey string
	h := newMatrixHandler(repo, provider)
	h.NewProvider = func(apiKey string) (ports.TravelProvider, error) {
		gotKey = apiKey
		return provider, nil
	}

	req := uploadRequest(t, uploadFixture, map[string]string{"api_key": "user-key", "mode": "driving"})
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotKey != "user-key" {
		t.Fatalf("provider key = %q, want user-key", gotKey)
	}

	var res dto.MatrixResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("expected a run_id")
	}
	if res.RowsTotal != 2 || res.RowsProcessed != 2 || res.RowsSkipped != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2/2/0", res.RowsTotal, res.RowsProcessed, res.RowsSkipped)
	}
	if len(res.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res.Results))
	}
	if res.Results[0].Origin != uploadPairs[0][0] {
		t.Fatalf("first origin = %q, want %q", res.Results[0].Origin, uploadPairs[0][0])
	}
	if res.Message != "" {
		t.Fatalf("message = %q, want empty", res.Message)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 saved run, got %d", len(repo.saved))
	}
	if repo.saved[0].RunID != res.RunID {
		t.Fatalf("saved run_id = %q, response run_id = %q", repo.saved[0].RunID, res.RunID)
	}

	today := time.Now()
	wantPrefix := today.Format("2006-01-02")
	if res.Results[0].DepartureTime[:10] != wantPrefix {
		t.Fatalf("departure %q should fall on today (%s)", res.Results[0].DepartureTime, wantPrefix)
	}
}

func TestMatrixComputeRequiresFile(t *testing.T) {
	h := newMatrixHandler(&fakeRunRepository{}, stockedProvider(t))

	req := uploadRequest(t, "", map[string]string{"api_key": "user-key"})
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "a csv file upload is required" {
		t.Fatalf("error = %q", msg)
	}
}

func TestMatrixComputeRequiresKey(t *testing.T) {
	h := newMatrixHandler(&fakeRunRepository{}, stockedProvider(t))

	req := uploadRequest(t, uploadFixture, nil)
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "a google api key is required" {
		t.Fatalf("error = %q", msg)
	}
}

func TestMatrixComputeUsesFallbackKey(t *testing.T) {
	provider := stockedProvider(t)

	var gotKey string
	h := newMatrixHandler(&fakeRunRepository{}, provider)
	h.FallbackAPIKey = "srv-key"
	h.NewProvider = func(apiKey string) (ports.TravelProvider, error) {
		gotKey = apiKey
		return provider, nil
	}

	req := uploadRequest(t, uploadFixture, nil)
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotKey != "srv-key" {
		t.Fatalf("provider key = %q, want srv-key", gotKey)
	}
}

func TestMatrixComputeRejectsUnknownMode(t *testing.T) {
	h := newMatrixHandler(&fakeRunRepository{}, stockedProvider(t))

	req := uploadRequest(t, uploadFixture, map[string]string{"api_key": "k", "mode": "flying"})
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != `unknown travel mode "flying"` {
		t.Fatalf("error = %q", msg)
	}
}

func TestMatrixComputeReportsAllMissingColumns(t *testing.T) {
	h := newMatrixHandler(&fakeRunRepository{}, stockedProvider(t))

	req := uploadRequest(t, "OriginLat,OriginLon\n40.7,-74.0\n", map[string]string{"api_key": "k"})
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "missing required columns: DestLat, DestLon, endTime" {
		t.Fatalf("error = %q", msg)
	}
}

func TestMatrixComputeNoSurvivors(t *testing.T) {
	provider := googlemaps.NewMockTravelProvider()
	provider.SetError(uploadPairs[0][0], uploadPairs[0][1], errors.New("quota exceeded"))
	provider.SetError(uploadPairs[1][0], uploadPairs[1][1], errors.New("quota exceeded"))

	h := newMatrixHandler(&fakeRunRepository{}, provider)

	req := uploadRequest(t, uploadFixture, map[string]string{"api_key": "k"})
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.MatrixResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(res.Results))
	}
	if res.Message != "No valid results to display." {
		t.Fatalf("message = %q", res.Message)
	}
	if len(res.RowErrors) != 2 || res.RowErrors[0].Stage != domain.StageQuery {
		t.Fatalf("row errors = %+v", res.RowErrors)
	}
}

func TestMatrixComputeDefaultMode(t *testing.T) {
	provider := stockedProvider(t)
	h := newMatrixHandler(&fakeRunRepository{}, provider)
	h.DefaultMode = domain.ModeWalking

	req := uploadRequest(t, uploadFixture, map[string]string{"api_key": "k"})
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(provider.Calls) == 0 || provider.Calls[0].Mode != domain.ModeWalking {
		t.Fatalf("calls = %+v, want walking mode", provider.Calls)
	}
}

func TestMatrixComputeToleratesSaveFailure(t *testing.T) {
	repo := &fakeRunRepository{saveErr: errors.New("disk full")}
	h := newMatrixHandler(repo, stockedProvider(t))

	req := uploadRequest(t, uploadFixture, map[string]string{"api_key": "k"})
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite save failure", rec.Code)
	}
}

func TestMatrixComputeMethodNotAllowed(t *testing.T) {
	h := newMatrixHandler(&fakeRunRepository{}, stockedProvider(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matrix", nil)
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", allow)
	}
}
