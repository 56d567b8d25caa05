package dto

type RunSummaryResponse struct {
	RunID         string `json:"run_id"`
	Mode          string `json:"mode"`
	CreatedAt     string `json:"created_at"`
	RowsTotal     int    `json:"rows_total"`
	RowsProcessed int    `json:"rows_processed"`
	RowsSkipped   int    `json:"rows_skipped"`
}

type ListRunsResponse struct {
	Runs []RunSummaryResponse `json:"runs"`
}

type RunResponse struct {
	RunID         string                 `json:"run_id"`
	Mode          string                 `json:"mode"`
	CreatedAt     string                 `json:"created_at"`
	RowsTotal     int                    `json:"rows_total"`
	RowsProcessed int                    `json:"rows_processed"`
	RowsSkipped   int                    `json:"rows_skipped"`
	Results       []TravelResultResponse `json:"results"`
	RowErrors     []RowErrorResponse     `json:"row_errors"`
}
