package dto

type TravelResultResponse struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DepartureTime   string `json:"departure_time"`
	DistanceText    string `json:"distance_text"`
	DistanceMeters  *int   `json:"distance_meters"`
	DurationText    string `json:"duration_text"`
	DurationSeconds int    `json:"duration_seconds"`
}

type RowErrorResponse struct {
	Row     int    `json:"row"`
	Stage   string `json:"stage"`
	Warning bool   `json:"warning"`
	Message string `json:"message"`
}

type MatrixResponse struct {
	RunID         string                 `json:"run_id"`
	Mode          string                 `json:"mode"`
	RowsTotal     int                    `json:"rows_total"`
	RowsProcessed int                    `json:"rows_processed"`
	RowsSkipped   int                    `json:"rows_skipped"`
	Results       []TravelResultResponse `json:"results"`
	RowErrors     []RowErrorResponse     `json:"row_errors"`
	Message       string                 `json:"message,omitempty"`
}
