package dto

// ErrorResponse is the envelope every failed request gets. Error is a
// short machine-readable label ("Forbidden", "BadRequest", ...).
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	DB        string `json:"db,omitempty"`
}
