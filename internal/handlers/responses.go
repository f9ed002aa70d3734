package handlers

// ErrorResponse is the JSON body of error responses outside the HTML views.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	App    string `json:"app"`
}
