package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// MessageResponse respuesta con un único mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status string `json:"status"`
}
