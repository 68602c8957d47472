package dto

// Envelope is the response body shape of every devserver endpoint.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody is embedded in error responses next to the envelope fields.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorEnvelope is returned for failed requests.
type ErrorEnvelope struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Error   ErrorBody `json:"error"`
}
