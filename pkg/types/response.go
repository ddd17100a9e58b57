package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// LeadResult is the body returned by the lead intake endpoints.
type LeadResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
