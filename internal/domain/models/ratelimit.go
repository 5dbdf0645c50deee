package models

// RateLimit describes an upstream throttling response and the cooldown it
// installed.
//
// RetryAfter is the number of seconds the host should be left alone.
// Remaining is only populated when describing an active cooldown.
type RateLimit struct {
	StatusCode int               `json:"status_code,omitempty"`
	Message    string            `json:"message"`
	RetryAfter int               `json:"retry_after"`
	Headers    map[string]string `json:"headers,omitempty"`
	Host       string            `json:"host"`
	Payload    any               `json:"payload,omitempty"`
	Remaining  int               `json:"remaining"`
}
