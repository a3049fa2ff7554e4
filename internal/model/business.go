package model

// Business is the read view of a backend-owned business record.
type Business struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Status  string  `json:"status"`
}

// Health is the backend health check response.
type Health struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Linkage maps a chat user to their business and the session they are
// currently tracking. Volatile by nature — the repository decides whether it
// lives in memory or in Redis.
type Linkage struct {
	UserID        int64
	BusinessID    string
	BusinessName  string
	OpenSessionID string // empty when no session is tracked
}
