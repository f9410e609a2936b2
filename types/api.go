package types

// APIResponse is the shared response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// PaginatedResponse extends the envelope for list endpoints.
type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// JobStatus is one queue job's state as reported by the tracker.
type JobStatus struct {
	ID        string `json:"id"`
	ArticleID string `json:"articleId"`
	Stage     Stage  `json:"stage"`
	State     string `json:"state"`
	Timestamp int64  `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}
