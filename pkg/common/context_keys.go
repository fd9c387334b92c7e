package common

type contextKey string

const (
	RequestIDContextKey contextKey = "request_id"
	ClientIDContextKey  contextKey = "client_id"
	LatencyContextKey   contextKey = "__execution_time"
)
