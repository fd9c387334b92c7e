package common

import "time"

const (
	RequestIDHeader = "X-Request-Id"

	DefaultFallbackMessage = "I'm sorry, I can't rephrase that message in a respectful way."

	DefaultClassifierTimeout = 10 * time.Second
	DefaultGeneratorTimeout  = 30 * time.Second
	ShutdownTimeout          = 10 * time.Second
)
