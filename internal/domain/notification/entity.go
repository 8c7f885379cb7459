package notification

import "time"

// EventName is the SSE event name used for notification messages.
const EventName = "notification"

// Message is a titled, optionally error-flagged notice delivered to one user.
type Message struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsError     bool      `json:"is_error"`
	CreatedAt   time.Time `json:"created_at"`
}

// Success builds a non-error message.
func Success(title, description string) Message {
	return Message{Title: title, Description: description}
}

// Failure builds an error-flagged message carrying err's text.
func Failure(err error) Message {
	return Message{Title: "Error", Description: err.Error(), IsError: true}
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
