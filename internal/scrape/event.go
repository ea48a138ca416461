package scrape

import "go-jobclaw-scraper/internal/normalize"

// EventType tags the variants of the run's event stream.
type EventType string

const (
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Event is the only contract between the scrape engine and its caller
// during a run: any number of Progress events followed by exactly one
// Complete or Error.
type Event struct {
	Type    EventType
	Message string
	Result  *normalize.ResultSet
}

func progressEvent(message string) Event {
	return Event{Type: EventProgress, Message: message}
}

func completeEvent(result *normalize.ResultSet) Event {
	return Event{Type: EventComplete, Result: result}
}

func errorEvent(message string) Event {
	return Event{Type: EventError, Message: message}
}
