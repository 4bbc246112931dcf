package notifier

import "context"

// Transport delivers report text to a messaging channel
//
//go:generate mockgen -source=notifier.go -destination=../mocks/notifier.go -package=mocks -mock_names=Transport=MockTransport
type Transport interface {
	// Send delivers text to channelID and reports whether delivery succeeded. Failures are logged.
	Send(ctx context.Context, channelID string, text string) bool
	// Close closes the underlying connection
	Close()
}

// Notification is the published payload
type Notification struct {
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// PARSE_MODE_HTML marks report text as HTML for the channel bridge
const PARSE_MODE_HTML = "HTML"
