package bus

// InboundMessage is one user request from a channel.
type InboundMessage struct {
	Channel       string `json:"channel"`
	SenderID      string `json:"sender_id"`
	ChatID        string `json:"chat_id"`
	Content       string `json:"content"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// OutboundMessage is the composed reply. Speak carries the same text as
// Content for channels with a speech output collaborator.
type OutboundMessage struct {
	Channel string `json:"channel"`
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
	Speak   string `json:"speak,omitempty"`
}
