package telegram

import "errors"

var (
	// ErrAPI is returned when the Bot API answers with ok=false or a non-2xx status.
	ErrAPI = errors.New("telegram api error")
	// ErrChatNotAllowed signals an update from a chat outside the allow list.
	ErrChatNotAllowed = errors.New("chat not allowed")
)
