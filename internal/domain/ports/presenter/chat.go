// File: internal/domain/ports/presenter/chat.go
package presenter

import "github.com/capgarrick/deepfake-detector/internal/domain/model"

// ChatPresenter is the render port for the assistant widget. The controller
// pushes every visible change through it and never exposes its state for
// direct mutation; implementations decide how pixels happen (terminal panel,
// Telegram messages, test recorders).
//
// Calls arrive from whatever goroutine runs the controller operation.
// Implementations must either be safe for that or hand off internally.
type ChatPresenter interface {
	SessionOpened(history []model.ChatMessage)
	SessionClosed()
	MessageAppended(m model.ChatMessage)
	TypingStarted()
	TypingStopped()
	ShowSuggestions(items []string)
	ClearSuggestions()
}
