package interfaces

// TextNotifier pushes a short operator-facing message to a chat
// channel. Implementations are best-effort; delivery failure must never
// stall the dispatch loop.
type TextNotifier interface {
	SendText(text string) error
}
