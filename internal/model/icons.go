package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconHome    = "⌂"
	IconSend    = "→"
	IconBill    = "≡"
	IconTopUp   = "+"
	IconProfile = "☺"
	IconLock    = "¤"
	IconCredit  = "▲" // Incoming money
	IconDebit   = "▼" // Outgoing money
	IconWarning = "!"
	IconFatal   = "✗"
)
