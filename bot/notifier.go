// Package bot provides a wrapper for the Telegram bot to implement the
// sync service's CycleNotifier interface
package bot

// Notifier wraps the package-level bot functions to implement services.CycleNotifier
type Notifier struct{}

// NewNotifier creates a new bot notifier
func NewNotifier() *Notifier {
	return &Notifier{}
}

// SendNotification sends a notification to the admin chat
func (n *Notifier) SendNotification(message string) {
	SendNotification(message)
}

// Ensure Notifier implements the CycleNotifier interface
var _ interface {
	SendNotification(message string)
} = (*Notifier)(nil)
