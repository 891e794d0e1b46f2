package notify

import (
	"context"
	"log"
	"time"
)

// DefaultDispatchTimeout bounds how long a single notification attempt
// may block the logging request.
const DefaultDispatchTimeout = 10 * time.Second

// Notifier defines the interface for telling a third party that a
// reward tier was unlocked. Dispatch is best-effort from the caller's
// perspective: the unlock record is already durable by the time
// NotifyUnlock runs, so a failure here is logged and swallowed, never
// rolled back.
type Notifier interface {
	NotifyUnlock(ctx context.Context, rewardName string, userID string) error
}

// NopNotifier discards notifications. Used when email is disabled in
// config (local development, tests).
type NopNotifier struct{}

func (NopNotifier) NotifyUnlock(_ context.Context, rewardName string, userID string) error {
	log.Printf("Notification disabled; skipping unlock email for reward %q (user %s)", rewardName, userID)
	return nil
}
