package rewards

import (
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-journey/internal/domain"
)

// ErrInvalidInput marks caller bugs: history rows for the wrong user,
// or an evaluation time earlier than the history it is judging.
var ErrInvalidInput = errors.New("invalid evaluation input")

// Evaluate decides which tiers have newly become eligible for userID at
// time now, given the full session history and the prior unlocks.
//
// For each tier, in catalog order:
//   - skip the tier if a prior unlock for its label is still inside the
//     tier's own window (the tier re-arms only once that unlock ages
//     out, at unlockedAt + WindowDays);
//   - count sessions with date >= now - WindowDays and minutes >=
//     MinSessionMinutes. Sessions are counted individually, not per
//     calendar day; a caller wanting at-most-one-per-day semantics must
//     enforce that before logging.
//   - the tier qualifies when the count reaches RequiredCount.
//
// Tiers are independent: unlocking one neither skips nor accelerates
// another, and unlocks emitted in this pass do not feed back into the
// guard checks of later tiers in the same pass.
//
// Evaluate is a pure function of its arguments. It performs no I/O and
// holds no state, so re-running it with the same inputs (after a failed
// notification, say) yields the same answer.
func (c Catalog) Evaluate(now time.Time, userID string, history []domain.Session, prior []domain.RewardUnlock) ([]Tier, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	for _, s := range history {
		if s.UserID != userID {
			return nil, fmt.Errorf("%w: session %s belongs to user %q, not %q", ErrInvalidInput, s.ID.Hex(), s.UserID, userID)
		}
		if now.Before(s.Date) {
			return nil, fmt.Errorf("%w: evaluation time %s precedes session date %s", ErrInvalidInput, now.Format(time.RFC3339), s.Date.Format(time.RFC3339))
		}
	}

	var newlyQualified []Tier
	for _, tier := range c.tiers {
		windowStart := now.AddDate(0, 0, -tier.WindowDays)

		if unlockActive(prior, userID, tier.Label, windowStart) {
			continue
		}

		qualifying := 0
		for _, s := range history {
			if s.Minutes >= MinSessionMinutes && !s.Date.Before(windowStart) {
				qualifying++
			}
		}
		if qualifying >= tier.RequiredCount {
			newlyQualified = append(newlyQualified, tier)
		}
	}
	return newlyQualified, nil
}

// unlockActive reports whether a prior unlock of rewardName still falls
// inside the current window, i.e. the tier has not re-armed yet. The
// comparison is strict: at exactly unlockedAt + windowDays the tier is
// eligible again.
func unlockActive(prior []domain.RewardUnlock, userID, rewardName string, windowStart time.Time) bool {
	for _, u := range prior {
		if u.UserID == userID && u.RewardName == rewardName && u.UnlockedAt.After(windowStart) {
			return true
		}
	}
	return false
}
