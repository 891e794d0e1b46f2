package rewards

import (
	"errors"
	"fmt"
	"time"
)

// MinSessionMinutes is the minimum workout duration for a session to
// count toward any tier's qualifying count.
const MinSessionMinutes = 30

// Tier is one reward definition: unlock when RequiredCount qualifying
// sessions fall within the trailing WindowDays. Label doubles as the
// idempotence key in the unlock store, so it must be unique within a
// catalog and stable across releases.
type Tier struct {
	RequiredCount int
	WindowDays    int
	Label         string
}

// WindowEpoch buckets a point in time by this tier's window length.
// Two unlocks of the same tier landing in the same bucket collide on
// the unlock store's unique index, which is what turns a concurrent
// double-unlock race into a benign already-exists error.
func (t Tier) WindowEpoch(at time.Time) int64 {
	return (at.Unix() / 86400) / int64(t.WindowDays)
}

// Catalog is the ordered, immutable list of reward tiers. It is loaded
// once at startup; evaluation walks tiers in declaration order, not by
// threshold, so that multiple tiers qualifying in the same pass come
// out in a deterministic order.
type Catalog struct {
	tiers []Tier
}

// NewCatalog validates the tier list and returns a catalog.
func NewCatalog(tiers []Tier) (Catalog, error) {
	if len(tiers) == 0 {
		return Catalog{}, errors.New("catalog requires at least one tier")
	}
	seen := make(map[string]struct{}, len(tiers))
	for _, t := range tiers {
		if t.Label == "" {
			return Catalog{}, errors.New("tier label must not be empty")
		}
		if t.RequiredCount <= 0 || t.WindowDays <= 0 {
			return Catalog{}, fmt.Errorf("tier %q requires positive count and window", t.Label)
		}
		if _, dup := seen[t.Label]; dup {
			return Catalog{}, fmt.Errorf("duplicate tier label %q", t.Label)
		}
		seen[t.Label] = struct{}{}
	}
	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return Catalog{tiers: cp}, nil
}

// DefaultCatalog is the compiled-in reward program: a weekly massage
// tier plus two month-scale tiers sized to the 31-day program.
func DefaultCatalog() Catalog {
	c, err := NewCatalog([]Tier{
		{RequiredCount: 5, WindowDays: 7, Label: "massage"},
		{RequiredCount: 12, WindowDays: 31, Label: "spa day"},
		{RequiredCount: 20, WindowDays: 31, Label: "weekend getaway"},
	})
	if err != nil {
		// The default catalog is a compile-time constant in spirit;
		// failing validation here is a programming error.
		panic(err)
	}
	return c
}

// Tiers returns the tiers in evaluation order. The returned slice is a
// copy; the catalog itself is never mutated after construction.
func (c Catalog) Tiers() []Tier {
	cp := make([]Tier, len(c.tiers))
	copy(cp, c.tiers)
	return cp
}

// MaxWindowDays reports the longest window in the catalog. Callers use
// it to bound how much session history an evaluation pass needs.
func (c Catalog) MaxWindowDays() int {
	max := 0
	for _, t := range c.tiers {
		if t.WindowDays > max {
			max = t.WindowDays
		}
	}
	return max
}
