package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TimelineItem is one position on a party's chronological timeline: either an
// entry that is already persisted or a draft that has not been assigned an id
// yet. Exactly one of the two fields is set.
type TimelineItem struct {
	Entry *Entry
	Draft *EntryDraft
}

// Pending reports whether the item is a not-yet-persisted draft.
func (it TimelineItem) Pending() bool {
	return it.Draft != nil
}

func (it TimelineItem) date() time.Time {
	if it.Entry != nil {
		return it.Entry.Date
	}

	return it.Draft.Date
}

func (it TimelineItem) createdAt() time.Time {
	if it.Entry != nil {
		return it.Entry.CreatedAt
	}

	return it.Draft.CreatedAt
}

// SignedAmount returns the item's contribution to the running balance.
func (it TimelineItem) SignedAmount() decimal.Decimal {
	if it.Entry != nil {
		return it.Entry.SignedAmount()
	}

	return it.Draft.SignedAmount()
}

// Timeline is a party's complete entry set in canonical chronological order.
// The order is the sole authority for running-balance semantics.
type Timeline []TimelineItem

// BuildTimeline ranks the given persisted entries, plus an optional pending
// draft, in canonical chronological order: date ascending, then createdAt
// ascending, then id ascending. A draft ties after every persisted entry with
// the same (date, createdAt) key; ids are assigned from an ascending
// sequence, so the rule stays stable once the draft is persisted and repeated
// recalculation is idempotent.
func BuildTimeline(entries []*Entry, draft *EntryDraft) Timeline {
	tl := make(Timeline, 0, len(entries)+1)
	for _, e := range entries {
		tl = append(tl, TimelineItem{Entry: e})
	}

	if draft != nil {
		tl = append(tl, TimelineItem{Draft: draft})
	}

	sort.SliceStable(tl, func(i, j int) bool {
		return tl.less(i, j)
	})

	return tl
}

func (tl Timeline) less(i, j int) bool {
	a, b := tl[i], tl[j]

	if !a.date().Equal(b.date()) {
		return a.date().Before(b.date())
	}

	if !a.createdAt().Equal(b.createdAt()) {
		return a.createdAt().Before(b.createdAt())
	}

	// Full (date, createdAt) tie: persisted entries by id, drafts last.
	switch {
	case a.Pending():
		return false
	case b.Pending():
		return true
	default:
		return a.Entry.ID < b.Entry.ID
	}
}

// BalanceUpdate is a single write the store needs: set the entry's
// balanceAfter to the given value.
type BalanceUpdate struct {
	BalanceAfter decimal.Decimal
	EntryID      int64
}

// RecalcResult is the outcome of replaying a timeline: the aggregate balance,
// the balanceAfter of the pending draft (when one was ranked), and the
// minimal set of persisted entries whose stored balanceAfter no longer
// matches the computed value.
type RecalcResult struct {
	Balance      decimal.Decimal
	DraftBalance decimal.Decimal
	Updates      []BalanceUpdate
	HasDraft     bool
}

// Recalculate replays the timeline from a zero base, computing the running
// balance after every item. Persisted entries whose stored balanceAfter
// already matches are skipped, so the write volume is bounded by the entries
// actually affected by a change.
func (tl Timeline) Recalculate() RecalcResult {
	res := RecalcResult{Balance: decimal.Zero}

	running := decimal.Zero
	for _, it := range tl {
		running = running.Add(it.SignedAmount())

		if it.Pending() {
			res.HasDraft = true
			res.DraftBalance = running

			continue
		}

		if !it.Entry.BalanceAfter.Equal(running) {
			res.Updates = append(res.Updates, BalanceUpdate{
				EntryID:      it.Entry.ID,
				BalanceAfter: running,
			})
		}
	}

	res.Balance = running

	return res
}
