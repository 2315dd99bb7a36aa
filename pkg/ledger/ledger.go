// Package ledger creates and settles split payments: shared charges divided
// evenly across their participants.
package ledger

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cwallet/pkg/models"
	"cwallet/pkg/store"
	"cwallet/pkg/wallet"

	"github.com/google/uuid"
)

var (
	// ErrNoSession is returned when a split is created without a connected
	// wallet session to stamp the self participant from.
	ErrNoSession = errors.New("no active wallet session")
	// ErrNotFound indicates an unknown split ID or an out-of-range
	// participant index: a stale reference held by the caller.
	ErrNotFound = errors.New("split not found")
	// ErrInvalidAmount is returned for a non-positive total.
	ErrInvalidAmount = errors.New("total amount must be positive")
)

// InvalidMemberError reports the first member whose account identifier failed
// validation. Nothing is created when any member is invalid.
type InvalidMemberError struct {
	Index       int
	DisplayName string
	Err         error
}

func (e *InvalidMemberError) Error() string {
	return fmt.Sprintf("invalid member %q at index %d: %v", e.DisplayName, e.Index, e.Err)
}

func (e *InvalidMemberError) Unwrap() error { return e.Err }

// SelfName labels the session's own participant in a split.
const SelfName = "You"

// SessionSource exposes the current wallet session; the split ledger stamps
// the self participant from it.
type SessionSource interface {
	Session() models.Session
}

// MemberInput is one prospective participant supplied by the caller.
type MemberInput struct {
	DisplayName string `json:"display_name"`
	AccountID   string `json:"account_id"`
}

// Ledger holds the split-payment collection, most-recent first. Records are
// never deleted; completed splits are only filtered from the active view.
type Ledger struct {
	store    *store.SplitStore
	sessions SessionSource

	mu     sync.Mutex
	splits []models.SplitPayment
	events wallet.Bus
}

// NewLedger restores the persisted collection and wires the ledger to the
// session source. A load failure starts an empty collection; it is logged,
// not propagated, same as a missing one.
func NewLedger(splitStore *store.SplitStore, sessions SessionSource) *Ledger {
	splits, err := splitStore.Load()
	if err != nil {
		log.Printf("split history restore failed, starting empty: %v", err)
		splits = nil
	}
	return &Ledger{store: splitStore, sessions: sessions, splits: splits}
}

// Subscribe returns a channel of split-change events.
func (l *Ledger) Subscribe() wallet.Subscriber { return l.events.Subscribe() }

// Unsubscribe releases an event channel.
func (l *Ledger) Unsubscribe(ch wallet.Subscriber) { l.events.Unsubscribe(ch) }

// Create validates every member, appends the self participant from the
// current session with its share already marked paid, and prepends the new
// record to the collection. All-or-nothing: the first invalid member aborts
// the whole creation.
func (l *Ledger) Create(title string, totalAmount float64, otherMembers []MemberInput) (models.SplitPayment, error) {
	session := l.sessions.Session()
	if !session.Connected() {
		return models.SplitPayment{}, ErrNoSession
	}
	if totalAmount <= 0 {
		return models.SplitPayment{}, ErrInvalidAmount
	}

	members := make([]models.Participant, 0, len(otherMembers)+1)
	for i, m := range otherMembers {
		normalized, err := wallet.ValidateAddress(m.AccountID)
		if err != nil {
			return models.SplitPayment{}, &InvalidMemberError{Index: i, DisplayName: m.DisplayName, Err: err}
		}
		members = append(members, models.Participant{
			DisplayName: m.DisplayName,
			AccountID:   normalized,
		})
	}
	members = append(members, models.Participant{
		DisplayName: SelfName,
		AccountID:   session.AccountID,
		HasPaid:     true,
		IsSelf:      true,
	})

	split := models.SplitPayment{
		ID:          uuid.NewString(),
		Title:       title,
		TotalAmount: totalAmount,
		Members:     members,
		CreatedAt:   time.Now().UTC(),
	}
	split.Status = deriveStatus(split)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.splits = append([]models.SplitPayment{split}, l.splits...)
	if err := l.store.Save(l.splits); err != nil {
		l.splits = l.splits[1:]
		return models.SplitPayment{}, fmt.Errorf("persist split: %w", err)
	}
	l.events.Notify(wallet.Event{Type: wallet.EventSplitCreated, Data: split})
	return split, nil
}

// MarkPaid records a participant's settlement and recomputes the split
// status. Idempotent: marking an already-paid participant is a no-op. The
// status flips to completed exactly when every participant has paid.
func (l *Ledger) MarkPaid(splitID string, participantIndex int) (models.SplitPayment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(splitID)
	if idx < 0 {
		return models.SplitPayment{}, fmt.Errorf("%w: %s", ErrNotFound, splitID)
	}
	split := l.splits[idx]
	if participantIndex < 0 || participantIndex >= len(split.Members) {
		return models.SplitPayment{}, fmt.Errorf("%w: participant %d of %s", ErrNotFound, participantIndex, splitID)
	}
	if split.Members[participantIndex].HasPaid {
		return split, nil
	}

	// Copy-on-write so a failed save leaves the record untouched.
	updated := split
	updated.Members = append([]models.Participant(nil), split.Members...)
	updated.Members[participantIndex].HasPaid = true
	updated.Status = deriveStatus(updated)

	l.splits[idx] = updated
	if err := l.store.Save(l.splits); err != nil {
		l.splits[idx] = split
		return models.SplitPayment{}, fmt.Errorf("persist split: %w", err)
	}
	l.events.Notify(wallet.Event{Type: wallet.EventSplitUpdated, Data: updated})
	return updated, nil
}

// ActiveSplits returns the pending records in storage order, most-recent
// first. Completed splits are retained for history but excluded here.
func (l *Ledger) ActiveSplits() []models.SplitPayment {
	l.mu.Lock()
	defer l.mu.Unlock()
	var active []models.SplitPayment
	for _, s := range l.splits {
		if s.Status == models.SplitPending {
			active = append(active, s)
		}
	}
	return active
}

// Splits returns the whole collection, most-recent first.
func (l *Ledger) Splits() []models.SplitPayment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.SplitPayment(nil), l.splits...)
}

// Get returns a single split by ID.
func (l *Ledger) Get(splitID string) (models.SplitPayment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(splitID)
	if idx < 0 {
		return models.SplitPayment{}, fmt.Errorf("%w: %s", ErrNotFound, splitID)
	}
	return l.splits[idx], nil
}

func (l *Ledger) indexOf(splitID string) int {
	for i, s := range l.splits {
		if s.ID == splitID {
			return i
		}
	}
	return -1
}

// ShareOf is the per-member share: total divided evenly by the member count.
// Always recomputed, never stored. The division is plain floating point with
// no remainder reconciliation, so shares may not sum exactly back to the
// total at display precision.
func ShareOf(split models.SplitPayment) float64 {
	if len(split.Members) == 0 {
		return 0
	}
	return split.TotalAmount / float64(len(split.Members))
}

func deriveStatus(split models.SplitPayment) models.SplitStatus {
	for _, m := range split.Members {
		if !m.HasPaid {
			return models.SplitPending
		}
	}
	return models.SplitCompleted
}
