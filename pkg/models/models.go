package models

import "time"

// SessionStatus tracks where the wallet connection flow currently is.
type SessionStatus string

const (
	StatusDisconnected  SessionStatus = "disconnected"
	StatusConnecting    SessionStatus = "connecting"
	StatusAwaitingEntry SessionStatus = "awaiting_entry"
	StatusConnected     SessionStatus = "connected"
)

// Session holds the connected wallet identity. Balance and ChainID are only
// meaningful while Status is StatusConnected; both reset to zero values on
// disconnect.
type Session struct {
	AccountID string        `json:"account_id"`
	ChainID   int64         `json:"chain_id"`
	Balance   string        `json:"balance"`
	Status    SessionStatus `json:"status"`
}

// Connected reports whether the session carries a usable identity.
func (s Session) Connected() bool {
	return s.Status == StatusConnected
}

// Profile is the user-facing display identity, independent of the Session.
type Profile struct {
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
}

// DefaultProfile returns the placeholder profile used before the user sets
// anything.
func DefaultProfile() Profile {
	return Profile{DisplayName: "User"}
}

// SplitStatus is the settlement state of a split payment.
type SplitStatus string

const (
	SplitPending   SplitStatus = "pending"
	SplitCompleted SplitStatus = "completed"
)

// Participant is one member of a split payment.
type Participant struct {
	DisplayName string `json:"display_name"`
	AccountID   string `json:"account_id"`
	HasPaid     bool   `json:"has_paid"`
	IsSelf      bool   `json:"is_self,omitempty"`
}

// SplitPayment is a shared charge divided evenly across its members. Members
// are immutable after creation; Status is derived from the paid flags and
// never set directly.
type SplitPayment struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	TotalAmount float64       `json:"total_amount"`
	Members     []Participant `json:"members"`
	Status      SplitStatus   `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PaidCount returns how many members have settled their share.
func (sp SplitPayment) PaidCount() int {
	n := 0
	for _, m := range sp.Members {
		if m.HasPaid {
			n++
		}
	}
	return n
}

// BalanceResult is a successful balance fetch: the formatted balance plus the
// chain the RPC endpoint reported.
type BalanceResult struct {
	Balance string `json:"balance"`
	ChainID int64  `json:"chain_id"`
}
