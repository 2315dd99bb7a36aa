package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cwallet/pkg/models"
)

// SessionStore persists the last-connected account identifier.
type SessionStore interface {
	Load() (string, error)
	Save(accountID string) error
	Clear() error
}

// Fetcher obtains the current balance and chain ID for an account.
type Fetcher interface {
	Refresh(ctx context.Context, accountID string) (models.BalanceResult, error)
}

// Launcher probes and opens external URIs on the host platform. No response
// is ever read back from it.
type Launcher interface {
	CanOpenURL(uri string) bool
	OpenURL(uri string) error
}

// WalletLink is one external wallet application reachable by deep link.
type WalletLink struct {
	Name string `yaml:"name" json:"name"`
	URI  string `yaml:"uri" json:"uri"`
}

// DefaultWalletLinks is the ordered deep-link fallback list: primary scheme
// first, then alternates.
var DefaultWalletLinks = []WalletLink{
	{Name: "MetaMask", URI: "metamask://"},
	{Name: "Trust Wallet", URI: "trust://"},
	{Name: "Rainbow", URI: "rainbow://"},
}

// DefaultInstallURL is the install page offered when no wallet app is found.
const DefaultInstallURL = "https://metamask.io/download/"

// ConnectOutcome reports what the deep-link attempt achieved. The calling
// layer decides what dialog, if any, to present; the state machine moves to
// awaiting-entry either way.
type ConnectOutcome string

const (
	WalletAppOpened   ConnectOutcome = "wallet_app_opened"
	WalletAppNotFound ConnectOutcome = "wallet_app_not_found"
)

// ErrInvalidState is returned when an operation is attempted from a state it
// is not valid in.
var ErrInvalidState = errors.New("invalid session state")

// Orchestrator drives the connect/disconnect state machine. Transitions are
// serialized: an operation in flight resolves before the next is accepted.
// Refresh is the exception; it is re-entrant and applies results
// last-write-wins, guarded so a stale fetch never overwrites a newer session.
type Orchestrator struct {
	store      SessionStore
	fetcher    Fetcher
	launcher   Launcher
	links      []WalletLink
	installURL string

	mu      sync.Mutex // serializes state transitions
	session models.Session
	events  Bus
}

// NewOrchestrator wires the connection state machine to its collaborators.
// A nil links slice falls back to DefaultWalletLinks.
func NewOrchestrator(store SessionStore, fetcher Fetcher, launcher Launcher, links []WalletLink, installURL string) *Orchestrator {
	if links == nil {
		links = DefaultWalletLinks
	}
	if installURL == "" {
		installURL = DefaultInstallURL
	}
	return &Orchestrator{
		store:      store,
		fetcher:    fetcher,
		launcher:   launcher,
		links:      links,
		installURL: installURL,
		session:    models.Session{Status: models.StatusDisconnected, Balance: "0"},
	}
}

// Subscribe returns a channel of state-change events.
func (o *Orchestrator) Subscribe() Subscriber { return o.events.Subscribe() }

// Unsubscribe releases an event channel.
func (o *Orchestrator) Unsubscribe(ch Subscriber) { o.events.Unsubscribe(ch) }

// Session returns a copy of the current session.
func (o *Orchestrator) Session() models.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// InstallURL is the web page for installing the primary wallet app.
func (o *Orchestrator) InstallURL() string { return o.installURL }

// Bootstrap restores a prior session, if one was persisted. A load failure is
// treated as "never connected" and only logged: a missing or corrupt record
// is indistinguishable from no session. Run once at process start.
func (o *Orchestrator) Bootstrap(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	saved, err := o.store.Load()
	if err != nil {
		log.Printf("session restore failed, starting disconnected: %v", err)
		return
	}
	if saved == "" {
		return
	}
	o.session.AccountID = saved
	o.session.Status = models.StatusConnected
	o.events.Notify(Event{Type: EventStatusChanged, Data: o.session})
	o.refreshLocked(ctx, saved)
}

// Connect starts the deep-link handoff. Valid only from the disconnected
// state. It probes the wallet app links in order and invokes the first one
// the platform reports as openable; whether or not an app opened, the session
// moves to awaiting manual entry, since no callback ever arrives from the
// external app.
func (o *Orchestrator) Connect(ctx context.Context) (ConnectOutcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.Status != models.StatusDisconnected {
		return "", fmt.Errorf("%w: connect from %s", ErrInvalidState, o.session.Status)
	}
	o.setStatus(models.StatusConnecting)

	outcome := WalletAppNotFound
	for _, link := range o.links {
		if o.launcher.CanOpenURL(link.URI) {
			if err := o.launcher.OpenURL(link.URI); err != nil {
				log.Printf("failed to open %s: %v", link.Name, err)
				continue
			}
			outcome = WalletAppOpened
			break
		}
	}

	o.setStatus(models.StatusAwaitingEntry)
	return outcome, nil
}

// OpenInstallPage launches the wallet install page. Fire-and-forget; offered
// by the UI when Connect reports WalletAppNotFound.
func (o *Orchestrator) OpenInstallPage() {
	if err := o.launcher.OpenURL(o.installURL); err != nil {
		log.Printf("failed to open install page: %v", err)
	}
}

// SubmitAddress completes the connection with a pasted account identifier.
// Valid only while awaiting manual entry. An invalid address leaves the state
// unchanged so the caller can re-prompt; there is no retry limit. On success
// the identifier is persisted, the balance fetched (a fetch failure degrades
// to a zero balance), and the session becomes connected.
func (o *Orchestrator) SubmitAddress(ctx context.Context, candidate string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.Status != models.StatusAwaitingEntry {
		return fmt.Errorf("%w: submit from %s", ErrInvalidState, o.session.Status)
	}
	normalized, err := ValidateAddress(candidate)
	if err != nil {
		return err
	}
	if err := o.store.Save(normalized); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	o.session.AccountID = normalized
	o.session.Status = models.StatusConnected
	o.events.Notify(Event{Type: EventStatusChanged, Data: o.session})
	o.refreshLocked(ctx, normalized)
	return nil
}

// Disconnect clears the persisted session and resets all fields. Calling it
// from any state other than connected is a no-op safety transition.
func (o *Orchestrator) Disconnect() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	o.session = models.Session{Status: models.StatusDisconnected, Balance: "0"}
	o.events.Notify(Event{Type: EventStatusChanged, Data: o.session})
	return nil
}

// Refresh re-fetches the balance for the connected account. Safe to invoke
// repeatedly and concurrently; it never changes the session status. A result
// arriving after a disconnect or reconnect is discarded.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	o.mu.Lock()
	if o.session.Status != models.StatusConnected {
		o.mu.Unlock()
		return fmt.Errorf("%w: refresh from %s", ErrInvalidState, o.session.Status)
	}
	accountID := o.session.AccountID
	o.mu.Unlock()

	res, err := o.fetcher.Refresh(ctx, accountID)

	o.mu.Lock()
	defer o.mu.Unlock()
	// The session may have changed while the fetch was in flight.
	if o.session.Status != models.StatusConnected || o.session.AccountID != accountID {
		return nil
	}
	if err != nil {
		o.session.Balance = "0"
		o.events.Notify(Event{Type: EventBalanceUpdated, Data: o.session})
		return nil
	}
	o.session.Balance = res.Balance
	o.session.ChainID = res.ChainID
	o.events.Notify(Event{Type: EventBalanceUpdated, Data: o.session})
	return nil
}

// Poll refreshes the balance on a fixed interval while connected, until the
// context is cancelled.
func (o *Orchestrator) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if o.Session().Connected() {
				_ = o.Refresh(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

// refreshLocked fetches the balance while already holding the op lock, as
// part of a transition. Fetch failures degrade to a zero balance without
// touching the status.
func (o *Orchestrator) refreshLocked(ctx context.Context, accountID string) {
	res, err := o.fetcher.Refresh(ctx, accountID)
	if err != nil {
		o.session.Balance = "0"
		o.session.ChainID = 0
		o.events.Notify(Event{Type: EventBalanceUpdated, Data: o.session})
		return
	}
	o.session.Balance = res.Balance
	o.session.ChainID = res.ChainID
	o.events.Notify(Event{Type: EventBalanceUpdated, Data: o.session})
}

func (o *Orchestrator) setStatus(s models.SessionStatus) {
	o.session.Status = s
	o.events.Notify(Event{Type: EventStatusChanged, Data: o.session})
}
