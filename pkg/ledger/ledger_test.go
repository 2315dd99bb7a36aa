package ledger

import (
	"testing"

	"cwallet/pkg/models"
	"cwallet/pkg/store"
	"cwallet/pkg/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Digit-only addresses are their own checksummed form, so assertions can
// compare them without re-deriving the mixed-case encoding.
const (
	selfAddr  = "0x9999999999999999999999999999999999999999"
	aliceAddr = "0x1111111111111111111111111111111111111111"
	bobAddr   = "0x2222222222222222222222222222222222222222"
)

type stubSessions struct {
	session models.Session
}

func (s *stubSessions) Session() models.Session { return s.session }

func connectedSessions() *stubSessions {
	return &stubSessions{session: models.Session{
		AccountID: selfAddr,
		ChainID:   1,
		Balance:   "1.0000",
		Status:    models.StatusConnected,
	}}
}

func newTestLedger(t *testing.T) (*Ledger, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	return NewLedger(store.NewSplitStore(kv), connectedSessions()), kv
}

func dinnerMembers() []MemberInput {
	return []MemberInput{
		{DisplayName: "Alice", AccountID: aliceAddr},
		{DisplayName: "Bob", AccountID: bobAddr},
	}
}

func TestCreateAppendsSelfLast(t *testing.T) {
	l, _ := newTestLedger(t)

	split, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)

	assert.NotEmpty(t, split.ID)
	assert.Equal(t, "Dinner Split", split.Title)
	assert.Equal(t, 0.05, split.TotalAmount)
	require.Len(t, split.Members, 3)
	assert.Equal(t, "Alice", split.Members[0].DisplayName)
	assert.Equal(t, aliceAddr, split.Members[0].AccountID)
	assert.False(t, split.Members[0].HasPaid)
	assert.Equal(t, "Bob", split.Members[1].DisplayName)
	assert.False(t, split.Members[1].HasPaid)

	self := split.Members[2]
	assert.Equal(t, SelfName, self.DisplayName)
	assert.Equal(t, selfAddr, self.AccountID)
	assert.True(t, self.HasPaid)
	assert.True(t, self.IsSelf)

	assert.Equal(t, models.SplitPending, split.Status)
	assert.Equal(t, 1, split.PaidCount())
	assert.False(t, split.CreatedAt.IsZero())
}

func TestCreateNormalizesMemberAddresses(t *testing.T) {
	l, _ := newTestLedger(t)

	split, err := l.Create("Cab", 0.01, []MemberInput{
		{DisplayName: "Alice", AccountID: "  0X1111111111111111111111111111111111111111 "},
	})
	require.NoError(t, err)
	assert.Equal(t, aliceAddr, split.Members[0].AccountID)
}

func TestCreateRequiresConnectedSession(t *testing.T) {
	kv := store.NewMemoryKV()
	l := NewLedger(store.NewSplitStore(kv), &stubSessions{session: models.Session{Status: models.StatusDisconnected}})

	_, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, l.Splits())
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	l, _ := newTestLedger(t)

	for _, amount := range []float64{0, -0.01} {
		_, err := l.Create("Dinner Split", amount, dinnerMembers())
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.Empty(t, l.Splits())
}

func TestCreateInvalidMemberAbortsEverything(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.Create("Dinner Split", 0.05, []MemberInput{
		{DisplayName: "Alice", AccountID: aliceAddr},
		{DisplayName: "Bob", AccountID: "not-an-address"},
	})
	require.Error(t, err)

	var memberErr *InvalidMemberError
	require.ErrorAs(t, err, &memberErr)
	assert.Equal(t, 1, memberErr.Index)
	assert.Equal(t, "Bob", memberErr.DisplayName)
	assert.ErrorIs(t, err, wallet.ErrInvalidAddress)
	assert.Empty(t, l.Splits())
}

func TestMarkPaidCompletesWhenEveryoneHasPaid(t *testing.T) {
	l, _ := newTestLedger(t)
	split, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)

	updated, err := l.MarkPaid(split.ID, 0)
	require.NoError(t, err)
	assert.True(t, updated.Members[0].HasPaid)
	assert.Equal(t, models.SplitPending, updated.Status)
	assert.Equal(t, 2, updated.PaidCount())

	updated, err = l.MarkPaid(split.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SplitCompleted, updated.Status)
	assert.Equal(t, 3, updated.PaidCount())
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	l, _ := newTestLedger(t)
	split, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)

	first, err := l.MarkPaid(split.ID, 0)
	require.NoError(t, err)
	again, err := l.MarkPaid(split.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// The self participant starts paid, so marking it is also a no-op.
	same, err := l.MarkPaid(split.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.SplitPending, same.Status)
}

func TestMarkPaidUnknownReferences(t *testing.T) {
	l, _ := newTestLedger(t)
	split, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)

	_, err = l.MarkPaid("no-such-split", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.MarkPaid(split.ID, -1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.MarkPaid(split.ID, len(split.Members))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveSplitsFiltersCompleted(t *testing.T) {
	l, _ := newTestLedger(t)

	first, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)
	second, err := l.Create("Cab", 0.01, dinnerMembers()[:1])
	require.NoError(t, err)

	// Most recent first.
	active := l.ActiveSplits()
	require.Len(t, active, 2)
	assert.Equal(t, second.ID, active[0].ID)
	assert.Equal(t, first.ID, active[1].ID)

	_, err = l.MarkPaid(second.ID, 0)
	require.NoError(t, err)

	active = l.ActiveSplits()
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)

	// Completed records stay in the full history.
	assert.Len(t, l.Splits(), 2)
}

func TestGet(t *testing.T) {
	l, _ := newTestLedger(t)
	split, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)

	got, err := l.Get(split.ID)
	require.NoError(t, err)
	assert.Equal(t, split, got)

	_, err = l.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareOf(t *testing.T) {
	split := models.SplitPayment{
		TotalAmount: 0.05,
		Members:     make([]models.Participant, 3),
	}
	assert.InDelta(t, 0.0166667, ShareOf(split), 1e-6)

	assert.Equal(t, float64(0), ShareOf(models.SplitPayment{TotalAmount: 0.05}))
}

func TestLedgerSurvivesRestart(t *testing.T) {
	kv := store.NewMemoryKV()
	splitStore := store.NewSplitStore(kv)
	l := NewLedger(splitStore, connectedSessions())

	split, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)
	_, err = l.MarkPaid(split.ID, 0)
	require.NoError(t, err)

	reloaded := NewLedger(store.NewSplitStore(kv), connectedSessions())
	splits := reloaded.Splits()
	require.Len(t, splits, 1)
	assert.Equal(t, split.ID, splits[0].ID)
	assert.True(t, splits[0].Members[0].HasPaid)
}

func TestLedgerLoadFailureStartsEmpty(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(store.KeySplits, []byte("{corrupt")))

	l := NewLedger(store.NewSplitStore(kv), connectedSessions())
	assert.Empty(t, l.Splits())

	// The ledger stays usable after the failed restore.
	_, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)
}

func TestSplitEventsAreBroadcast(t *testing.T) {
	l, _ := newTestLedger(t)
	sub := l.Subscribe()
	defer l.Unsubscribe(sub)

	split, err := l.Create("Dinner Split", 0.05, dinnerMembers())
	require.NoError(t, err)

	ev := <-sub
	assert.Equal(t, wallet.EventSplitCreated, ev.Type)
	assert.Equal(t, split, ev.Data)

	updated, err := l.MarkPaid(split.ID, 0)
	require.NoError(t, err)

	ev = <-sub
	assert.Equal(t, wallet.EventSplitUpdated, ev.Type)
	assert.Equal(t, updated, ev.Data)

	// No-op settlements emit nothing; the next event is the next real change.
	_, err = l.MarkPaid(split.ID, 0)
	require.NoError(t, err)
	_, err = l.MarkPaid(split.ID, 1)
	require.NoError(t, err)
	ev = <-sub
	assert.Equal(t, wallet.EventSplitUpdated, ev.Type)
}
