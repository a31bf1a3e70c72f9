package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/trackbot/core/telegram/state"
	"github.com/m3rciful/trackbot/internal/domain"
	"github.com/m3rciful/trackbot/internal/repository"
	"github.com/m3rciful/trackbot/internal/service"
)

const (
	testAdminID    int64 = 99
	testCustomerID int64 = 7
)

// fakeContext implements the handful of tele.Context methods the handlers
// touch; everything else panics via the embedded nil interface.
type fakeContext struct {
	tele.Context

	sender   *tele.User
	text     string
	callback *tele.Callback
	values   map[string]interface{}
	sent     []string
	edited   []string
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: userID},
		text:   text,
		values: make(map[string]interface{}),
	}
}

func newFakeCallback(userID int64, data string) *fakeContext {
	c := newFakeContext(userID, "")
	c.callback = &tele.Callback{Data: data}
	return c
}

func (c *fakeContext) Sender() *tele.User       { return c.sender }
func (c *fakeContext) Chat() *tele.Chat         { return &tele.Chat{ID: c.sender.ID} }
func (c *fakeContext) Update() tele.Update      { return tele.Update{ID: 1} }
func (c *fakeContext) Text() string             { return c.text }
func (c *fakeContext) Callback() *tele.Callback { return c.callback }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

func (c *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.edited = append(c.edited, s)
	}
	return nil
}

func (c *fakeContext) Respond(...*tele.CallbackResponse) error { return nil }

func (c *fakeContext) Get(key string) interface{}      { return c.values[key] }
func (c *fakeContext) Set(key string, val interface{}) { c.values[key] = val }

func (c *fakeContext) lastReply() string {
	if n := len(c.sent); n > 0 {
		return c.sent[n-1]
	}
	return ""
}

type recordingOrderStore struct {
	byUser    map[int64]domain.CustomerOrder
	upserts   int
	paidCalls int
}

func newRecordingOrderStore() *recordingOrderStore {
	return &recordingOrderStore{byUser: make(map[int64]domain.CustomerOrder)}
}

func (s *recordingOrderStore) ByUserID(_ context.Context, userID int64) (domain.CustomerOrder, error) {
	order, ok := s.byUser[userID]
	if !ok {
		return domain.CustomerOrder{}, repository.ErrNotFound
	}
	return order, nil
}

func (s *recordingOrderStore) ByOrderID(_ context.Context, orderID string) (domain.CustomerOrder, error) {
	for _, order := range s.byUser {
		if order.OrderID == orderID {
			return order, nil
		}
	}
	return domain.CustomerOrder{}, repository.ErrNotFound
}

func (s *recordingOrderStore) OrderIDExists(_ context.Context, orderID string) (bool, error) {
	for _, order := range s.byUser {
		if order.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (s *recordingOrderStore) Upsert(_ context.Context, order domain.CustomerOrder) error {
	s.upserts++
	s.byUser[order.UserID] = order
	return nil
}

func (s *recordingOrderStore) SetPaid(_ context.Context, orderID string, paid bool) error {
	s.paidCalls++
	for userID, order := range s.byUser {
		if order.OrderID == orderID {
			order.IsPaid = paid
			s.byUser[userID] = order
			return nil
		}
	}
	return repository.ErrNotFound
}

type recordingRangeStore struct {
	ranges  []domain.StatusRange
	nextID  int64
	inserts int
	deletes int
}

func (s *recordingRangeStore) Insert(_ context.Context, rng domain.StatusRange) (int64, error) {
	s.inserts++
	s.nextID++
	rng.ID = s.nextID
	s.ranges = append(s.ranges, rng)
	return rng.ID, nil
}

func (s *recordingRangeStore) All(context.Context) ([]domain.StatusRange, error) {
	out := make([]domain.StatusRange, len(s.ranges))
	copy(out, s.ranges)
	return out, nil
}

func (s *recordingRangeStore) Overlapping(_ context.Context, date domain.Date) ([]domain.StatusRange, error) {
	var out []domain.StatusRange
	for _, rng := range s.ranges {
		if rng.Contains(date) {
			out = append(out, rng)
		}
	}
	return out, nil
}

func (s *recordingRangeStore) Delete(_ context.Context, id int64) error {
	for i, rng := range s.ranges {
		if rng.ID == id {
			s.deletes++
			s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func newTestBot(t *testing.T) (*Handlers, state.Manager, *recordingOrderStore, *recordingRangeStore) {
	t.Helper()
	orderStore := newRecordingOrderStore()
	rangeStore := &recordingRangeStore{}
	fsm := state.NewMemoryManager()
	h := New(testAdminID, fsm, service.NewOrders(orderStore), service.NewStatuses(rangeStore))
	h.RegisterFSM()
	return h, fsm, orderStore, rangeStore
}

func TestMalformedDateKeepsStateAndCommitsNothing(t *testing.T) {
	t.Run("registration flow", func(t *testing.T) {
		_, fsm, orderStore, _ := newTestBot(t)
		fsm.SetState(testCustomerID, StateOrderDate)

		c := newFakeContext(testCustomerID, "5.11.2025")
		require.NoError(t, fsm.ManagerHandler(c))

		assert.Equal(t, StateOrderDate, fsm.GetState(testCustomerID), "malformed date must not advance")
		assert.Zero(t, orderStore.upserts)
		assert.Equal(t, msgDateInvalid, c.lastReply())

		c2 := newFakeContext(testCustomerID, "05.11.2025")
		require.NoError(t, fsm.ManagerHandler(c2))

		assert.Equal(t, state.StateIdle, fsm.GetState(testCustomerID))
		assert.Equal(t, 1, orderStore.upserts)
		order, err := orderStore.ByUserID(context.Background(), testCustomerID)
		require.NoError(t, err)
		assert.Equal(t, "05.11.2025", order.OrderDate)
	})

	t.Run("admin range flow", func(t *testing.T) {
		_, fsm, _, rangeStore := newTestBot(t)
		fsm.SetState(testAdminID, StateRangeDateFrom)

		c := newFakeContext(testAdminID, "01-11-2025")
		require.NoError(t, fsm.ManagerHandler(c))

		assert.Equal(t, StateRangeDateFrom, fsm.GetState(testAdminID))
		_, ok := fsm.GetTempString(testAdminID, tempDateFrom)
		assert.False(t, ok, "no field may be collected from a rejected date")
		assert.Zero(t, rangeStore.inserts)
	})
}

func TestCheckDateInputNeverWrites(t *testing.T) {
	_, fsm, orderStore, rangeStore := newTestBot(t)
	rangeStore.ranges = []domain.StatusRange{
		{ID: 1, DateFrom: "01.11.2025", DateTo: "10.11.2025", Status: domain.StatusWaiting},
	}
	rangeStore.nextID = 1

	fsm.SetState(testCustomerID, StateCheckDate)
	c := newFakeContext(testCustomerID, "05.11.2025")
	require.NoError(t, fsm.ManagerHandler(c))

	assert.Equal(t, state.StateIdle, fsm.GetState(testCustomerID))
	assert.Zero(t, orderStore.upserts, "a status check is read-only")
	assert.Contains(t, c.lastReply(), domain.StatusWaiting.Label())
}

func TestNewFlowEntryClearsPriorFlow(t *testing.T) {
	h, fsm, _, _ := newTestBot(t)

	fsm.SetState(testAdminID, StateRangeDateFrom)
	c := newFakeContext(testAdminID, "01.11.2025")
	require.NoError(t, fsm.ManagerHandler(c))
	require.Equal(t, StateRangeDateTo, fsm.GetState(testAdminID))
	_, ok := fsm.GetTempString(testAdminID, tempDateFrom)
	require.True(t, ok)

	require.NoError(t, h.ManagePayment(newFakeContext(testAdminID, labelManagePayment)))

	assert.Equal(t, StatePayOrderID, fsm.GetState(testAdminID))
	_, ok = fsm.GetTempString(testAdminID, tempDateFrom)
	assert.False(t, ok, "entering a new flow drops fields collected by the old one")
}

func TestStartClearsInProgressFlow(t *testing.T) {
	h, fsm, _, _ := newTestBot(t)
	fsm.SetState(testCustomerID, StateOrderDate)

	require.NoError(t, h.Start(newFakeContext(testCustomerID, "/start")))

	assert.Equal(t, state.StateIdle, fsm.GetState(testCustomerID))
}

func TestNonAdminCallbacksNeverMutate(t *testing.T) {
	t.Run("status choice", func(t *testing.T) {
		h, fsm, _, rangeStore := newTestBot(t)
		fsm.SetState(testCustomerID, StateRangeStatus)

		c := newFakeCallback(testCustomerID, cbSetStatus+"|"+string(domain.StatusWaiting))
		require.NoError(t, h.SetStatusCallback(c))

		assert.Zero(t, rangeStore.inserts)
		_, ok := fsm.GetTempString(testCustomerID, tempStatus)
		assert.False(t, ok)
		assert.Equal(t, msgAdminsOnly, c.lastReply())
	})

	t.Run("range commit", func(t *testing.T) {
		h, fsm, _, rangeStore := newTestBot(t)
		fsm.SetState(testCustomerID, StateRangeInfo)
		fsm.SetTemp(testCustomerID, tempDateFrom, "01.11.2025")
		fsm.SetTemp(testCustomerID, tempDateTo, "10.11.2025")
		fsm.SetTemp(testCustomerID, tempStatus, string(domain.StatusWaiting))

		c := newFakeContext(testCustomerID, "note")
		require.NoError(t, h.RangeInfoInput(c))

		assert.Zero(t, rangeStore.inserts)
		assert.Equal(t, msgAdminsOnly, c.lastReply())
	})

	t.Run("payment choice", func(t *testing.T) {
		h, fsm, orderStore, _ := newTestBot(t)
		orderStore.byUser[testCustomerID] = domain.CustomerOrder{
			UserID: testCustomerID, OrderID: "AB12CD34", IsPaid: true,
		}
		fsm.SetState(testCustomerID, StatePayChoice)
		fsm.SetTemp(testCustomerID, tempOrderID, "AB12CD34")

		c := newFakeCallback(testCustomerID, cbSetPaid+"|0")
		require.NoError(t, h.SetPaidCallback(c))

		assert.Zero(t, orderStore.paidCalls)
		assert.True(t, orderStore.byUser[testCustomerID].IsPaid)
		assert.Equal(t, msgAdminsOnly, c.lastReply())
	})

	t.Run("range deletion", func(t *testing.T) {
		h, _, _, rangeStore := newTestBot(t)
		rangeStore.ranges = []domain.StatusRange{
			{ID: 1, DateFrom: "01.11.2025", DateTo: "10.11.2025", Status: domain.StatusWaiting},
		}
		rangeStore.nextID = 1

		c := newFakeContext(testCustomerID, "/delete_1")
		require.NoError(t, h.DeleteRange(c, "1"))

		assert.Zero(t, rangeStore.deletes)
		assert.Len(t, rangeStore.ranges, 1)
		assert.Equal(t, msgAdminsOnly, c.lastReply())
	})
}

func TestStatusChoiceOutsideItsStateIsIgnored(t *testing.T) {
	h, fsm, _, rangeStore := newTestBot(t)

	c := newFakeCallback(testAdminID, cbSetStatus+"|"+string(domain.StatusWaiting))
	require.NoError(t, h.SetStatusCallback(c))

	assert.Equal(t, state.StateIdle, fsm.GetState(testAdminID))
	assert.Zero(t, rangeStore.inserts)
	_, ok := fsm.GetTempString(testAdminID, tempStatus)
	assert.False(t, ok)
	assert.Empty(t, c.edited)
}

func TestAdminRangeFlowCommits(t *testing.T) {
	h, fsm, _, rangeStore := newTestBot(t)

	require.NoError(t, h.SetStatuses(newFakeContext(testAdminID, labelSetStatuses)))
	require.Equal(t, StateRangeDateFrom, fsm.GetState(testAdminID))

	require.NoError(t, fsm.ManagerHandler(newFakeContext(testAdminID, "01.11.2025")))
	require.Equal(t, StateRangeDateTo, fsm.GetState(testAdminID))

	require.NoError(t, fsm.ManagerHandler(newFakeContext(testAdminID, "10.11.2025")))
	require.Equal(t, StateRangeStatus, fsm.GetState(testAdminID))

	cb := newFakeCallback(testAdminID, cbSetStatus+"|"+string(domain.StatusInTransit))
	require.NoError(t, h.SetStatusCallback(cb))
	require.Equal(t, StateRangeInfo, fsm.GetState(testAdminID))

	require.NoError(t, fsm.ManagerHandler(newFakeContext(testAdminID, "second batch")))

	assert.Equal(t, state.StateIdle, fsm.GetState(testAdminID))
	require.Equal(t, 1, rangeStore.inserts)
	rng := rangeStore.ranges[0]
	assert.Equal(t, "01.11.2025", rng.DateFrom)
	assert.Equal(t, "10.11.2025", rng.DateTo)
	assert.Equal(t, domain.StatusInTransit, rng.Status)
	assert.Equal(t, "second batch", rng.Info)
}

func TestPaymentFlowTogglesFlag(t *testing.T) {
	h, fsm, orderStore, _ := newTestBot(t)
	orderStore.byUser[testCustomerID] = domain.CustomerOrder{
		UserID: testCustomerID, OrderID: "AB12CD34", OrderDate: "01.11.2025", IsPaid: true,
	}

	require.NoError(t, h.ManagePayment(newFakeContext(testAdminID, labelManagePayment)))
	require.Equal(t, StatePayOrderID, fsm.GetState(testAdminID))

	require.NoError(t, fsm.ManagerHandler(newFakeContext(testAdminID, "ab12cd34")))
	require.Equal(t, StatePayChoice, fsm.GetState(testAdminID))

	cb := newFakeCallback(testAdminID, cbSetPaid+"|0")
	require.NoError(t, h.SetPaidCallback(cb))

	assert.Equal(t, state.StateIdle, fsm.GetState(testAdminID))
	assert.False(t, orderStore.byUser[testCustomerID].IsPaid)
}

func TestPaymentFlowAbortsOnUnknownOrder(t *testing.T) {
	h, fsm, orderStore, _ := newTestBot(t)

	require.NoError(t, h.ManagePayment(newFakeContext(testAdminID, labelManagePayment)))
	c := newFakeContext(testAdminID, "NOPE0000")
	require.NoError(t, fsm.ManagerHandler(c))

	assert.Equal(t, state.StateIdle, fsm.GetState(testAdminID))
	assert.Zero(t, orderStore.paidCalls)
	assert.Equal(t, msgOrderNotFound, c.lastReply())
}
