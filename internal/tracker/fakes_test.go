package tracker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/models"
)

var errBoom = errors.New("boom")

// fakeClock is a settable clock safe for use from background goroutines
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeStore plays both the canonical and the pending store
type fakeStore struct {
	mu       sync.Mutex
	records  []models.Record
	nextID   int
	noIDs    bool
	creates  []models.Record
	updates  []models.Record
	deletes  []string
	totals   map[string]string
	reads    int
	block    chan struct{}
	started  chan struct{}
	// totalGate holds the next SetDailyTotal until closed
	totalGate    chan struct{}
	totalStarted chan struct{}
	totalLog     []string
	failOn   map[int]error // create call index -> error
	failDel  error
	failUpd  error
	loginErr error
}

func newFakeStore(records ...models.Record) *fakeStore {
	return &fakeStore{records: records, nextID: 1000, totals: map[string]string{}, failOn: map[int]error{}}
}

func (f *fakeStore) Read(_ context.Context, flt api.Filter) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	var out []models.Record
	for _, r := range f.records {
		if flt.UserName != "" && r.UserName != flt.UserName {
			continue
		}
		if flt.Date != "" && r.Date != flt.Date {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, r models.Record) (string, error) {
	if f.block != nil {
		f.started <- struct{}{}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.creates)
	f.creates = append(f.creates, r)
	if err := f.failOn[idx]; err != nil {
		return "", err
	}
	f.nextID++
	id := strconv.Itoa(f.nextID)
	r.RecordID = id
	f.records = append(f.records, r)
	if f.noIDs {
		return "", nil
	}
	return id, nil
}

func (f *fakeStore) Update(_ context.Context, r models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpd != nil {
		return f.failUpd
	}
	f.updates = append(f.updates, r)
	for i := range f.records {
		if f.records[i].RecordID == r.RecordID {
			f.records[i] = r
		}
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDel != nil {
		return f.failDel
	}
	f.deletes = append(f.deletes, id)
	for i := range f.records {
		if f.records[i].RecordID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) SetDailyTotal(_ context.Context, date, userName, total string) error {
	f.mu.Lock()
	gate := f.totalGate
	f.totalGate = nil
	f.mu.Unlock()
	if gate != nil {
		f.totalStarted <- struct{}{}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals[date+"|"+userName] = total
	f.totalLog = append(f.totalLog, total)
	return nil
}

func (f *fakeStore) snapshotTotals() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.totalLog...)
}

func (f *fakeStore) Login(_ context.Context, email, _ string) (*models.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.User{Email: email, Name: "ana", Role: models.RoleUser}, nil
}

func (f *fakeStore) snapshotCreates() []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Record(nil), f.creates...)
}

func (f *fakeStore) snapshotUpdates() []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Record(nil), f.updates...)
}

func (f *fakeStore) total(date, user string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals[date+"|"+user]
}

type harness struct {
	tracker *Tracker
	records *fakeStore
	pending *fakeStore
	storage *MemoryStorage
	clock   *fakeClock
}

// newHarness returns a tracker logged in as "ana" at now
func newHarness(now time.Time, canonical ...models.Record) *harness {
	h := &harness{
		records: newFakeStore(canonical...),
		pending: newFakeStore(),
		storage: NewMemoryStorage(),
		clock:   newClock(now),
	}
	_ = h.storage.Set(KeyUserName, "ana")
	_ = h.storage.Set(KeyUserEmail, "ana@example.com")
	h.tracker = New(Config{
		Storage: h.storage,
		Records: h.records,
		Pending: h.pending,
		Auth:    h.pending,
		Clock:   h.clock.Now,
	})
	if err := h.tracker.Load(); err != nil {
		panic(err)
	}
	return h
}

func at(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(id, date string, no int, start, end, duration string) models.Record {
	return models.Record{
		RecordID:      id,
		Date:          date,
		UserName:      "ana",
		SessionNo:     no,
		StartTime:     start,
		EndTime:       end,
		Duration:      duration,
		Status:        models.StatusCompleted,
		ApprovedState: models.ApprovalPending,
	}
}
