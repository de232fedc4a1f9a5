package admin

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/balkashynov/punch/internal/api"
	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/tracker"
)

// ApproverName is written to approvedBy on records approved through the console
const ApproverName = "Admin"

// CanonicalStore is where approved records end up
type CanonicalStore interface {
	Read(ctx context.Context, f api.Filter) ([]models.Record, error)
	Create(ctx context.Context, r models.Record) (string, error)
}

// RequestStore is the auxiliary store holding requests, users and totals
type RequestStore interface {
	ReadAdmin(ctx context.Context) (*api.AdminData, error)
	DeleteFrom(ctx context.Context, recordID, sheet string) error
}

// RequestState tracks one pending request through approval
type RequestState int

const (
	StatePending RequestState = iota
	StateApproving
	StateApproved
	StateApprovalFailed
)

func (s RequestState) String() string {
	switch s {
	case StateApproving:
		return "approving"
	case StateApproved:
		return "approved"
	case StateApprovalFailed:
		return "approval failed"
	default:
		return "pending"
	}
}

// Pipeline copies pending requests into the canonical store
type Pipeline struct {
	canonical CanonicalStore
	requests  RequestStore
	logger    *slog.Logger

	mu        sync.Mutex
	states    map[string]RequestState
	approving string
	rejecting string
}

func NewPipeline(canonical CanonicalStore, requests RequestStore, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		canonical: canonical,
		requests:  requests,
		logger:    logger,
		states:    make(map[string]RequestState),
	}
}

// State returns where a request is in the approval flow
func (p *Pipeline) State(recordID string) RequestState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states[recordID]
}

// Pending lists requests still waiting for a decision
func (p *Pipeline) Pending(ctx context.Context) ([]models.Record, error) {
	data, err := p.requests.ReadAdmin(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Record
	for _, r := range data.Sessions {
		if strings.EqualFold(r.ApprovedState, models.ApprovalPending) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Attendance returns the per-day totals cache
func (p *Pipeline) Attendance(ctx context.Context) ([]models.DailyTotal, error) {
	data, err := p.requests.ReadAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return data.Attendance, nil
}

// History returns canonical records, optionally filtered
func (p *Pipeline) History(ctx context.Context, f api.Filter) ([]models.Record, error) {
	return p.canonical.Read(ctx, f)
}

// Approve creates the request in the canonical store with the next free
// session number for its day, then deletes the pending copy. The two steps
// are not atomic: if the delete fails the record exists in both stores and
// the request stays pending.
func (p *Pipeline) Approve(ctx context.Context, req models.Record) (models.Record, error) {
	p.mu.Lock()
	if p.approving != "" {
		p.mu.Unlock()
		return models.Record{}, ErrInFlight
	}
	p.approving = req.RecordID
	p.states[req.RecordID] = StateApproving
	p.mu.Unlock()

	log := p.logger.With("request", req.RecordID, "user", req.UserName, "date", req.Date)

	approved, state, err := p.approve(ctx, req)
	if err != nil {
		log.Error("approve failed", "error", err)
	} else {
		log.Info("request approved", "session_no", approved.SessionNo)
	}

	p.mu.Lock()
	p.states[req.RecordID] = state
	p.approving = ""
	p.mu.Unlock()
	return approved, err
}

func (p *Pipeline) approve(ctx context.Context, req models.Record) (models.Record, RequestState, error) {
	existing, err := p.canonical.Read(ctx, api.Filter{UserName: req.UserName})
	if err != nil {
		return models.Record{}, StateApprovalFailed, &tracker.StepError{Step: "read existing sessions", Err: err}
	}

	rec := req
	rec.RecordID = ""
	rec.SessionNo = tracker.NextSessionNo(existing, req.Date, req.UserName)
	if rec.Status == "" {
		rec.Status = models.StatusCompleted
	}
	rec.ApprovedState = models.ApprovalCompleted
	rec.ApprovedBy = ApproverName

	id, err := p.canonical.Create(ctx, rec)
	if err != nil {
		return models.Record{}, StateApprovalFailed, &tracker.StepError{Step: "create approved record", Err: err}
	}
	rec.RecordID = id

	if err := p.requests.DeleteFrom(ctx, req.RecordID, api.SheetRequests); err != nil {
		return rec, StatePending, &tracker.StepError{Step: "delete pending copy", Err: err}
	}
	return rec, StateApproved, nil
}

// Reject deletes the pending copy; nothing is created
func (p *Pipeline) Reject(ctx context.Context, recordID string) error {
	p.mu.Lock()
	if p.rejecting != "" {
		p.mu.Unlock()
		return ErrInFlight
	}
	p.rejecting = recordID
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.rejecting = ""
		p.mu.Unlock()
	}()

	if err := p.requests.DeleteFrom(ctx, recordID, api.SheetRequests); err != nil {
		p.logger.Error("reject failed", "request", recordID, "error", err)
		return err
	}
	p.logger.Info("request rejected", "request", recordID)
	return nil
}
