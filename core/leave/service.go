package leave

import (
	"context"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("leave request not found")
	ErrNotPending      = errors.New("leave request has already been processed")
	ErrCommentRequired = errors.New("Please provide a reason for rejection.")
	ErrStatusChange    = errors.New("leave status changes only through approval or rejection")

	NowFunc = time.Now
)

// Service is the accessor of the leave requests collection.
// When both users and mailSvc are set, requesters are emailed about decisions.
type Service struct {
	store   core.Store
	users   *user.Service
	mailSvc core.EmailService
	logger  core.Logger
	mu      sync.Mutex
}

func NewService(store core.Store, users *user.Service, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		store:   store,
		users:   users,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *Service) load(ctx context.Context) ([]Request, error) {
	requests := make([]Request, 0)
	if err := core.LoadCollection(ctx, svc.store, core.KeyLeaveRequests, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (svc *Service) save(ctx context.Context, requests []Request) error {
	return errors.Wrap(svc.store.Save(ctx, core.KeyLeaveRequests, requests), "saving leave requests")
}

func (svc *Service) QueryAll(ctx context.Context) ([]Request, error) {
	return svc.load(ctx)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Request, error) {
	requests, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Request, 0, len(requests))
	for _, r := range requests {
		if filter.Match(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (svc *Service) GetByUser(ctx context.Context, userID string) ([]Request, error) {
	return svc.Filter(ctx, QueryFilter{UserID: userID})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Request, error) {
	requests, err := svc.load(ctx)
	if err != nil {
		return Request{}, err
	}
	for _, r := range requests {
		if r.ID == id {
			return r, nil
		}
	}
	return Request{}, ErrNotFound
}

// Create files a pending request for usr. nr must have been validated.
func (svc *Service) Create(ctx context.Context, usr user.User, nr NewRequest) (Request, error) {
	if nr.StartDate > nr.EndDate {
		return Request{}, core.NewValidationError(ErrInvalidDateRange, core.FieldError{Field: "endDate", Error: ErrInvalidDateRange.Error()})
	}
	req := Request{
		ID:           uuid.New().String(),
		UserID:       usr.ID,
		EmployeeName: usr.FullName(),
		LeaveType:    nr.LeaveType,
		StartDate:    nr.StartDate,
		EndDate:      nr.EndDate,
		Remarks:      nr.Remarks,
		Status:       StatusPending,
		CreatedAt:    core.FormatDate(NowFunc()),
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	requests, err := svc.load(ctx)
	if err != nil {
		return Request{}, err
	}
	requests = append(requests, req)
	if err := svc.save(ctx, requests); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Update replaces the stored request having req.ID. It reports false, and writes nothing,
// when no such request exists.
// Status and AdminComment are kept from the stored request; see Approve and Reject.
// Asking for another status fails with ErrStatusChange.
func (svc *Service) Update(ctx context.Context, req Request) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	requests, err := svc.load(ctx)
	if err != nil {
		return false, err
	}
	for i, stored := range requests {
		if stored.ID != req.ID {
			continue
		}
		if req.Status != "" && req.Status != stored.Status {
			return false, ErrStatusChange
		}
		req.Status = stored.Status
		req.AdminComment = stored.AdminComment
		requests[i] = req
		return true, svc.save(ctx, requests)
	}
	return false, nil
}

// Approve approves the pending request id. An empty comment is replaced by DefaultApprovalComment.
func (svc *Service) Approve(ctx context.Context, id, comment string) (Request, error) {
	comment = core.CleanString(comment)
	if comment == "" {
		comment = DefaultApprovalComment
	}
	return svc.decide(ctx, id, StatusApproved, comment)
}

// Reject rejects the pending request id. The comment is required.
func (svc *Service) Reject(ctx context.Context, id, comment string) (Request, error) {
	comment = core.CleanString(comment)
	if comment == "" {
		return Request{}, core.NewValidationError(ErrCommentRequired, core.FieldError{Field: "comment", Error: ErrCommentRequired.Error()})
	}
	return svc.decide(ctx, id, StatusRejected, comment)
}

func (svc *Service) decide(ctx context.Context, id, status, comment string) (Request, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	requests, err := svc.load(ctx)
	if err != nil {
		return Request{}, err
	}
	for i, req := range requests {
		if req.ID != id {
			continue
		}
		if !req.IsPending() {
			return Request{}, ErrNotPending
		}
		req.Status = status
		req.AdminComment = comment
		requests[i] = req
		if err := svc.save(ctx, requests); err != nil {
			return Request{}, err
		}
		svc.notify(ctx, req)
		return req, nil
	}
	return Request{}, ErrNotFound
}

func (svc *Service) notify(ctx context.Context, req Request) {
	if svc.mailSvc == nil || svc.users == nil {
		return
	}
	usr, err := svc.users.GetByID(ctx, req.UserID)
	if err != nil {
		if svc.logger != nil {
			svc.logger.Warn("leave decision: requester not found", err, map[string]interface{}{"requestId": req.ID})
		}
		return
	}
	svc.mailSvc.SendMessages(decisionMessage(mail.Address{Name: usr.FullName(), Address: usr.Email}, req))
}
