package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/hrms/core"
)

var (
	// errors
	ErrNotFound           = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrNotCheckedIn       = errors.New("not checked in today")
	ErrAlreadyCheckedOut  = errors.New("already checked out today")
	ErrMissingRecordOwner = errors.New("attendance record needs a user and a date")
	ErrRecordKeyChanged   = errors.New("the user and date of an attendance record cannot be changed")

	// NowFunc returns the current time. Dates are taken in UTC, clock times in the location of the returned time.
	NowFunc = time.Now
)

// Service is the accessor of the attendance collection.
type Service struct {
	store core.Store
	mu    sync.Mutex
}

func NewService(store core.Store) *Service {
	return &Service{store: store}
}

func (svc *Service) load(ctx context.Context) ([]Record, error) {
	records := make([]Record, 0)
	if err := core.LoadCollection(ctx, svc.store, core.KeyAttendance, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (svc *Service) save(ctx context.Context, records []Record) error {
	return errors.Wrap(svc.store.Save(ctx, core.KeyAttendance, records), "saving attendance")
}

// Today returns today's date (UTC) as YYYY-MM-DD.
func Today() string {
	return core.FormatDate(NowFunc())
}

func (svc *Service) QueryAll(ctx context.Context) ([]Record, error) {
	return svc.load(ctx)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Record, error) {
	records, err := svc.load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if filter.Match(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (svc *Service) GetByUser(ctx context.Context, userID string) ([]Record, error) {
	return svc.Filter(ctx, QueryFilter{UserID: userID})
}

// Get returns the record of userID on date.
func (svc *Service) Get(ctx context.Context, userID, date string) (Record, error) {
	records, err := svc.load(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.UserID == userID && r.Date == date {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

func (svc *Service) GetToday(ctx context.Context, userID string) (Record, error) {
	return svc.Get(ctx, userID, Today())
}

func (svc *Service) GetByID(ctx context.Context, id string) (Record, error) {
	records, err := svc.load(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}

// Upsert stores rec, replacing the record having the same (UserID, Date) if any.
// It reports whether rec was inserted.
// A replaced record keeps its ID; an inserted one gets the ID derived from its key.
func (svc *Service) Upsert(ctx context.Context, rec Record) (bool, error) {
	if rec.UserID == "" || rec.Date == "" {
		return false, ErrMissingRecordOwner
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	_, inserted, err := svc.upsert(ctx, rec)
	return inserted, err
}

func (svc *Service) upsert(ctx context.Context, rec Record) (Record, bool, error) {
	records, err := svc.load(ctx)
	if err != nil {
		return Record{}, false, err
	}
	for i := range records {
		if records[i].UserID == rec.UserID && records[i].Date == rec.Date {
			rec.ID = records[i].ID
			records[i] = rec
			return rec, false, svc.save(ctx, records)
		}
	}
	rec.ID = RecordID(rec.UserID, rec.Date)
	records = append(records, rec)
	return rec, true, svc.save(ctx, records)
}

// UpdateByID replaces the record having rec.ID. It reports false, and writes nothing,
// when no such record exists. The (UserID, Date) key of a record is fixed:
// ErrRecordKeyChanged is returned when rec carries another one.
func (svc *Service) UpdateByID(ctx context.Context, rec Record) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	records, err := svc.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range records {
		if records[i].ID != rec.ID {
			continue
		}
		if records[i].UserID != rec.UserID || records[i].Date != rec.Date {
			return false, ErrRecordKeyChanged
		}
		records[i] = rec
		return true, svc.save(ctx, records)
	}
	return false, nil
}

// CheckIn records userID as present today, checked in now.
func (svc *Service) CheckIn(ctx context.Context, userID string) (Record, error) {
	now := NowFunc()
	today := core.FormatDate(now)

	svc.mu.Lock()
	defer svc.mu.Unlock()

	records, err := svc.load(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.UserID == userID && r.Date == today && r.HasCheckedIn() {
			return Record{}, ErrAlreadyCheckedIn
		}
	}

	rec := Record{
		Date:    today,
		UserID:  userID,
		CheckIn: null.StringFrom(now.Format(ClockLayout)),
		Status:  StatusPresent,
	}
	rec, _, err = svc.upsert(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// CheckOut sets the check-out time of today's record of userID to now.
func (svc *Service) CheckOut(ctx context.Context, userID string) (Record, error) {
	now := NowFunc()
	today := core.FormatDate(now)

	svc.mu.Lock()
	defer svc.mu.Unlock()

	records, err := svc.load(ctx)
	if err != nil {
		return Record{}, err
	}
	for i, r := range records {
		if r.UserID != userID || r.Date != today {
			continue
		}
		if !r.HasCheckedIn() {
			return Record{}, ErrNotCheckedIn
		}
		if r.HasCheckedOut() {
			return Record{}, ErrAlreadyCheckedOut
		}
		r.CheckOut = null.StringFrom(now.Format(ClockLayout))
		records[i] = r
		if err := svc.save(ctx, records); err != nil {
			return Record{}, err
		}
		return r, nil
	}
	return Record{}, ErrNotCheckedIn
}
