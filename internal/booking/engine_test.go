package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/appointment-booking/internal/model"
	"github.com/iliyamo/appointment-booking/internal/queue"
	"github.com/iliyamo/appointment-booking/internal/repository"
)

// ----- in-memory fakes of the store interfaces -----

type fakeUsers struct{ users map[uint64]model.User }

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

type fakeAppointments struct {
	byID      map[uint64]*model.AppointmentDetail
	nextID    uint64
	users     *fakeUsers
	createErr error // forced error for the racing-insert case
}

func newFakeAppointments(users *fakeUsers) *fakeAppointments {
	return &fakeAppointments{byID: map[uint64]*model.AppointmentDetail{}, nextID: 1, users: users}
}

func (f *fakeAppointments) SlotTaken(_ context.Context, providerID uint64, slot time.Time) (bool, error) {
	for _, a := range f.byID {
		if a.ProviderID == providerID && a.Slot.Equal(slot) && a.CanceledAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointments) CreateIfFree(ctx context.Context, a *model.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if taken, _ := f.SlotTaken(ctx, a.ProviderID, a.Slot); taken {
		return repository.ErrSlotTaken
	}
	a.ID = f.nextID
	f.nextID++
	req := f.users.users[a.UserID]
	prov := f.users.users[a.ProviderID]
	f.byID[a.ID] = &model.AppointmentDetail{
		Appointment:    *a,
		RequesterName:  req.Name,
		RequesterEmail: req.Email,
		ProviderName:   prov.Name,
		ProviderEmail:  prov.Email,
	}
	return nil
}

func (f *fakeAppointments) GetDetail(_ context.Context, id uint64) (model.AppointmentDetail, error) {
	a, ok := f.byID[id]
	if !ok {
		return model.AppointmentDetail{}, repository.ErrAppointmentNotFound
	}
	return *a, nil
}

func (f *fakeAppointments) Cancel(_ context.Context, id uint64, at time.Time) error {
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrAppointmentNotFound
	}
	t := at
	a.CanceledAt = &t
	return nil
}

type fakeNotifications struct{ contents []string }

func (f *fakeNotifications) Create(_ context.Context, _ uint64, content string) error {
	f.contents = append(f.contents, content)
	return nil
}

type fakeMail struct {
	events []queue.CancellationMailEvent
	err    error
}

func (f *fakeMail) PublishCancellationMail(_ context.Context, ev queue.CancellationMailEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

// ----- fixture -----

// Scenario fixture: requester 7, provider 42, now 2024-01-10 09:00 UTC.
func newTestEngine(t *testing.T) (*Engine, *fakeAppointments, *fakeNotifications, *fakeMail) {
	t.Helper()
	users := &fakeUsers{users: map[uint64]model.User{
		7:  {ID: 7, Name: "João", Email: "joao@example.com"},
		8:  {ID: 8, Name: "Ana", Email: "ana@example.com"},
		42: {ID: 42, Name: "Dr. Silva", Email: "silva@example.com", Provider: true},
		50: {ID: 50, Name: "Carlos", Email: "carlos@example.com"}, // not a provider
	}}
	appts := newFakeAppointments(users)
	notes := &fakeNotifications{}
	mail := &fakeMail{}
	e := NewEngine(users, appts, notes, mail, "pt")
	e.SetClock(func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) })
	return e, appts, notes, mail
}

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 10, hour, min, 0, 0, time.UTC)
}

// ----- booking -----

func TestBookTruncatesToHour(t *testing.T) {
	e, appts, _, _ := newTestEngine(t)

	a, err := e.Book(context.Background(), 7, 42, at(10, 45))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if !a.Slot.Equal(at(10, 0)) {
		t.Errorf("slot = %v, want %v", a.Slot, at(10, 0))
	}
	if !a.Date.Equal(at(10, 45)) {
		t.Errorf("raw date = %v, want %v", a.Date, at(10, 45))
	}
	if appts.byID[a.ID] == nil {
		t.Error("appointment not persisted")
	}
}

func TestBookPastDate(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	cases := []struct {
		name string
		date time.Time
	}{
		{"earlier hour", at(8, 30)},
		{"inside current hour", at(9, 45)}, // truncates to 09:00 == now
		{"exactly now", at(9, 0)},
	}
	for _, tc := range cases {
		if _, err := e.Book(context.Background(), 7, 42, tc.date); !errors.Is(err, ErrPastDate) {
			t.Errorf("%s: err = %v, want ErrPastDate", tc.name, err)
		}
	}

	// First strictly future slot is fine.
	if _, err := e.Book(context.Background(), 7, 42, at(10, 0)); err != nil {
		t.Errorf("10:00 booking: %v", err)
	}
}

func TestBookInvalidTarget(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	if _, err := e.Book(context.Background(), 7, 999, at(10, 0)); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("missing user: err = %v, want ErrInvalidTarget", err)
	}
	if _, err := e.Book(context.Background(), 7, 50, at(10, 0)); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("non-provider: err = %v, want ErrInvalidTarget", err)
	}
}

func TestBookSelfBooking(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	if _, err := e.Book(context.Background(), 42, 42, at(10, 0)); !errors.Is(err, ErrSelfBooking) {
		t.Errorf("err = %v, want ErrSelfBooking", err)
	}
}

func TestBookSlotConflict(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	first, err := e.Book(context.Background(), 7, 42, at(10, 45))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// 10:05 truncates to the same 10:00 slot.
	if _, err := e.Book(context.Background(), 8, 42, at(10, 5)); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second booking: err = %v, want ErrSlotTaken", err)
	}

	// Move now back so the cancellation window is open, free the slot,
	// and the same hour can be booked again.
	e.SetClock(func() time.Time { return at(7, 59) })
	if _, err := e.Cancel(context.Background(), 7, first.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := e.Book(context.Background(), 8, 42, at(10, 5)); err != nil {
		t.Errorf("rebooking after cancel: %v", err)
	}
}

func TestBookRacingInsertMapsToSlotTaken(t *testing.T) {
	e, appts, _, _ := newTestEngine(t)
	appts.createErr = repository.ErrSlotTaken // concurrent booking won between probe and insert

	if _, err := e.Book(context.Background(), 7, 42, at(10, 0)); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("err = %v, want ErrSlotTaken", err)
	}
}

func TestBookCreatesProviderNotification(t *testing.T) {
	e, _, notes, _ := newTestEngine(t)

	if _, err := e.Book(context.Background(), 7, 42, at(10, 45)); err != nil {
		t.Fatalf("Book: %v", err)
	}
	if len(notes.contents) != 1 {
		t.Fatalf("notifications created = %d, want 1", len(notes.contents))
	}
	want := "Novo agendamento de João para o dia 10 de jan, às 10:00h"
	if notes.contents[0] != want {
		t.Errorf("content = %q, want %q", notes.contents[0], want)
	}
}

// ----- cancellation -----

func TestCancelNotFound(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	if _, err := e.Cancel(context.Background(), 7, 12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCancelForbiddenLeavesAppointmentActive(t *testing.T) {
	e, appts, _, _ := newTestEngine(t)

	a, err := e.Book(context.Background(), 7, 42, at(12, 0))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if _, err := e.Cancel(context.Background(), 8, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if appts.byID[a.ID].CanceledAt != nil {
		t.Error("canceled_at set by a forbidden cancellation")
	}
}

func TestCancelWindow(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	// Booked for 10:45; the window closes at 08:45.
	a, err := e.Book(context.Background(), 7, 42, at(10, 45))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	tooLate := []struct {
		name string
		now  time.Time
	}{
		{"one hour before", at(8, 59)},
		{"exactly at window edge", at(8, 45)},
	}
	for _, tc := range tooLate {
		e.SetClock(func() time.Time { return tc.now })
		if _, err := e.Cancel(context.Background(), 7, a.ID); !errors.Is(err, ErrTooLate) {
			t.Errorf("%s: err = %v, want ErrTooLate", tc.name, err)
		}
	}

	// Just inside the window the cancellation goes through.
	e.SetClock(func() time.Time { return at(8, 44) })
	if _, err := e.Cancel(context.Background(), 7, a.ID); err != nil {
		t.Errorf("just inside window: err = %v, want success", err)
	}

	// Over two hours ahead also succeeds, on a fresh booking.
	b, err := e.Book(context.Background(), 7, 42, at(12, 15))
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}
	e.SetClock(func() time.Time { return at(7, 59) })
	if _, err := e.Cancel(context.Background(), 7, b.ID); err != nil {
		t.Errorf("long before: err = %v, want success", err)
	}
}

func TestCancelSetsTimestampAndEnqueuesMail(t *testing.T) {
	e, appts, _, mail := newTestEngine(t)

	a, err := e.Book(context.Background(), 7, 42, at(13, 30))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	got, err := e.Cancel(context.Background(), 7, a.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.CanceledAt == nil || !got.CanceledAt.Equal(at(9, 0)) {
		t.Errorf("canceled_at = %v, want %v", got.CanceledAt, at(9, 0))
	}
	if appts.byID[a.ID].CanceledAt == nil {
		t.Error("cancellation not persisted")
	}
	if len(mail.events) != 1 {
		t.Fatalf("mail events = %d, want 1", len(mail.events))
	}
	ev := mail.events[0]
	if ev.AppointmentID != a.ID || ev.RequesterName != "João" || ev.ProviderName != "Dr. Silva" {
		t.Errorf("unexpected mail event: %+v", ev)
	}
}

func TestCancelMailFailureDoesNotFailCancellation(t *testing.T) {
	e, appts, _, mail := newTestEngine(t)
	mail.err = errors.New("broker unreachable")

	a, err := e.Book(context.Background(), 7, 42, at(13, 30))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	got, err := e.Cancel(context.Background(), 7, a.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.CanceledAt == nil || appts.byID[a.ID].CanceledAt == nil {
		t.Error("cancellation lost because the mail enqueue failed")
	}
}
