package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/infra/storage/memory"
	"github.com/julinotmonth/outtthelook/internal/integrations/userservice"
	"github.com/julinotmonth/outtthelook/pkg/keylock"
	"github.com/julinotmonth/outtthelook/pkg/logger"
	"github.com/julinotmonth/outtthelook/pkg/txmanager"
	"github.com/julinotmonth/outtthelook/pkg/types"
)

var bookingDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type recordingEmitter struct {
	mu     sync.Mutex
	events []domain.Event
}

func (e *recordingEmitter) Emit(_ context.Context, events ...domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, events...)
}

type conflictCounter struct {
	mu    sync.Mutex
	count int
}

func (c *conflictCounter) RecordBookingConflict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

type stubUserClient struct {
	profile *userservice.Profile
	err     error
}

func (s *stubUserClient) GetProfileWithGracefulDegradation(context.Context, int64) (*userservice.Profile, error) {
	return s.profile, s.err
}

var testPaymentMethods = []domain.PaymentMethod{
	{ID: "qris", Name: "QRIS", Type: domain.PaymentTypeQRIS, RequiresProof: true},
	{ID: "cash", Name: "Cash", Type: domain.PaymentTypeCash},
}

type fixture struct {
	uc        *UseCase
	catalog   *memory.CatalogRepository
	bookings  *memory.BookingRepository
	events    *recordingEmitter
	conflicts *conflictCounter
}

func newFixture(t *testing.T, now time.Time, userClient UserServiceClient) *fixture {
	t.Helper()

	catalog := memory.NewCatalogRepository()
	catalog.SeedDemo()
	bookings := memory.NewBookingRepository()
	events := &recordingEmitter{}
	conflicts := &conflictCounter{}

	policy := domain.DefaultBookingPolicy()
	policy.Location = time.UTC
	policy.MaxAdvanceDays = 60

	uc := NewUseCase(bookings, catalog, userClient, txmanager.NoopManager{}, keylock.New(),
		events, conflicts, testPaymentMethods, policy, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}

	return &fixture{uc: uc, catalog: catalog, bookings: bookings, events: events, conflicts: conflicts}
}

func validRequest() *Request {
	return &Request{
		Actor:           domain.Actor{UserID: 7, Role: domain.RoleCustomer},
		StaffID:         1,
		Date:            bookingDate,
		StartTime:       "10:00",
		ServiceIDs:      []int64{2, 3},
		Customer:        domain.CustomerInfo{Name: "Rina", Email: "rina@example.com", Phone: "08123"},
		PaymentMethodID: "qris",
	}
}

var dayBefore = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

func TestUseCase_CreatesSnapshotAndEvent(t *testing.T) {
	f := newFixture(t, dayBefore, nil)
	ctx := context.Background()

	booking, err := f.uc.Execute(ctx, validRequest())
	require.NoError(t, err)

	assert.NotZero(t, booking.ID)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, domain.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, int64(95000), booking.TotalPrice)
	assert.Equal(t, 60, booking.TotalDurationMinutes)
	require.Len(t, booking.Services, 2)
	assert.Equal(t, "Skin Fade", booking.Services[0].Name)
	assert.Equal(t, "Beard Trim", booking.Services[1].Name)
	assert.Equal(t, "Andi", booking.StaffName)

	history, err := f.bookings.GetHistory(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.BookingStatus(""), history[0].FromStatus)
	assert.Equal(t, domain.StatusPending, history[0].ToStatus)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.EventBookingCreated, f.events.events[0].Type)
	data := f.events.events[0].Data.(domain.BookingCreatedData)
	assert.Equal(t, "10:00", data.StartTime)
	assert.Equal(t, "2025-03-10", data.Date)
}

func TestUseCase_CashIsNotApplicable(t *testing.T) {
	f := newFixture(t, dayBefore, nil)

	req := validRequest()
	req.PaymentMethodID = "cash"

	booking, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentNotApplicable, booking.PaymentStatus)
}

func TestUseCase_OverlapIsConflict(t *testing.T) {
	f := newFixture(t, dayBefore, nil)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, validRequest())
	require.NoError(t, err)

	// 10:30 пересекается с 10:00-11:00
	req := validRequest()
	req.StartTime = "10:30"
	_, err = f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "this slot was just taken, please choose another")
	assert.Equal(t, 1, f.conflicts.count)

	// соседний интервал свободен
	req.StartTime = "11:00"
	_, err = f.uc.Execute(ctx, req)
	assert.NoError(t, err)
}

func TestUseCase_ConcurrentRequestsSingleWinner(t *testing.T) {
	f := newFixture(t, dayBefore, nil)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			req := validRequest()
			req.Actor.UserID = userID
			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestUseCase_Validation(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		modify  func(r *Request)
		wantErr error
	}{
		{"no services", dayBefore, func(r *Request) { r.ServiceIDs = nil }, ErrInvalidInput},
		{"duplicate services", dayBefore, func(r *Request) { r.ServiceIDs = []int64{1, 1} }, ErrInvalidInput},
		{"inactive service", dayBefore, func(r *Request) { r.ServiceIDs = []int64{6} }, ErrServiceInactive},
		{"unknown service", dayBefore, func(r *Request) { r.ServiceIDs = []int64{99} }, ErrServiceNotFound},
		{"unknown staff", dayBefore, func(r *Request) { r.StaffID = 99 }, ErrStaffNotFound},
		{"unavailable staff", dayBefore, func(r *Request) { r.StaffID = 3 }, ErrStaffUnavailable},
		{"off grid", dayBefore, func(r *Request) { r.StartTime = "10:15" }, ErrInvalidTimeSlot},
		{"before work start", dayBefore, func(r *Request) { r.StaffID = 2; r.StartTime = "09:30" }, ErrInvalidTimeSlot},
		{"ends after work end", dayBefore, func(r *Request) { r.StartTime = "19:30" }, ErrInvalidTimeSlot},
		{"past date", dayBefore, func(r *Request) { r.Date = dayBefore.AddDate(0, 0, -1) }, ErrInvalidDate},
		{"beyond horizon", dayBefore, func(r *Request) { r.Date = dayBefore.AddDate(0, 0, 61) }, ErrDateTooFarInFuture},
		{"elapsed today", time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), func(r *Request) {}, ErrSlotElapsed},
		{"unknown payment method", dayBefore, func(r *Request) { r.PaymentMethodID = "paypal" }, ErrUnknownPaymentMethod},
		{"bad email", dayBefore, func(r *Request) { r.Customer.Email = "not-an-email" }, ErrInvalidCustomer},
		{"short name", dayBefore, func(r *Request) { r.Customer.Name = "Al" }, ErrInvalidCustomer},
		{"long notes", dayBefore, func(r *Request) { r.Customer.Notes = string(make([]byte, 501)) }, ErrInvalidCustomer},
		{"bad time format", dayBefore, func(r *Request) { r.StartTime = "25:00" }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now, nil)
			req := validRequest()
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.events.events)
		})
	}
}

func TestUseCase_ValidationErrorsAreValidationKind(t *testing.T) {
	f := newFixture(t, dayBefore, nil)
	req := validRequest()
	req.StartTime = "10:15"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUseCase_OverlapReportedBeforeGrid(t *testing.T) {
	f := newFixture(t, dayBefore, nil)
	f.catalog.SaveStaff(domain.StaffMember{ID: 10, Name: "Dewi", WorkStart: "09:00", WorkEnd: "17:00", IsAvailable: true})
	f.catalog.SaveService(domain.Service{ID: 10, Name: "Quick Cut", Price: 20, DurationMinutes: 30, IsActive: true})

	newRequest := func(start types.TimeString) *Request {
		req := validRequest()
		req.StaffID = 10
		req.ServiceIDs = []int64{10}
		req.StartTime = start
		return req
	}

	first, err := f.uc.Execute(context.Background(), newRequest("10:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Status)
	assert.Equal(t, 30, first.TotalDurationMinutes)
	assert.Equal(t, int64(20), first.TotalPrice)

	// 10:15 вне сетки, но пересекается с 10:00-10:30: клиент должен узнать, что слот занят
	_, err = f.uc.Execute(context.Background(), newRequest("10:15"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// 10:45 вне сетки и свободно
	_, err = f.uc.Execute(context.Background(), newRequest("10:45"))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	assert.NotErrorIs(t, err, domain.ErrConflict)

	assert.Len(t, f.events.events, 1)
}

func TestUseCase_WorkDayUntilMidnight(t *testing.T) {
	f := newFixture(t, dayBefore, nil)
	f.catalog.SaveStaff(domain.StaffMember{ID: 11, Name: "Eka", WorkStart: "20:00", WorkEnd: types.EndOfDay, IsAvailable: true})

	req := validRequest()
	req.StaffID = 11
	req.ServiceIDs = []int64{1}
	req.StartTime = "23:30"

	booking, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 30, booking.TotalDurationMinutes)

	req.StartTime = "23:45"
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestUseCase_FillsCustomerFromProfile(t *testing.T) {
	client := &stubUserClient{profile: &userservice.Profile{ID: 7, Name: "Rina Putri", Email: "rina@example.com", Phone: "08123"}}
	f := newFixture(t, dayBefore, client)

	req := validRequest()
	req.Customer = domain.CustomerInfo{Phone: "0899"}

	booking, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Rina Putri", booking.Customer.Name)
	assert.Equal(t, "rina@example.com", booking.Customer.Email)
	assert.Equal(t, "0899", booking.Customer.Phone)
}

func TestUseCase_ProfileFailureDoesNotBlockBooking(t *testing.T) {
	client := &stubUserClient{err: userservice.ErrServiceDegraded}
	f := newFixture(t, dayBefore, client)

	req := validRequest()
	req.Customer.Email = ""

	booking, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Rina", booking.Customer.Name)

	// без имени бронирование невозможно
	req = validRequest()
	req.StartTime = "14:00"
	req.Customer = domain.CustomerInfo{}
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidCustomer)
}
