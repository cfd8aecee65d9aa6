package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow   = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	staff     = Actor{UserID: 100, Role: RoleStaff}
	admin     = Actor{UserID: 1, Role: RoleAdmin}
	owner     = Actor{UserID: 7, Role: RoleCustomer}
	stranger  = Actor{UserID: 8, Role: RoleCustomer}
	permitAll = TransitionPolicy{CustomerCanCancelConfirmed: true}
)

func newBooking(status BookingStatus, payment PaymentStatus) *Booking {
	return &Booking{
		ID:            42,
		CustomerID:    owner.UserID,
		Status:        status,
		PaymentStatus: payment,
	}
}

func TestCheckTransition_TableCompleteness(t *testing.T) {
	allowed := map[[2]BookingStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			b := newBooking(from, PaymentNotApplicable)
			err := b.CheckTransition(to, admin, permitAll)

			if allowed[[2]BookingStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}

			var ite *InvalidTransitionError
			require.ErrorAs(t, err, &ite, "%s -> %s", from, to)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, from, ite.Status)
			assert.Equal(t, from, b.Status, "status must stay unchanged")
		}
	}
}

func TestCheckTransition_CustomerRules(t *testing.T) {
	b := newBooking(StatusPending, PaymentPending)
	assert.NoError(t, b.CheckTransition(StatusCancelled, owner, TransitionPolicy{}))
	assert.ErrorIs(t, b.CheckTransition(StatusCancelled, stranger, permitAll), ErrAccessDenied)
	assert.ErrorIs(t, b.CheckTransition(StatusConfirmed, owner, permitAll), ErrAccessDenied)

	confirmed := newBooking(StatusConfirmed, PaymentNotApplicable)
	assert.NoError(t, confirmed.CheckTransition(StatusCancelled, owner, permitAll))
	assert.ErrorIs(t, confirmed.CheckTransition(StatusCancelled, owner, TransitionPolicy{}), ErrInvalidTransition)
	assert.ErrorIs(t, confirmed.CheckTransition(StatusCompleted, owner, permitAll), ErrAccessDenied)
}

func TestCheckTransition_ConfirmRequiresPayment(t *testing.T) {
	b := newBooking(StatusPending, PaymentWaitingVerification)
	assert.ErrorIs(t, b.CheckTransition(StatusConfirmed, staff, permitAll), ErrInvalidTransition)

	cash := newBooking(StatusPending, PaymentNotApplicable)
	assert.NoError(t, cash.CheckTransition(StatusConfirmed, staff, permitAll))
}

func TestApplyTransition_Cancel(t *testing.T) {
	b := newBooking(StatusPending, PaymentPending)
	change := b.ApplyTransition(StatusCancelled, owner, "  changed plans ", testNow)

	assert.Equal(t, StatusCancelled, b.Status)
	require.NotNil(t, b.CancelledAt)
	require.NotNil(t, b.CancellationReason)
	assert.Equal(t, "changed plans", *b.CancellationReason)
	assert.Equal(t, StatusPending, change.FromStatus)
	assert.Equal(t, StatusCancelled, change.ToStatus)
	assert.Equal(t, RoleCustomer, change.ActorRole)
}

func TestSubmitProof(t *testing.T) {
	b := newBooking(StatusPending, PaymentPending)
	require.NoError(t, b.SubmitProof("proofs/42.jpg", testNow))
	assert.Equal(t, PaymentWaitingVerification, b.PaymentStatus)
	assert.Equal(t, "proofs/42.jpg", *b.PaymentProof)

	// resubmitting replaces the proof
	require.NoError(t, b.SubmitProof("proofs/42-v2.jpg", testNow))
	assert.Equal(t, "proofs/42-v2.jpg", *b.PaymentProof)

	cases := []*Booking{
		newBooking(StatusCancelled, PaymentPending),
		newBooking(StatusPending, PaymentNotApplicable),
		newBooking(StatusConfirmed, PaymentPaid),
	}
	for _, c := range cases {
		err := c.SubmitProof("x", testNow)
		assert.ErrorIs(t, err, ErrInvalidTransition, "status=%s payment=%s", c.Status, c.PaymentStatus)
		assert.Nil(t, c.PaymentProof)
	}
}

func TestVerifyPayment_ApproveConfirmsOnce(t *testing.T) {
	b := newBooking(StatusPending, PaymentWaitingVerification)

	decision, err := b.VerifyPayment(true, staff, testNow)
	require.NoError(t, err)
	assert.True(t, decision.Changed)
	require.NotNil(t, decision.StatusChange)
	assert.Equal(t, StatusConfirmed, decision.StatusChange.ToStatus)
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.Equal(t, StatusConfirmed, b.Status)

	again, err := b.VerifyPayment(true, staff, testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Nil(t, again.StatusChange)
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestVerifyPayment_RejectThenResubmit(t *testing.T) {
	b := newBooking(StatusPending, PaymentPending)
	require.NoError(t, b.SubmitProof("first.jpg", testNow))

	decision, err := b.VerifyPayment(false, staff, testNow)
	require.NoError(t, err)
	assert.True(t, decision.Changed)
	assert.Nil(t, decision.StatusChange)
	assert.Equal(t, PaymentRejected, b.PaymentStatus)
	assert.Nil(t, b.PaymentProof)
	assert.Equal(t, StatusPending, b.Status)

	require.NoError(t, b.SubmitProof("second.jpg", testNow))
	assert.Equal(t, PaymentWaitingVerification, b.PaymentStatus)
}

func TestVerifyPayment_InvalidStates(t *testing.T) {
	_, err := newBooking(StatusCancelled, PaymentWaitingVerification).VerifyPayment(true, staff, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = newBooking(StatusPending, PaymentPending).VerifyPayment(false, staff, testNow)
	var ite *InvalidTransitionError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, PaymentPending, ite.PaymentStatus)
}

func TestIntervalsOverlap(t *testing.T) {
	assert.True(t, IntervalsOverlap("10:00", 30, "10:15", 30))
	assert.True(t, IntervalsOverlap("10:00", 30, "09:30", 60))
	assert.False(t, IntervalsOverlap("10:00", 30, "10:30", 30))
	assert.False(t, IntervalsOverlap("10:00", 30, "09:30", 30))
}

func TestSnapshot(t *testing.T) {
	services := []*Service{
		{ID: 1, Name: "Haircut", Price: 50000, DurationMinutes: 30},
		{ID: 2, Name: "Beard trim", Price: 25000, DurationMinutes: 15},
	}
	booked, price, duration := Snapshot(services)

	services[0].Price = 99999
	assert.Len(t, booked, 2)
	assert.Equal(t, int64(75000), price)
	assert.Equal(t, 45, duration)
	assert.Equal(t, int64(50000), booked[0].Price)
}
