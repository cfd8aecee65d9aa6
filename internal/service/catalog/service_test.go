package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/infra/storage/memory"
	"github.com/julinotmonth/outtthelook/pkg/logger"
)

func newTestService() *Service {
	repo := memory.NewCatalogRepository()
	repo.SeedDemo()

	policy := domain.DefaultBookingPolicy()
	policy.Location = time.UTC

	methods := []domain.PaymentMethod{
		{ID: "qris", Name: "QRIS", Type: domain.PaymentTypeQRIS, RequiresProof: true},
		{ID: "cash", Name: "Cash", Type: domain.PaymentTypeCash},
	}
	return NewService(repo, methods, policy, logger.NewNop())
}

func TestService_ListServices(t *testing.T) {
	svc := newTestService()

	active, err := svc.ListServices(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, active, 5)
	for _, s := range active {
		assert.True(t, s.IsActive)
	}

	all, err := svc.ListServices(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestService_ListStaff(t *testing.T) {
	svc := newTestService()

	available, err := svc.ListStaff(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "09:00", available[0].WorkStart)

	all, err := svc.ListStaff(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestService_PaymentMethodsAndPolicy(t *testing.T) {
	svc := newTestService()

	methods := svc.ListPaymentMethods(context.Background())
	require.Len(t, methods, 2)
	assert.True(t, methods[0].RequiresProof)
	assert.Equal(t, "cash", methods[1].Type)

	policy := svc.GetBookingPolicy(context.Background())
	assert.Equal(t, 30, policy.SlotStepMinutes)
	assert.Equal(t, "UTC", policy.Timezone)
	assert.True(t, policy.CustomerCanCancelConfirmed)
}
