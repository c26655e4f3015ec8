package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sewasaathi-backend/internal/config"
	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/repository/memory"
	"sewasaathi-backend/internal/service"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverMemory}}

	store, closeFn, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, closeFn())
}

func TestOpenStore_UnreachablePostgres(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver: config.DriverPostgres, Host: "127.0.0.1", Port: 1, User: "u", Database: "d", SSLMode: "disable",
	}}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err := OpenStore(ctx, cfg)
	assert.Error(t, err)
}

func TestNewServices(t *testing.T) {
	cfg := &config.Config{}
	store := memory.NewStore()
	svcs := NewServices(cfg, store)

	provider := domain.Actor{ID: "provider-1", Role: domain.RoleProvider}
	product := &domain.Product{Name: "Tent", BasePrice: decimal.NewFromInt(50), IsRentable: true}
	require.NoError(t, svcs.Availability.CreateProduct(context.Background(), provider, product))

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	slot, err := svcs.Availability.AddSlot(context.Background(), provider, product.ID, start, start.Add(72*time.Hour))
	require.NoError(t, err)

	customer := domain.Actor{ID: "customer-1", Role: domain.RoleCustomer}
	rental, err := svcs.Rentals.Create(context.Background(), customer, serviceInput(product.ID, slot.ID, start))
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusQuotation, rental.Status)

	n, err := svcs.Automation.ApplyLateFees(context.Background(), start.Add(96*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svcs.Automation.SendOverdueReminders(context.Background(), start.Add(96*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	inbox, err := svcs.Notifications.ListMine(context.Background(), customer)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

func serviceInput(productID, slotID string, start time.Time) service.CreateRentalInput {
	return service.CreateRentalInput{
		ProductID: productID,
		SlotID:    slotID,
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
		Price:     decimal.NewFromInt(100),
	}
}
