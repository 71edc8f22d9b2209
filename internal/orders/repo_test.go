package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/contentcreate/storefront-backend/pkg/db/models"
	"github.com/contentcreate/storefront-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_repo_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, number string, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     number,
		UserID:          userID,
		TotalAmount:     decimal.NewFromInt(10),
		ShippingAddress: "12 Ring Road",
		ShippingCity:    "Accra",
		ShippingCountry: "Ghana",
		ShippingPhone:   "+233200000000",
		CreatedAt:       createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryFindByNumber(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	seedOrder(t, db, userID, "ORD-20250810-AAAA", time.Now().UTC())

	found, err := repo.FindByNumber(ctx, "ORD-20250810-AAAA")
	require.NoError(t, err)
	assert.Equal(t, userID, found.UserID)

	_, err = repo.FindByNumber(ctx, "ORD-20250810-ZZZZ")
	assert.Error(t, err)
}

func TestRepositoryListByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	seedOrder(t, db, userID, "ORD-20250810-AAAA", base)
	seedOrder(t, db, userID, "ORD-20250810-BBBB", base.Add(time.Hour))
	seedOrder(t, db, uuid.New(), "ORD-20250810-CCCC", base.Add(2*time.Hour))

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ORD-20250810-BBBB", rows[0].OrderNumber)
	assert.Equal(t, "ORD-20250810-AAAA", rows[1].OrderNumber)
}

func TestRepositoryListCursorWalksPages(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	numbers := []string{"ORD-20250810-AAAA", "ORD-20250810-BBBB", "ORD-20250810-CCCC"}
	for i, number := range numbers {
		seedOrder(t, db, userID, number, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	// Limit plus one row signals another page exists.
	require.Len(t, first, 3)
	assert.Equal(t, "ORD-20250810-CCCC", first[0].OrderNumber)

	page := first[:2]
	cursor := pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: page[1].CreatedAt,
		ID:        page[1].ID,
	})
	second, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "ORD-20250810-AAAA", second[0].OrderNumber)
}
