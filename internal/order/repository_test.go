package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder() (*Order, []Item) {
	orderID := uuid.New()
	o := &Order{
		ID:              orderID,
		ProfileID:       uuid.New(),
		TotalAmount:     decimal.NewFromInt(1300),
		DeliveryAddress: "Moscow, Pine st. 1",
		ContactPhone:    "+7 999 123-45-67",
		Status:          StatusPending,
		CreatedAt:       time.Now(),
	}
	items := []Item{
		{OrderID: orderID, ProductID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(500)},
		{OrderID: orderID, ProductID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(300)},
	}
	return o, items
}

func TestRepository_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o, items := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
			WithArgs(
				o.ID, o.ProfileID, o.TotalAmount,
				o.DeliveryAddress, o.ContactPhone, o.Comment,
				o.Status, o.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))
		for _, item := range items {
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
				WithArgs(o.ID, item.ProductID, item.Quantity, item.Price).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		err = repo.CreateOrder(ctx, o, items)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnItemFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o, items := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
			WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		err = repo.CreateOrder(ctx, o, items)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginFails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		o, items := newTestOrder()

		mock.ExpectBegin().WillReturnError(errors.New("connection lost"))

		err = repo.CreateOrder(ctx, o, items)

		assert.Error(t, err)
	})
}

func TestRepository_ListByProfile(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		rows := sqlmock.NewRows([]string{
			"id", "profile_id", "total_amount", "delivery_address",
			"contact_phone", "comment", "status", "created_at",
		}).
			AddRow(uuid.New(), profileID, decimal.NewFromInt(1300), "Moscow", "+7 999", nil, StatusPending, time.Now()).
			AddRow(uuid.New(), profileID, decimal.NewFromInt(300), "Moscow", "+7 999", nil, StatusDelivered, time.Now())

		mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
			WithArgs(profileID, 10).
			WillReturnRows(rows)

		orders, err := repo.ListByProfile(ctx, profileID, 10)

		assert.NoError(t, err)
		assert.Len(t, orders, 2)
		assert.Equal(t, StatusPending, orders[0].Status)
	})

	t.Run("LimitCapped", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		rows := sqlmock.NewRows([]string{
			"id", "profile_id", "total_amount", "delivery_address",
			"contact_phone", "comment", "status", "created_at",
		})
		mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
			WithArgs(profileID, 50).
			WillReturnRows(rows)

		orders, err := repo.ListByProfile(ctx, profileID, 0)

		assert.NoError(t, err)
		assert.Empty(t, orders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
			WillReturnError(errors.New("db down"))

		_, err = repo.ListByProfile(ctx, profileID, 10)

		assert.Error(t, err)
	})
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		orderID := uuid.New()
		productID := uuid.New()

		header := sqlmock.NewRows([]string{
			"id", "profile_id", "total_amount", "delivery_address",
			"contact_phone", "comment", "status", "created_at",
		}).AddRow(orderID, uuid.New(), decimal.NewFromInt(500), "Moscow", "+7 999", nil, StatusConfirmed, time.Now())

		itemRows := sqlmock.NewRows([]string{"order_id", "product_id", "quantity", "price"}).
			AddRow(orderID, productID, 1, decimal.NewFromInt(500))

		mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
			WithArgs(orderID).
			WillReturnRows(header)
		mock.ExpectQuery(regexp.QuoteMeta("FROM order_items")).
			WithArgs(orderID).
			WillReturnRows(itemRows)

		o, err := repo.GetByID(ctx, orderID)

		require.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, orderID, o.ID)
		assert.Equal(t, StatusConfirmed, o.Status)
		require.Len(t, o.Items, 1)
		assert.Equal(t, productID, o.Items[0].ProductID)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		orderID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "profile_id", "total_amount", "delivery_address",
				"contact_phone", "comment", "status", "created_at",
			}))

		o, err := repo.GetByID(ctx, orderID)

		assert.NoError(t, err)
		assert.Nil(t, o)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		orderID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE orders")).
			WithArgs(StatusDelivered, orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.UpdateStatus(ctx, orderID, StatusDelivered)

		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRepository(db)
		orderID := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE orders")).
			WithArgs(StatusCancelled, orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdateStatus(ctx, orderID, StatusCancelled)

		assert.Equal(t, ErrOrderNotFound, err)
	})
}
