package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		rows := sqlmock.NewRows([]string{"product_id", "name", "price", "image_url", "quantity"}).
			AddRow(id, "Cedar cone", "500.00", "https://img/1.jpg", 2)

		mock.ExpectQuery(`SELECT product_id, name, price, image_url, quantity FROM cart_items WHERE cart_key = \$1 ORDER BY position`).
			WithArgs("session-1").
			WillReturnRows(rows)

		items, err := repo.Load(ctx, "session-1")
		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, id, items[0].ProductID)
		assert.Equal(t, 2, items[0].Quantity)
		assert.True(t, items[0].Price.Equal(decimal.NewFromInt(500)))
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT product_id, .* FROM cart_items`).
			WithArgs("session-2").
			WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "price", "image_url", "quantity"}))

		items, err := repo.Load(ctx, "session-2")
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT product_id, .* FROM cart_items`).
			WillReturnError(errors.New("db error"))

		_, err := repo.Load(ctx, "session-3")
		assert.Error(t, err)
	})
}

func TestRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("ReplacesRowsInTx", func(t *testing.T) {
		id := uuid.New()
		items := []Item{{ProductID: id, Name: "Cedar cone", Price: decimal.NewFromInt(500), ImageURL: "u", Quantity: 3}}

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM cart_items WHERE cart_key = \$1`).
			WithArgs("session-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO cart_items`).
			WithArgs("session-1", 0, id, "Cedar cone", items[0].Price, "u", 3).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.Save(ctx, "session-1", items)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnInsertError", func(t *testing.T) {
		id := uuid.New()
		items := []Item{{ProductID: id, Name: "A", Price: decimal.NewFromInt(100), Quantity: 1}}

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM cart_items`).
			WithArgs("session-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO cart_items`).
			WillReturnError(errors.New("insert failed"))
		mock.ExpectRollback()

		err := repo.Save(ctx, "session-1", items)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
