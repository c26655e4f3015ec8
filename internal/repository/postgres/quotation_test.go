package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/repository"
	"sewasaathi-backend/internal/repository/postgres"
)

func TestQuotationRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewQuotationRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ExistingRowKeepsID", func(t *testing.T) {
		q := &domain.Quotation{RentalID: "r1", Price: decimal.NewFromInt(90)}
		mock.ExpectQuery("INSERT INTO quotations (.+) ON CONFLICT \\(rental_id\\) DO UPDATE").
			WithArgs(sqlmock.AnyArg(), "r1", sqlmock.AnyArg(), nil, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "is_accepted", "created_at"}).AddRow("q-existing", false, created))

		err := repo.Upsert(ctx, q)
		assert.NoError(t, err)
		assert.Equal(t, "q-existing", q.ID)
		assert.False(t, q.IsAccepted)
		assert.Equal(t, created, q.CreatedAt)
	})
}

var quotationColumns = []string{"id", "rental_id", "price", "valid_till", "is_accepted", "created_at", "updated_at"}

func TestQuotationRepository_MarkAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewQuotationRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ReturnsAcceptedRow", func(t *testing.T) {
		mock.ExpectQuery("UPDATE quotations SET is_accepted = TRUE (.+) RETURNING").
			WithArgs("q1", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(quotationColumns).AddRow("q1", "r1", "120", nil, true, created, created))

		q, ok, err := repo.MarkAccepted(ctx, "q1")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "r1", q.RentalID)
		assert.True(t, q.Price.Equal(decimal.NewFromInt(120)))
		assert.True(t, q.IsAccepted)
		assert.Nil(t, q.ValidTill)
	})

	t.Run("AlreadyAccepted", func(t *testing.T) {
		mock.ExpectQuery("UPDATE quotations SET is_accepted = TRUE").
			WithArgs("q1", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(quotationColumns))

		q, ok, err := repo.MarkAccepted(ctx, "q1")
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, q)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotationRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewQuotationRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("All", func(t *testing.T) {
		mock.ExpectQuery(`SELECT "q"."id", (.+) FROM "quotations" AS "q" INNER JOIN "rentals" AS "r" (.+) INNER JOIN "products" AS "p" (.+) ORDER BY "q"."created_at" DESC`).
			WillReturnRows(sqlmock.NewRows(quotationColumns).
				AddRow("q2", "r2", "80", nil, false, created.Add(time.Hour), created).
				AddRow("q1", "r1", "90", created, true, created, created))

		quotations, err := repo.List(ctx, repository.QuotationFilter{})
		assert.NoError(t, err)
		assert.Len(t, quotations, 2)
		assert.Equal(t, "q2", quotations[0].ID)
		assert.NotNil(t, quotations[1].ValidTill)
	})

	t.Run("ByCustomer", func(t *testing.T) {
		mock.ExpectQuery(`WHERE \("r"."customer_id" = \$1\)`).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows(quotationColumns).AddRow("q1", "r1", "90", nil, false, created, created))

		quotations, err := repo.List(ctx, repository.QuotationFilter{CustomerID: "c1"})
		assert.NoError(t, err)
		assert.Len(t, quotations, 1)
	})

	t.Run("ByProvider", func(t *testing.T) {
		mock.ExpectQuery(`WHERE \("p"."provider_id" = \$1\)`).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows(quotationColumns))

		quotations, err := repo.List(ctx, repository.QuotationFilter{ProviderID: "p1"})
		assert.NoError(t, err)
		assert.Empty(t, quotations)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
