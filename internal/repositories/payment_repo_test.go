package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"servicehub/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PaymentRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      PaymentRepository
	invoiceID uuid.UUID
	context   context.Context
}

func (suite *PaymentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPaymentRepo(mock)
	suite.invoiceID = uuid.New()
	suite.context = context.Background()
}

func (suite *PaymentRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPaymentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepoTestSuite))
}

func (suite *PaymentRepoTestSuite) newPayment(amount string) *models.Payment {
	return &models.Payment{
		ID:               uuid.New(),
		PaymentReference: "PAY-0A1B2C3D4E5F6A7B8C9D0E1F",
		InvoiceID:        suite.invoiceID,
		Amount:           decimal.RequireFromString(amount),
		PaymentMethod:    models.PaymentMethodBankTransfer,
		PaymentDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CreatedBy:        "emp-1",
	}
}

func invoiceRowColumns() []string {
	return []string{
		"id", "invoice_number", "client_id", "client_name", "client_email",
		"order_id", "quote_id", "issue_date", "due_date", "subtotal", "tax_rate",
		"tax_amount", "total_amount", "amount_paid", "status", "notes",
		"created_by", "created_at", "updated_at",
	}
}

func (suite *PaymentRepoTestSuite) lockedInvoiceRow(total string, paid string, status models.InvoiceStatus) *pgxmock.Rows {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return pgxmock.NewRows(invoiceRowColumns()).AddRow(
		suite.invoiceID, "SRV-2026-03-0A1B2C3D4E5F6A7B8C9D0E1F", "client-1", "Acme Ltd", "billing@acme.test",
		(*uuid.UUID)(nil), (*uuid.UUID)(nil), now, now.AddDate(0, 0, 30),
		decimal.RequireFromString(total), decimal.Zero, decimal.Zero,
		decimal.RequireFromString(total), decimal.RequireFromString(paid), status, "",
		"emp-1", now, now,
	)
}

func (suite *PaymentRepoTestSuite) expectInsert(payment *models.Payment) *pgxmock.ExpectedExec {
	return suite.mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(payment.ID, payment.PaymentReference, payment.InvoiceID, payment.Amount,
			payment.PaymentMethod, payment.PaymentDate, payment.TransactionReference,
			payment.Notes, payment.CreatedBy)
}

func (suite *PaymentRepoTestSuite) expectLock(rows *pgxmock.Rows) {
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM invoices WHERE id = \$1 FOR UPDATE`).
		WithArgs(suite.invoiceID).
		WillReturnRows(rows)
}

func (suite *PaymentRepoTestSuite) expectLedgerSum(sum string) {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments WHERE invoice_id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString(sum)))
}

func (suite *PaymentRepoTestSuite) TestPostPayment_PartialMarksPartiallyPaid() {
	payment := suite.newPayment("500.00")

	suite.mock.ExpectBegin()
	suite.expectInsert(payment).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.expectLock(suite.lockedInvoiceRow("1000.00", "0", models.InvoiceStatusSent))
	suite.expectLedgerSum("500.00")
	suite.mock.ExpectExec(`UPDATE invoices SET amount_paid = \$1, status = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(decimal.RequireFromString("500.00"), models.InvoiceStatusPartiallyPaid, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	invoice, err := suite.repo.PostPayment(suite.context, payment)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusPartiallyPaid, invoice.Status)
	assert.True(suite.T(), invoice.AmountPaid.Equal(decimal.RequireFromString("500.00")))
	assert.True(suite.T(), invoice.Balance().Equal(decimal.RequireFromString("500.00")))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestPostPayment_FullMarksPaid() {
	payment := suite.newPayment("1000.00")

	suite.mock.ExpectBegin()
	suite.expectInsert(payment).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.expectLock(suite.lockedInvoiceRow("1000.00", "0", models.InvoiceStatusSent))
	suite.expectLedgerSum("1000.00")
	suite.mock.ExpectExec(`UPDATE invoices SET amount_paid = \$1, status = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(decimal.RequireFromString("1000.00"), models.InvoiceStatusPaid, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	invoice, err := suite.repo.PostPayment(suite.context, payment)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusPaid, invoice.Status)
	assert.True(suite.T(), invoice.Balance().IsZero())
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestPostPayment_OverCollectionStaysPaid() {
	// A second payment against an already-paid invoice keeps it paid and
	// drives the balance negative.
	payment := suite.newPayment("200.00")

	suite.mock.ExpectBegin()
	suite.expectInsert(payment).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.expectLock(suite.lockedInvoiceRow("1000.00", "1000.00", models.InvoiceStatusPaid))
	suite.expectLedgerSum("1200.00")
	suite.mock.ExpectExec(`UPDATE invoices SET amount_paid = \$1, status = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(decimal.RequireFromString("1200.00"), models.InvoiceStatusPaid, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	invoice, err := suite.repo.PostPayment(suite.context, payment)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusPaid, invoice.Status)
	assert.True(suite.T(), invoice.Balance().Equal(decimal.RequireFromString("-200.00")))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestPostPayment_DuplicateReferenceRollsBack() {
	payment := suite.newPayment("100.00")

	suite.mock.ExpectBegin()
	suite.expectInsert(payment).WillReturnError(&pgconn.PgError{Code: "23505"})
	suite.mock.ExpectRollback()

	invoice, err := suite.repo.PostPayment(suite.context, payment)
	assert.ErrorIs(suite.T(), err, ErrDuplicateReference)
	assert.Nil(suite.T(), invoice)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestPostPayment_InvoiceMissingRollsBack() {
	payment := suite.newPayment("100.00")

	suite.mock.ExpectBegin()
	suite.expectInsert(payment).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM invoices WHERE id = \$1 FOR UPDATE`).
		WithArgs(suite.invoiceID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	invoice, err := suite.repo.PostPayment(suite.context, payment)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), invoice)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestPostPayment_LockFailureRollsBack() {
	payment := suite.newPayment("100.00")

	suite.mock.ExpectBegin()
	suite.expectInsert(payment).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM invoices WHERE id = \$1 FOR UPDATE`).
		WithArgs(suite.invoiceID).
		WillReturnError(errors.New("lock timeout"))
	suite.mock.ExpectRollback()

	invoice, err := suite.repo.PostPayment(suite.context, payment)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "lock timeout")
	assert.Nil(suite.T(), invoice)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestDelete_ReconcilesRemainingLedger() {
	paymentID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`DELETE FROM payments WHERE id = \$1 RETURNING invoice_id`).
		WithArgs(paymentID).
		WillReturnRows(pgxmock.NewRows([]string{"invoice_id"}).AddRow(suite.invoiceID))
	suite.expectLock(suite.lockedInvoiceRow("1000.00", "1000.00", models.InvoiceStatusPaid))
	suite.expectLedgerSum("300.00")
	suite.mock.ExpectExec(`UPDATE invoices SET amount_paid = \$1, status = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(decimal.RequireFromString("300.00"), models.InvoiceStatusPartiallyPaid, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	invoice, err := suite.repo.Delete(suite.context, paymentID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InvoiceStatusPartiallyPaid, invoice.Status)
	assert.True(suite.T(), invoice.AmountPaid.Equal(decimal.RequireFromString("300.00")))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestDelete_UnknownPaymentRollsBack() {
	paymentID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`DELETE FROM payments WHERE id = \$1 RETURNING invoice_id`).
		WithArgs(paymentID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	invoice, err := suite.repo.Delete(suite.context, paymentID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), invoice)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM payments WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	payment, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), payment)
}

func (suite *PaymentRepoTestSuite) TestList_FiltersByInvoice() {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "payment_reference", "invoice_id", "amount", "payment_method",
		"payment_date", "transaction_reference", "notes", "created_by", "created_at", "updated_at",
	}).AddRow(
		uuid.New(), "PAY-0A1B2C3D4E5F6A7B8C9D0E1F", suite.invoiceID,
		decimal.RequireFromString("250.00"), models.PaymentMethodCash,
		now, "", "", "emp-1", now, now,
	)

	suite.mock.ExpectQuery(`(?s)SELECT .+ FROM payments WHERE invoice_id = \$1 ORDER BY payment_date DESC, created_at DESC`).
		WithArgs(suite.invoiceID).
		WillReturnRows(rows)

	payments, err := suite.repo.List(suite.context, &suite.invoiceID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), payments, 1)
	assert.Equal(suite.T(), suite.invoiceID, payments[0].InvoiceID)
}
