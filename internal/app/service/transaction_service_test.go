package service

import (
	"testing"
	"time"

	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/cache"
	"github.com/minhvt/hosodoc-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTransactionServiceTest(t *testing.T) (*gorm.DB, TransactionService, *model.Business) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	business := &model.Business{
		Name:  "Công ty TNHH An Phát",
		TaxID: "0312345678",
	}
	require.NoError(t, testDB.Create(business).Error)

	businessRepo := repository.NewBusinessRepository(testDB, cache.NewCountCache(), 45*time.Second)
	txRepo := repository.NewDocumentTransactionRepository(testDB)

	svc := NewTransactionService(txRepo, businessRepo, nil, testDeletePassword)
	return testDB, svc, business
}

func TestTransactionService_CreateTransaction_DerivesSummary(t *testing.T) {
	testDB, svc, business := setupTransactionServiceTest(t)
	defer db.CleanupTestDB(testDB)

	transaction, err := svc.CreateTransaction(TransactionInput{
		BusinessID: business.ID,
		Details: []model.DetailLine{
			{Type: "Hồ sơ thuế", Quantity: 2, Unit: "Bộ"},
			{Type: "Hồ sơ kế toán", Quantity: "abc", Unit: "Tờ"}, // ép về 1
		},
		DeliveryCompany: "Công ty TNHH An Phát",
		DeliveryPerson:  "Nguyễn Văn An",
		DeliveryDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		HandledBy:       "Trần Thị Bích",
	})
	require.NoError(t, err)

	assert.Equal(t, "2 loại hồ sơ: 2 Bộ Hồ sơ thuế, 1 Tờ Hồ sơ kế toán", transaction.DocumentType)
	assert.Equal(t, 1, transaction.DocumentDetails["Hồ sơ kế toán"].Quantity)
	assert.NotEmpty(t, transaction.DocumentNumber) // tự sinh khi không gửi
	assert.Equal(t, model.TransactionPending, transaction.Status)
}

func TestTransactionService_CreateTransaction_LegacyFreeText(t *testing.T) {
	testDB, svc, business := setupTransactionServiceTest(t)
	defer db.CleanupTestDB(testDB)

	transaction, err := svc.CreateTransaction(TransactionInput{
		BusinessID:   business.ID,
		DocumentType: "Hồ sơ quyết toán năm 2024",
		DeliveryDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hồ sơ quyết toán năm 2024", transaction.DocumentType)
	assert.Empty(t, transaction.DocumentDetails)
}

func TestTransactionService_CreateTransaction_Validation(t *testing.T) {
	testDB, svc, business := setupTransactionServiceTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		input   TransactionInput
		wantErr error
	}{
		{
			name:    "Missing business",
			input:   TransactionInput{DocumentType: "Hồ sơ thuế", DeliveryDate: time.Now()},
			wantErr: ErrInvalidTransaction,
		},
		{
			name:    "Unknown business",
			input:   TransactionInput{BusinessID: 9999, DocumentType: "Hồ sơ thuế", DeliveryDate: time.Now()},
			wantErr: ErrBusinessNotFound,
		},
		{
			name:    "Missing delivery date",
			input:   TransactionInput{BusinessID: business.ID, DocumentType: "Hồ sơ thuế"},
			wantErr: ErrInvalidTransaction,
		},
		{
			name:    "No details and no document type",
			input:   TransactionInput{BusinessID: business.ID, DeliveryDate: time.Now()},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "Details all empty",
			input: TransactionInput{
				BusinessID:   business.ID,
				DeliveryDate: time.Now(),
				Details:      []model.DetailLine{{Type: "   ", Quantity: 2, Unit: "Bộ"}},
			},
			wantErr: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransactionService_Lifecycle(t *testing.T) {
	testDB, svc, business := setupTransactionServiceTest(t)
	defer db.CleanupTestDB(testDB)

	transaction, err := svc.CreateTransaction(TransactionInput{
		BusinessID:   business.ID,
		DocumentType: "Hồ sơ thuế",
		DeliveryDate: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateDocumentNumber(transaction.ID, "BG-2025-0042"))
	require.NoError(t, svc.AttachPDF(transaction.ID, "transactions/1/bien-ban.pdf", "bien-ban.pdf"))
	require.NoError(t, svc.AttachSignedFile(transaction.ID, "transactions/1/bien-ban-da-ky.pdf"))
	require.NoError(t, svc.HideTransaction(transaction.ID, true))

	found, err := svc.GetTransaction(transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "BG-2025-0042", found.DocumentNumber)
	assert.Equal(t, "bien-ban.pdf", found.PdfFileName)
	assert.Equal(t, "transactions/1/bien-ban-da-ky.pdf", found.SignedFilePath)
	assert.True(t, found.IsHidden)

	// id không tồn tại
	assert.ErrorIs(t, svc.UpdateDocumentNumber(9999, "BG-2025-0001"), ErrTransactionNotFound)
	assert.ErrorIs(t, svc.AttachPDF(9999, "a.pdf", "a.pdf"), ErrTransactionNotFound)
	assert.ErrorIs(t, svc.HideTransaction(9999, true), ErrTransactionNotFound)
}

func TestTransactionService_UpdateTransaction_KeepsAttachments(t *testing.T) {
	testDB, svc, business := setupTransactionServiceTest(t)
	defer db.CleanupTestDB(testDB)

	transaction, err := svc.CreateTransaction(TransactionInput{
		BusinessID:   business.ID,
		DocumentType: "Hồ sơ thuế",
		DeliveryDate: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, svc.AttachPDF(transaction.ID, "transactions/1/bien-ban.pdf", "bien-ban.pdf"))

	updated, err := svc.UpdateTransaction(transaction.ID, TransactionInput{
		Details: []model.DetailLine{
			{Type: "Hồ sơ bảo hiểm", Quantity: 3, Unit: "bộ"},
		},
		DeliveryDate: time.Now(),
		HandledBy:    "Trần Thị Bích",
	})
	require.NoError(t, err)

	assert.Equal(t, "1 loại hồ sơ: 3 bộ Hồ sơ bảo hiểm", updated.DocumentType)
	assert.Equal(t, "bien-ban.pdf", updated.PdfFileName) // file đính kèm giữ nguyên
	assert.Equal(t, business.ID, updated.BusinessID)
}

func TestTransactionService_DeleteTransaction_PasswordGate(t *testing.T) {
	testDB, svc, business := setupTransactionServiceTest(t)
	defer db.CleanupTestDB(testDB)

	transaction, err := svc.CreateTransaction(TransactionInput{
		BusinessID:   business.ID,
		DocumentType: "Hồ sơ thuế",
		DeliveryDate: time.Now(),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteTransaction(transaction.ID, "sai"), ErrDeletePasswordMismatch)

	_, err = svc.GetTransaction(transaction.ID)
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(transaction.ID, testDeletePassword))

	_, err = svc.GetTransaction(transaction.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestTransactionService_ListByBusiness(t *testing.T) {
	testDB, svc, business := setupTransactionServiceTest(t)
	defer db.CleanupTestDB(testDB)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateTransaction(TransactionInput{
			BusinessID:   business.ID,
			DocumentType: "Hồ sơ thuế",
			DeliveryDate: time.Now(),
		})
		require.NoError(t, err)
	}

	transactions, err := svc.ListByBusiness(business.ID)
	require.NoError(t, err)
	assert.Len(t, transactions, 3)

	_, err = svc.ListByBusiness(9999)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}
