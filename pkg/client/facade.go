package client

import (
	"context"
	"time"

	"github.com/minhvt/hosodoc-backend/pkg/logger"
)

// DefaultRefetchDelay độ trễ trước lượt refetch đối soát sau mỗi mutation
const DefaultRefetchDelay = 500 * time.Millisecond

// NotifyFunc callback thông báo kết quả thao tác cho lớp hiển thị
type NotifyFunc func(success bool, message string)

// Facade gom các thao tác ghi: gọi API, đẩy kết quả vào SyncStore ngay
// (optimistic, đồng bộ) rồi lên lịch một lượt RefetchAll trễ để đối soát
// các trường server tự sinh. Lượt refetch được phép ghi đè bản optimistic.
// Lỗi không bao giờ làm thay đổi store.
type Facade struct {
	client       *Client
	store        *SyncStore
	notify       NotifyFunc
	refetchDelay time.Duration
}

// NewFacade tạo façade; notify có thể nil nếu caller không cần thông báo
func NewFacade(client *Client, store *SyncStore, notify NotifyFunc) *Facade {
	return &Facade{
		client:       client,
		store:        store,
		notify:       notify,
		refetchDelay: DefaultRefetchDelay,
	}
}

// SetRefetchDelay đổi độ trễ đối soát (test dùng giá trị nhỏ)
func (f *Facade) SetRefetchDelay(d time.Duration) {
	f.refetchDelay = d
}

// CreateBusiness tạo doanh nghiệp rồi đẩy vào store
func (f *Facade) CreateBusiness(ctx context.Context, req CreateBusinessRequest) (*Business, error) {
	business, err := f.client.CreateBusiness(ctx, req)
	if err != nil {
		f.fail("Tạo doanh nghiệp thất bại", err)
		return nil, err
	}

	f.store.UpsertBusiness(*business)
	f.succeed("Đã tạo doanh nghiệp")
	f.scheduleRefetch()
	return business, nil
}

// UpdateBusiness cập nhật doanh nghiệp rồi đẩy vào store
func (f *Facade) UpdateBusiness(ctx context.Context, id uint, business Business) (*Business, error) {
	updated, err := f.client.UpdateBusiness(ctx, id, business)
	if err != nil {
		f.fail("Cập nhật doanh nghiệp thất bại", err)
		return nil, err
	}

	f.store.UpsertBusiness(*updated)
	f.succeed("Đã cập nhật doanh nghiệp")
	f.scheduleRefetch()
	return updated, nil
}

// DeleteBusiness xóa doanh nghiệp (kèm mật khẩu xác nhận) rồi gỡ khỏi
// store cùng toàn bộ giao dịch của nó
func (f *Facade) DeleteBusiness(ctx context.Context, id uint, password string) error {
	if err := f.client.DeleteBusiness(ctx, id, password); err != nil {
		f.fail("Xóa doanh nghiệp thất bại", err)
		return err
	}

	f.store.DeleteBusiness(id)
	f.succeed("Đã xóa doanh nghiệp")
	f.scheduleRefetch()
	return nil
}

// CreateTransaction tạo giao dịch rồi đẩy vào store
func (f *Facade) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*DocumentTransaction, error) {
	transaction, err := f.client.CreateTransaction(ctx, req)
	if err != nil {
		f.fail("Tạo giao dịch thất bại", err)
		return nil, err
	}

	f.store.UpsertTransaction(*transaction)
	f.succeed("Đã tạo giao dịch bàn giao hồ sơ")
	f.scheduleRefetch()
	return transaction, nil
}

// UpdateDocumentNumber đổi số biên bản; server chỉ trả message nên bản
// optimistic vá trực tiếp vào snapshot hiện có, refetch sẽ đối soát
func (f *Facade) UpdateDocumentNumber(ctx context.Context, id uint, documentNumber string) error {
	if err := f.client.UpdateDocumentNumber(ctx, id, documentNumber); err != nil {
		f.fail("Cập nhật số biên bản thất bại", err)
		return err
	}

	if t, ok := f.store.Transaction(id); ok {
		t.DocumentNumber = documentNumber
		f.store.UpsertTransaction(t)
	}
	f.succeed("Đã cập nhật số biên bản")
	f.scheduleRefetch()
	return nil
}

// DeleteTransaction xóa giao dịch (kèm mật khẩu xác nhận) rồi gỡ khỏi store
func (f *Facade) DeleteTransaction(ctx context.Context, id uint, password string) error {
	if err := f.client.DeleteTransaction(ctx, id, password); err != nil {
		f.fail("Xóa giao dịch thất bại", err)
		return err
	}

	f.store.DeleteTransaction(id)
	f.succeed("Đã xóa giao dịch")
	f.scheduleRefetch()
	return nil
}

// scheduleRefetch lên lịch đối soát trễ; chạy nền, lỗi chỉ log
func (f *Facade) scheduleRefetch() {
	go func() {
		time.Sleep(f.refetchDelay)
		if err := f.store.RefetchAll(context.Background()); err != nil {
			logger.Warn("Reconciling refetch failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}

func (f *Facade) succeed(message string) {
	if f.notify != nil {
		f.notify(true, message)
	}
}

func (f *Facade) fail(message string, err error) {
	logger.Error(message, err)
	if f.notify != nil {
		f.notify(false, message)
	}
}
