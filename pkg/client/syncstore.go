package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minhvt/hosodoc-backend/pkg/logger"
)

// DefaultSyncInterval chu kỳ polling mặc định của SyncStore
const DefaultSyncInterval = 5 * time.Second

const (
	cacheKeyAllBusinesses   = "all_businesses"
	cacheKeyAllTransactions = "all_transactions"
)

func businessTransactionsKey(businessID uint) string {
	return fmt.Sprintf("business_%d_transactions", businessID)
}

// Fetcher phần API mà SyncStore cần để đồng bộ snapshot
type Fetcher interface {
	ListBusinesses(ctx context.Context) ([]Business, error)
	ListTransactions(ctx context.Context) ([]DocumentTransaction, error)
}

// SyncStore giữ một snapshot in-memory của toàn bộ doanh nghiệp và giao dịch,
// làm mới theo chu kỳ, kèm request cache theo key được vá đồng bộ với mọi
// mutation cục bộ.
//
// Hai lượt refetch chồng nhau không bị hủy hay khử trùng lặp: lượt nào
// RESOLVE sau thì thắng, kể cả khi dữ liệu của nó cũ hơn. Mỗi lượt fetch
// được đóng dấu sequence lúc phát để race này quan sát được qua
// AppliedFetchSeq, nhưng không bị loại bỏ.
type SyncStore struct {
	api Fetcher

	mu           sync.RWMutex
	businesses   []Business
	transactions []DocumentTransaction
	lastUpdate   time.Time
	loading      bool

	businessCache    map[string][]Business
	transactionCache map[string][]DocumentTransaction

	nextFetchSeq    uint64 // sequence phát cho lượt fetch kế tiếp
	appliedFetchSeq uint64 // sequence của snapshot đang áp dụng

	stopCh  chan struct{}
	started bool
}

// NewSyncStore tạo store rỗng; mỗi test/phiên tự tạo instance riêng
func NewSyncStore(api Fetcher) *SyncStore {
	return &SyncStore{
		api:              api,
		businessCache:    make(map[string][]Business),
		transactionCache: make(map[string][]DocumentTransaction),
	}
}

// RefetchAll tải lại toàn bộ doanh nghiệp và giao dịch bằng hai request
// song song. Lỗi ở bất kỳ request nào thì giữ nguyên snapshot cũ.
func (s *SyncStore) RefetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.nextFetchSeq++
	seq := s.nextFetchSeq
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var (
		wg           sync.WaitGroup
		businesses   []Business
		transactions []DocumentTransaction
		bErr, tErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		businesses, bErr = s.api.ListBusinesses(ctx)
	}()
	go func() {
		defer wg.Done()
		transactions, tErr = s.api.ListTransactions(ctx)
	}()
	wg.Wait()

	if bErr != nil {
		logger.Error("Failed to refetch businesses, keeping previous snapshot", bErr)
		return bErr
	}
	if tErr != nil {
		logger.Error("Failed to refetch transactions, keeping previous snapshot", tErr)
		return tErr
	}

	s.applySnapshot(seq, businesses, transactions)
	return nil
}

// applySnapshot thay toàn bộ snapshot và dựng lại cache theo key.
// Áp dụng vô điều kiện: lượt resolve sau thắng, không so sánh sequence.
func (s *SyncStore) applySnapshot(seq uint64, businesses []Business, transactions []DocumentTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.businesses = businesses
	s.transactions = transactions
	s.lastUpdate = time.Now()
	s.appliedFetchSeq = seq

	s.businessCache = map[string][]Business{
		cacheKeyAllBusinesses: append([]Business(nil), businesses...),
	}

	s.transactionCache = make(map[string][]DocumentTransaction)
	s.transactionCache[cacheKeyAllTransactions] = append([]DocumentTransaction(nil), transactions...)

	// Dựng sẵn entry theo doanh nghiệp để view chi tiết không cần gọi mạng
	// riêng sau mỗi lần resync toàn cục
	for _, b := range businesses {
		s.transactionCache[businessTransactionsKey(b.ID)] = nil
	}
	for _, t := range transactions {
		key := businessTransactionsKey(t.BusinessID)
		s.transactionCache[key] = append(s.transactionCache[key], t)
	}

	logger.Debug("Sync store snapshot applied", map[string]interface{}{
		"fetch_seq":    seq,
		"businesses":   len(businesses),
		"transactions": len(transactions),
	})
}

// Start chạy polling định kỳ. interval <= 0 dùng DefaultSyncInterval.
func (s *SyncStore) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				// Không chờ lượt trước xong: các lượt chồng nhau
				// được chấp nhận, lượt resolve sau thắng
				go func() {
					_ = s.RefetchAll(ctx)
				}()
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop dừng polling
func (s *SyncStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	close(s.stopCh)
	s.started = false
}

// UpsertBusiness thêm/cập nhật doanh nghiệp theo id; không gọi mạng,
// caller đã thực hiện write phía server
func (s *SyncStore) UpsertBusiness(b Business) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.businesses = upsertBusinessByID(s.businesses, b)
	s.businessCache[cacheKeyAllBusinesses] = upsertBusinessByID(s.businessCache[cacheKeyAllBusinesses], b)
	if _, ok := s.transactionCache[businessTransactionsKey(b.ID)]; !ok {
		s.transactionCache[businessTransactionsKey(b.ID)] = nil
	}
}

// DeleteBusiness xóa doanh nghiệp và toàn bộ giao dịch của nó,
// phản chiếu cascade phía server
func (s *SyncStore) DeleteBusiness(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.businesses = removeBusinessByID(s.businesses, id)
	s.businessCache[cacheKeyAllBusinesses] = removeBusinessByID(s.businessCache[cacheKeyAllBusinesses], id)

	s.transactions = removeTransactionsByBusiness(s.transactions, id)
	s.transactionCache[cacheKeyAllTransactions] = removeTransactionsByBusiness(s.transactionCache[cacheKeyAllTransactions], id)
	delete(s.transactionCache, businessTransactionsKey(id))
}

// UpsertTransaction thêm/cập nhật giao dịch theo id vào mảng toàn cục,
// cache toàn cục và entry theo doanh nghiệp
func (s *SyncStore) UpsertTransaction(t DocumentTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Nếu giao dịch đổi doanh nghiệp thì gỡ khỏi entry cũ trước
	if prev, ok := findTransactionByID(s.transactions, t.ID); ok && prev.BusinessID != t.BusinessID {
		oldKey := businessTransactionsKey(prev.BusinessID)
		s.transactionCache[oldKey] = removeTransactionByID(s.transactionCache[oldKey], t.ID)
	}

	s.transactions = upsertTransactionByID(s.transactions, t)
	s.transactionCache[cacheKeyAllTransactions] = upsertTransactionByID(s.transactionCache[cacheKeyAllTransactions], t)

	key := businessTransactionsKey(t.BusinessID)
	s.transactionCache[key] = upsertTransactionByID(s.transactionCache[key], t)
}

// DeleteTransaction gỡ giao dịch khỏi mảng toàn cục, cache toàn cục
// và entry của doanh nghiệp tương ứng
func (s *SyncStore) DeleteTransaction(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := findTransactionByID(s.transactions, id)
	if !ok {
		return
	}

	s.transactions = removeTransactionByID(s.transactions, id)
	s.transactionCache[cacheKeyAllTransactions] = removeTransactionByID(s.transactionCache[cacheKeyAllTransactions], id)

	key := businessTransactionsKey(t.BusinessID)
	s.transactionCache[key] = removeTransactionByID(s.transactionCache[key], id)
}

// BusinessTransactions lọc giao dịch của một doanh nghiệp, trả bản copy.
// O(n) là đủ cho khối lượng hàng trăm dòng.
func (s *SyncStore) BusinessTransactions(businessID uint) []DocumentTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cached, ok := s.transactionCache[businessTransactionsKey(businessID)]; ok {
		return append([]DocumentTransaction(nil), cached...)
	}

	var result []DocumentTransaction
	for _, t := range s.transactions {
		if t.BusinessID == businessID {
			result = append(result, t)
		}
	}
	return result
}

// Transaction tra cứu một giao dịch theo id trong snapshot hiện tại
func (s *SyncStore) Transaction(id uint) (DocumentTransaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findTransactionByID(s.transactions, id)
}

// Businesses trả bản copy danh sách doanh nghiệp hiện tại
func (s *SyncStore) Businesses() []Business {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Business(nil), s.businesses...)
}

// Transactions trả bản copy danh sách giao dịch hiện tại
func (s *SyncStore) Transactions() []DocumentTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DocumentTransaction(nil), s.transactions...)
}

// LastUpdate thời điểm snapshot được thay lần cuối
func (s *SyncStore) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// IsLoading true khi đang có lượt refetch chạy
func (s *SyncStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// AppliedFetchSeq sequence của lượt fetch mà snapshot hiện tại thuộc về
func (s *SyncStore) AppliedFetchSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appliedFetchSeq
}

func upsertBusinessByID(list []Business, b Business) []Business {
	for i := range list {
		if list[i].ID == b.ID {
			list[i] = b
			return list
		}
	}
	return append(list, b)
}

func removeBusinessByID(list []Business, id uint) []Business {
	result := list[:0]
	for _, b := range list {
		if b.ID != id {
			result = append(result, b)
		}
	}
	return result
}

func upsertTransactionByID(list []DocumentTransaction, t DocumentTransaction) []DocumentTransaction {
	for i := range list {
		if list[i].ID == t.ID {
			list[i] = t
			return list
		}
	}
	return append(list, t)
}

func removeTransactionByID(list []DocumentTransaction, id uint) []DocumentTransaction {
	result := list[:0]
	for _, t := range list {
		if t.ID != id {
			result = append(result, t)
		}
	}
	return result
}

func removeTransactionsByBusiness(list []DocumentTransaction, businessID uint) []DocumentTransaction {
	result := list[:0]
	for _, t := range list {
		if t.BusinessID != businessID {
			result = append(result, t)
		}
	}
	return result
}

func findTransactionByID(list []DocumentTransaction, id uint) (DocumentTransaction, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return DocumentTransaction{}, false
}
