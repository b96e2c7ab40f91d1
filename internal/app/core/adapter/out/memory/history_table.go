package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
)

// userHistory 單一帳戶的紀錄，各自一把鎖
type userHistory struct {
	mu      sync.RWMutex
	records []domain.PointHistory
}

// HistoryTable 是記憶體版的交易紀錄表 (append-only)
//
// 結構:
//
//	seq: 全局序號，唯一跨帳戶共享的狀態 (atomic)
//	users: userID -> *userHistory
type HistoryTable struct {
	seq   atomic.Int64
	users sync.Map // map[int64]*userHistory
}

// NewHistoryTable 建立空的紀錄表
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Append 分配下一個全局序號並追加紀錄。
// 同一帳戶的 Append 由帳戶鎖序列化，所以帳戶內 ID 順序等於套用順序。
func (t *HistoryTable) Append(ctx context.Context, userID, amount int64, txType domain.TransactionType, updateMillis int64) (domain.PointHistory, error) {
	h := t.user(userID)
	record := domain.PointHistory{
		ID:           t.seq.Add(1),
		UserID:       userID,
		Amount:       amount,
		Type:         txType,
		UpdateMillis: updateMillis,
	}
	h.mu.Lock()
	h.records = append(h.records, record)
	h.mu.Unlock()
	return record, nil
}

// SelectAll 回傳帳戶紀錄的複本，沒有紀錄時回傳空 slice (非 nil)
func (t *HistoryTable) SelectAll(ctx context.Context, userID int64) ([]domain.PointHistory, error) {
	v, ok := t.users.Load(userID)
	if !ok {
		return []domain.PointHistory{}, nil
	}
	h := v.(*userHistory)
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.PointHistory, len(h.records))
	copy(out, h.records)
	return out, nil
}

func (t *HistoryTable) user(userID int64) *userHistory {
	if v, ok := t.users.Load(userID); ok {
		return v.(*userHistory)
	}
	v, _ := t.users.LoadOrStore(userID, &userHistory{})
	return v.(*userHistory)
}

var _ usecase.HistoryLog = (*HistoryTable)(nil)
