package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
)

// BalanceTable 是記憶體版的帳戶餘額表
//
// 結構:
//
//	rows: userID -> domain.UserPoint (值型別，整筆替換)
//	now: 時鐘，測試可替換
//
// 同一帳戶的 Write 由 PointUseCase 的帳戶鎖序列化，
// 因此 Write 內「讀舊時間 -> 寫新值」不需要額外的鎖。
type BalanceTable struct {
	rows sync.Map // map[int64]domain.UserPoint
	now  func() time.Time
}

// BalanceOption 設定 BalanceTable
type BalanceOption func(*BalanceTable)

// WithClock 替換時鐘
func WithClock(now func() time.Time) BalanceOption {
	return func(t *BalanceTable) {
		t.now = now
	}
}

// NewBalanceTable 建立空的餘額表
func NewBalanceTable(opts ...BalanceOption) *BalanceTable {
	t := &BalanceTable{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Read 取得帳戶餘額，未出現過的帳戶回傳 0 餘額 (不寫入 rows)
func (t *BalanceTable) Read(ctx context.Context, userID int64) (domain.UserPoint, error) {
	if v, ok := t.rows.Load(userID); ok {
		return v.(domain.UserPoint), nil
	}
	return domain.EmptyUserPoint(userID), nil
}

// Write 覆寫餘額並蓋上更新時間。
// 時鐘沒有前進 (同一毫秒或時鐘回撥) 時以上一筆 +1ms，保證同一帳戶嚴格遞增。
func (t *BalanceTable) Write(ctx context.Context, userID int64, point int64) (domain.UserPoint, error) {
	stamp := t.now().UnixMilli()
	if v, ok := t.rows.Load(userID); ok {
		if prev := v.(domain.UserPoint).UpdateMillis; stamp <= prev {
			stamp = prev + 1
		}
	}
	row := domain.UserPoint{ID: userID, Point: point, UpdateMillis: stamp}
	t.rows.Store(userID, row)
	return row, nil
}

var _ usecase.BalanceStore = (*BalanceTable)(nil)
