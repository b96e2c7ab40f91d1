package domain

import "fmt"

// 點數以 int64 的最小單位儲存
const (
	// MinChargeAmount 單筆最低充值
	MinChargeAmount int64 = 100
	// MaxChargeAmount 單筆最高充值
	MaxChargeAmount int64 = 1_000_000
	// MaxBalance 帳戶餘額上限
	MaxBalance int64 = 10_000_000
)

// UserPoint 帳戶餘額快照 (值型別，修改只透過 BalanceStore.Write)
type UserPoint struct {
	ID    int64 `json:"id"`
	Point int64 `json:"point"`
	// UpdateMillis: 最後一次寫入時間 (Unix ms)，同一帳戶嚴格遞增
	UpdateMillis int64 `json:"updateMillis"`
}

// EmptyUserPoint 尚未出現過的帳戶，餘額 0
func EmptyUserPoint(id int64) UserPoint {
	return UserPoint{ID: id}
}

// Validate 最終防線：業務檢查已在 PointUseCase 臨界區內完成，這裡失敗代表程式錯誤
func (p UserPoint) Validate() error {
	if p.Point < 0 || p.Point > MaxBalance {
		return fmt.Errorf("user %d: point %d out of range [0, %d]", p.ID, p.Point, MaxBalance)
	}
	return nil
}
