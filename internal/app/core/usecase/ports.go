package usecase

import (
	"context"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
)

// BalanceStore 帳戶餘額儲存 (純 key-value，不做業務檢查)
type BalanceStore interface {
	// Read 取得帳戶餘額，未出現過的帳戶回傳 0 餘額且不建立資料
	Read(ctx context.Context, userID int64) (domain.UserPoint, error)
	// Write 無條件覆寫餘額並蓋上更新時間，回傳寫入後的快照
	Write(ctx context.Context, userID int64, point int64) (domain.UserPoint, error)
}

// HistoryLog 交易紀錄 (append-only)
type HistoryLog interface {
	// Append 分配下一個全局序號並寫入紀錄
	Append(ctx context.Context, userID, amount int64, txType domain.TransactionType, updateMillis int64) (domain.PointHistory, error)
	// SelectAll 依寫入順序回傳帳戶的所有紀錄
	SelectAll(ctx context.Context, userID int64) ([]domain.PointHistory, error)
}
