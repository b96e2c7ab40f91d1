package usecase

import (
	"context"
	"fmt"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/pkg/keylock"
)

// PointUseCase 是核心業務邏輯層 (充值 / 使用 / 查詢)
//
// 結構:
//
//	balances: 帳戶餘額
//	histories: 交易紀錄
//	locks: 帳戶鎖，同一帳戶的 Charge/Use 序列化，不同帳戶互不阻塞
type PointUseCase struct {
	balances  BalanceStore
	histories HistoryLog
	locks     *keylock.Registry[int64]
}

// NewPointUseCase 建立 PointUseCase，帳戶鎖由實例自己持有
func NewPointUseCase(balances BalanceStore, histories HistoryLog) *PointUseCase {
	return &PointUseCase{
		balances:  balances,
		histories: histories,
		locks:     keylock.New[int64](),
	}
}

// Charge 充值
//
// 參數:
//
//	ctx: 上下文
//	userID: 帳戶 ID
//	amount: 充值金額 (100 ~ 1,000,000)
//
// 回傳:
//
//	domain.UserPoint: 充值後餘額
//	error: ErrInvalidAmount / ErrBelowMinimumCharge / ErrAboveMaximumCharge / ErrBalanceOverflow
func (u *PointUseCase) Charge(ctx context.Context, userID, amount int64) (domain.UserPoint, error) {
	// 1. 只看輸入的檢查放在鎖外
	switch {
	case amount < 0:
		return domain.UserPoint{}, &domain.Error{Kind: domain.KindInvalidAmount, Msg: "charge amount must not be negative"}
	case amount < domain.MinChargeAmount:
		return domain.UserPoint{}, domain.ErrBelowMinimumCharge
	case amount > domain.MaxChargeAmount:
		return domain.UserPoint{}, domain.ErrAboveMaximumCharge
	}

	var updated domain.UserPoint
	err := u.locks.Do(userID, func() error {
		current, err := u.balances.Read(ctx, userID)
		if err != nil {
			return fmt.Errorf("read point of user %d: %w", userID, err)
		}
		next := current.Point + amount
		if next > domain.MaxBalance {
			return domain.ErrBalanceOverflow
		}
		updated, err = u.apply(ctx, current, next, amount, domain.TransactionTypeCharge)
		return err
	})
	if err != nil {
		return domain.UserPoint{}, err
	}
	return updated, nil
}

// Use 使用點數，沒有單筆上下限，只要求非負且餘額足夠
//
// amount 為 0 時不寫入也不產生紀錄，直接回傳目前餘額
func (u *PointUseCase) Use(ctx context.Context, userID, amount int64) (domain.UserPoint, error) {
	if amount < 0 {
		return domain.UserPoint{}, &domain.Error{Kind: domain.KindInvalidAmount, Msg: "use amount must not be negative"}
	}

	var updated domain.UserPoint
	err := u.locks.Do(userID, func() error {
		current, err := u.balances.Read(ctx, userID)
		if err != nil {
			return fmt.Errorf("read point of user %d: %w", userID, err)
		}
		if amount > current.Point {
			return domain.ErrInsufficientBalance
		}
		if amount == 0 {
			updated = current
			return nil
		}
		updated, err = u.apply(ctx, current, current.Point-amount, amount, domain.TransactionTypeUse)
		return err
	})
	if err != nil {
		return domain.UserPoint{}, err
	}
	return updated, nil
}

// apply 寫入新餘額並追加紀錄，必須在帳戶鎖內呼叫。
// 紀錄寫入失敗時還原舊餘額，不留下半套狀態。
func (u *PointUseCase) apply(ctx context.Context, current domain.UserPoint, next, amount int64, txType domain.TransactionType) (domain.UserPoint, error) {
	candidate := domain.UserPoint{ID: current.ID, Point: next}
	if err := candidate.Validate(); err != nil {
		return domain.UserPoint{}, fmt.Errorf("invariant violated: %w", err)
	}

	updated, err := u.balances.Write(ctx, current.ID, next)
	if err != nil {
		return domain.UserPoint{}, fmt.Errorf("write point of user %d: %w", current.ID, err)
	}

	if _, err := u.histories.Append(ctx, current.ID, amount, txType, updated.UpdateMillis); err != nil {
		if _, rbErr := u.balances.Write(ctx, current.ID, current.Point); rbErr != nil {
			return domain.UserPoint{}, fmt.Errorf("append %s history of user %d: %w (restore point: %v)", txType, current.ID, err, rbErr)
		}
		return domain.UserPoint{}, fmt.Errorf("append %s history of user %d: %w", txType, current.ID, err)
	}
	return updated, nil
}

// GetPoint 取得帳戶餘額 (不加鎖)
func (u *PointUseCase) GetPoint(ctx context.Context, userID int64) (domain.UserPoint, error) {
	return u.balances.Read(ctx, userID)
}

// GetHistories 取得帳戶交易紀錄 (不加鎖)，依套用順序排列
func (u *PointUseCase) GetHistories(ctx context.Context, userID int64) ([]domain.PointHistory, error) {
	return u.histories.SelectAll(ctx, userID)
}
