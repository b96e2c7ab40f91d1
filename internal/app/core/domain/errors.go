package domain

import "errors"

// ErrorKind 錯誤類別，呼叫端依此分流 (不必比對字串)
type ErrorKind uint8

const (
	// KindUnknown 非預期錯誤 (儲存層失敗、不變量被破壞)
	KindUnknown ErrorKind = iota
	// KindInvalidAmount 金額為負數
	KindInvalidAmount
	// KindBelowMinimumCharge 低於單筆最低充值
	KindBelowMinimumCharge
	// KindAboveMaximumCharge 超過單筆最高充值
	KindAboveMaximumCharge
	// KindInsufficientBalance 餘額不足
	KindInsufficientBalance
	// KindBalanceOverflow 超過最大餘額
	KindBalanceOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidAmount:
		return "INVALID_AMOUNT"
	case KindBelowMinimumCharge:
		return "BELOW_MINIMUM_CHARGE"
	case KindAboveMaximumCharge:
		return "ABOVE_MAXIMUM_CHARGE"
	case KindInsufficientBalance:
		return "INSUFFICIENT_BALANCE"
	case KindBalanceOverflow:
		return "BALANCE_OVERFLOW"
	default:
		return "UNKNOWN"
	}
}

// IsInput 輸入錯誤：不需讀取共享狀態即可判定
func (k ErrorKind) IsInput() bool {
	return k == KindInvalidAmount || k == KindBelowMinimumCharge || k == KindAboveMaximumCharge
}

// IsConflict 狀態衝突：在臨界區內、寫入前判定
func (k ErrorKind) IsConflict() bool {
	return k == KindInsufficientBalance || k == KindBalanceOverflow
}

// Error 帶類別的業務錯誤
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is 以類別比對，讓 errors.Is(err, ErrInvalidAmount) 對不同訊息的同類錯誤也成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	// ErrInvalidAmount 金額不可為負數
	ErrInvalidAmount = &Error{Kind: KindInvalidAmount, Msg: "amount must not be negative"}

	// ErrBelowMinimumCharge 最低充值 100
	ErrBelowMinimumCharge = &Error{Kind: KindBelowMinimumCharge, Msg: "charge amount must be at least 100"}

	// ErrAboveMaximumCharge 最高充值 1,000,000
	ErrAboveMaximumCharge = &Error{Kind: KindAboveMaximumCharge, Msg: "charge amount must not exceed 1,000,000"}

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance, Msg: "insufficient balance"}

	// ErrBalanceOverflow 餘額上限 10,000,000
	ErrBalanceOverflow = &Error{Kind: KindBalanceOverflow, Msg: "balance must not exceed 10,000,000"}
)

// KindOf 取出 err 鏈中的錯誤類別，非業務錯誤回傳 KindUnknown
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
