package domain

import "fmt"

// TransactionType 交易類型
type TransactionType uint8

const (
	// 充值
	TransactionTypeCharge TransactionType = 1
	// 使用
	TransactionTypeUse TransactionType = 2
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeCharge:
		return "CHARGE"
	case TransactionTypeUse:
		return "USE"
	default:
		return fmt.Sprintf("TransactionType(%d)", uint8(t))
	}
}

// MarshalText JSON 中以 "CHARGE" / "USE" 表示
func (t TransactionType) MarshalText() ([]byte, error) {
	switch t {
	case TransactionTypeCharge, TransactionTypeUse:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("unknown transaction type %d", uint8(t))
}

func (t *TransactionType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "CHARGE":
		*t = TransactionTypeCharge
	case "USE":
		*t = TransactionTypeUse
	default:
		return fmt.Errorf("unknown transaction type %q", text)
	}
	return nil
}

// PointHistory 交易紀錄，建立後不再修改
type PointHistory struct {
	// ID: 全局遞增序號 (跨帳戶)，同一帳戶內的順序即套用順序
	ID     int64 `json:"id"`
	UserID int64 `json:"userId"`
	// Amount: 永遠 > 0
	Amount       int64           `json:"amount"`
	UpdateMillis int64           `json:"updateMillis"`
	Type         TransactionType `json:"type"`
}
