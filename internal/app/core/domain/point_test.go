package domain

import (
	"encoding/json"
	"testing"
)

func TestUserPointValidate(t *testing.T) {
	if err := EmptyUserPoint(1).Validate(); err != nil {
		t.Fatalf("empty point should be valid: %v", err)
	}
	if err := (UserPoint{ID: 1, Point: MaxBalance}).Validate(); err != nil {
		t.Fatalf("max balance should be valid: %v", err)
	}
	if err := (UserPoint{ID: 1, Point: MaxBalance + 1}).Validate(); err == nil {
		t.Fatal("above max balance should be invalid")
	}
	if err := (UserPoint{ID: 1, Point: -1}).Validate(); err == nil {
		t.Fatal("negative balance should be invalid")
	}
}

func TestPointHistoryJSON(t *testing.T) {
	h := PointHistory{ID: 7, UserID: 1, Amount: 300, Type: TransactionTypeUse, UpdateMillis: 42}
	raw, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":7,"userId":1,"amount":300,"updateMillis":42,"type":"USE"}`
	if string(raw) != want {
		t.Fatalf("json=%s want=%s", raw, want)
	}

	var back PointHistory
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back != h {
		t.Fatalf("got=%+v want=%+v", back, h)
	}

	if err := json.Unmarshal([]byte(`{"type":"REFUND"}`), &back); err == nil {
		t.Fatal("unknown type should fail")
	}
}
