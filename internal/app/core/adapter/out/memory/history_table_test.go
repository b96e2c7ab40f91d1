package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
)

func TestHistoryTableAppendAndSelect(t *testing.T) {
	ctx := context.Background()
	table := NewHistoryTable()

	h1, _ := table.Append(ctx, 2, 100, domain.TransactionTypeCharge, 10)
	h2, _ := table.Append(ctx, 2, 200, domain.TransactionTypeUse, 11)
	other, _ := table.Append(ctx, 3, 500, domain.TransactionTypeCharge, 12)

	if h2.ID != h1.ID+1 || other.ID != h2.ID+1 {
		t.Fatalf("ids not sequential: %d %d %d", h1.ID, h2.ID, other.ID)
	}

	got, _ := table.SelectAll(ctx, 2)
	if len(got) != 2 || got[0] != h1 || got[1] != h2 {
		t.Fatalf("user 2 histories=%+v", got)
	}
	got, _ = table.SelectAll(ctx, 3)
	if len(got) != 1 || got[0] != other {
		t.Fatalf("user 3 histories=%+v", got)
	}
}

func TestHistoryTableSelectUnknownReturnsEmpty(t *testing.T) {
	got, err := NewHistoryTable().SelectAll(context.Background(), 999)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got=%#v want empty non-nil slice", got)
	}
}

func TestHistoryTableSelectReturnsCopy(t *testing.T) {
	ctx := context.Background()
	table := NewHistoryTable()
	_, _ = table.Append(ctx, 1, 100, domain.TransactionTypeCharge, 1)

	got, _ := table.SelectAll(ctx, 1)
	got[0].Amount = 1

	again, _ := table.SelectAll(ctx, 1)
	if again[0].Amount != 100 {
		t.Fatal("caller mutated stored history")
	}
}

func TestHistoryTableConcurrentAppendUniqueIDs(t *testing.T) {
	ctx := context.Background()
	table := NewHistoryTable()
	const users, perUser = 20, 50

	var wg sync.WaitGroup
	for u := int64(1); u <= users; u++ {
		wg.Add(1)
		go func(u int64) {
			defer wg.Done()
			for i := 0; i < perUser; i++ {
				_, _ = table.Append(ctx, u, int64(i+1), domain.TransactionTypeCharge, 0)
			}
		}(u)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for u := int64(1); u <= users; u++ {
		got, _ := table.SelectAll(ctx, u)
		if len(got) != perUser {
			t.Fatalf("user %d has %d records want %d", u, len(got), perUser)
		}
		for i, h := range got {
			if seen[h.ID] {
				t.Fatalf("duplicate id %d", h.ID)
			}
			seen[h.ID] = true
			if h.Amount != int64(i+1) {
				t.Fatalf("user %d record %d amount=%d: append order lost", u, i, h.Amount)
			}
			if i > 0 && h.ID <= got[i-1].ID {
				t.Fatalf("user %d ids not increasing", u)
			}
		}
	}
}
