package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pcdmanager/internal/model"
	"pcdmanager/internal/ports"
)

func TestMemoryStore_DirectorySortedByID(t *testing.T) {
	t.Parallel()

	s := NewMemoryStoreFrom(
		[]model.Tool{{ID: 3, Name: "C"}, {ID: 1, Name: "A"}},
		[]model.User{{ID: 9, Name: "Z Z"}, {ID: 2, Name: "B B"}},
	)
	ctx := context.Background()

	tools, _ := s.ListTools(ctx)
	if tools[0].ID != 1 || tools[1].ID != 3 {
		t.Fatalf("unexpected tool order: %+v", tools)
	}
	users, _ := s.ListUsers(ctx)
	if users[0].ID != 2 || users[1].ID != 9 {
		t.Fatalf("unexpected user order: %+v", users)
	}
	if _, err := s.GetUser(ctx, 5); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("GetUser(5) got=%v want ErrNotFound", err)
	}
}

func TestMemoryStore_TxAndAtomicRow(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()
	date := time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)

	err := s.InTx(ctx, func(tx ports.TxRepository) error {
		if err := tx.AtomicRow(ctx, func() error {
			return tx.SavePassdown(ctx, &model.Passdown{Date: date, Comment: "kept", ToolIDs: []int64{1}})
		}); err != nil {
			return err
		}
		_ = tx.AtomicRow(ctx, func() error {
			_ = tx.SavePassdown(ctx, &model.Passdown{Date: date, Comment: "dropped"})
			return errors.New("row failed")
		})
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	got, _ := s.FindPassdownsByDate(ctx, date)
	if len(got) != 1 || got[0].Comment != "kept" {
		t.Fatalf("unexpected passdowns: %+v", got)
	}

	// 整体失败时恢复到事务前
	err = s.InTx(ctx, func(tx ports.TxRepository) error {
		_ = tx.SavePassdown(ctx, &model.Passdown{Date: date, Comment: "lost"})
		return errors.New("abort")
	})
	if err == nil {
		t.Fatalf("expected abort error")
	}
	if n := len(s.Passdowns()); n != 1 {
		t.Fatalf("passdowns after abort got=%d want=1", n)
	}
}

func TestMemoryStore_ReturnedPassdownsAreCopies(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()
	date := time.Date(2025, time.May, 6, 0, 0, 0, 0, time.UTC)
	_ = s.SavePassdown(ctx, &model.Passdown{Date: date, ToolIDs: []int64{1, 2}})

	got, _ := s.FindPassdownsByDate(ctx, date)
	got[0].ToolIDs[0] = 99

	again, _ := s.FindPassdownsByDate(ctx, date)
	if again[0].ToolIDs[0] != 1 {
		t.Fatalf("stored passdown mutated through returned copy")
	}
}

func TestMemoryStore_ImportLogs(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	log := &model.ImportLog{BatchID: "b", Status: model.ImportStatusProcessing}
	if err := s.CreateImportLog(ctx, log); err != nil {
		t.Fatalf("CreateImportLog: %v", err)
	}
	log.Status = model.ImportStatusCompleted
	if err := s.FinishImportLog(ctx, log); err != nil {
		t.Fatalf("FinishImportLog: %v", err)
	}
	logs := s.ImportLogs()
	if len(logs) != 1 || logs[0].Status != model.ImportStatusCompleted || logs[0].CompletedAt == nil {
		t.Fatalf("unexpected logs: %+v", logs)
	}
	if err := s.FinishImportLog(ctx, &model.ImportLog{BatchID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FinishImportLog(missing) got=%v want ErrNotFound", err)
	}
}

// TestMemoryStore_ConcurrentAccess 并发读写
func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStoreFrom([]model.Tool{{ID: 1, Name: "BT151"}}, nil)
	ctx := context.Background()
	date := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup

	// 并发读取
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.ListTools(ctx)
			_, _ = s.FindPassdownsByDate(ctx, date)
		}()
	}

	// 并发写入
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SavePassdown(ctx, &model.Passdown{Date: date, Comment: "x"})
		}()
	}

	wg.Wait()

	if n := len(s.Passdowns()); n != 50 {
		t.Fatalf("passdowns got=%d want=50", n)
	}
}
