package testutil

import (
	"context"
	"testing"

	"pcdmanager/internal/model"
)

// DirectoryWriter 可写入目录的存储
type DirectoryWriter interface {
	UpsertTool(ctx context.Context, t *model.Tool) error
	UpsertUser(ctx context.Context, u *model.User) error
}

// ScenarioTools 常用设备目录：BT151 与 GR151D
func ScenarioTools() []model.Tool {
	return []model.Tool{
		{ID: 1, Name: "BT151"},
		{ID: 2, Name: "GR151D", SecondaryName: "Grinder"},
	}
}

// ScenarioUsers 常用用户目录：TW 与 DS
func ScenarioUsers() []model.User {
	return []model.User{
		{ID: 10, Name: "Travis Winston", Email: "tw@example.com", Active: true},
		{ID: 11, Name: "Duane Smith", Email: "ds@example.com", Active: true},
	}
}

// SeedDirectory 写入设备与用户目录
func SeedDirectory(t testing.TB, w DirectoryWriter, tools []model.Tool, users []model.User) {
	t.Helper()

	ctx := context.Background()
	for i := range tools {
		if err := w.UpsertTool(ctx, &tools[i]); err != nil {
			t.Fatalf("upsert tool %s: %v", tools[i].Name, err)
		}
	}
	for i := range users {
		if err := w.UpsertUser(ctx, &users[i]); err != nil {
			t.Fatalf("upsert user %s: %v", users[i].Name, err)
		}
	}
}

// ScenarioWorkbook 三行交接班：中间一行缺日期，最后一行设备为占位符
func ScenarioWorkbook(t testing.TB) []byte {
	t.Helper()
	return WorkbookBytes(t, PassdownSheet("Passdowns",
		[]any{"1/10/2025", "BT151", "Filter change", "TW"},
		[]any{"", "BT151D", "Replaced valve", "DS"},
		[]any{"1/20/2025", "N/A", "General cleanup", "TW/DS"},
	))
}
