package importer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcdmanager/internal/model"
	"pcdmanager/internal/parser"
	"pcdmanager/internal/ports"
	"pcdmanager/internal/store"
	"pcdmanager/internal/testutil"
)

var phoenix = model.Location{Name: "Phoenix", TimeZone: "America/Phoenix"}

func scenarioStore() *store.MemoryStore {
	return store.NewMemoryStoreFrom(
		[]model.Tool{{ID: 1, Name: "BT151"}},
		[]model.User{{ID: 10, Name: "Travis Winston", Active: true}, {ID: 11, Name: "Duane Smith", Active: true}},
	)
}

func newTestCoordinator(st ports.Store) *Coordinator {
	c := NewCoordinator(st, nil)
	c.SetClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	return c
}

func matchesByToken(matches []model.MatchResult) map[string]model.MatchResult {
	out := make(map[string]model.MatchResult, len(matches))
	for _, m := range matches {
		out[m.ExcelString] = m
	}
	return out
}

// previewToEntries 模拟调用方将预览原样提交
func previewToEntries(res *model.PreviewResult) []model.ImportEntry {
	var entries []model.ImportEntry
	for _, key := range res.Months {
		for _, e := range res.PassdownsByMonth[key] {
			entries = append(entries, model.ImportEntry{
				RowID:   e.RowID,
				Date:    *e.Date,
				Task:    e.Task,
				ToolIDs: e.ToolIDs,
				TechIDs: e.TechIDs,
			})
		}
	}
	return entries
}

func toolMapFrom(matches []model.MatchResult) map[string]*int64 {
	m := make(map[string]*int64, len(matches))
	for _, match := range matches {
		m[match.ExcelString] = match.EntityID
	}
	return m
}

func TestCoordinator_EndToEndScenario(t *testing.T) {
	t.Parallel()

	st := scenarioStore()
	c := newTestCoordinator(st)
	ctx := context.Background()
	data := testutil.ScenarioWorkbook(t)

	// 阶段一
	review, err := c.ParseForReview(ctx, data, phoenix)
	require.NoError(t, err)
	assert.Equal(t, 3, review.TotalRows)

	tools := matchesByToken(review.ToolMatches)
	require.Len(t, tools, 2)
	for _, tok := range []string{"BT151", "BT151D"} {
		require.True(t, tools[tok].Matched, "tool %s should match", tok)
		assert.Equal(t, int64(1), *tools[tok].EntityID)
	}
	techs := matchesByToken(review.TechMatches)
	require.Len(t, techs, 2)
	assert.Equal(t, int64(10), *techs["TW"].EntityID)
	assert.Equal(t, int64(11), *techs["DS"].EntityID)

	// 阶段二
	preview, err := c.GeneratePreview(ctx, data, phoenix, toolMapFrom(review.ToolMatches), toolMapFrom(review.TechMatches))
	require.NoError(t, err)
	assert.Equal(t, 3, preview.TotalEntries)

	jan := preview.PassdownsByMonth["Jan"]
	require.Len(t, jan, 3)
	assert.Equal(t, "2025-01-15", *jan[1].Date)
	for _, e := range jan {
		assert.NotContains(t, e.FlagReasons, model.FlagToolUnresolved)
		assert.NotContains(t, e.FlagReasons, model.FlagTechUnresolved)
	}
	assert.Empty(t, jan[2].ToolIDs)
	assert.Equal(t, []int64{10, 11}, jan[2].TechIDs)
	assert.False(t, jan[0].Flagged)
	assert.True(t, jan[1].Flagged)
	assert.False(t, jan[2].Flagged)

	// 阶段三
	result, err := c.ImportEntries(ctx, previewToEntries(preview), 10, ImportOptions{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.BatchID)

	saved := st.Passdowns()
	require.Len(t, saved, 3)
	assert.Equal(t, "Replaced valve", saved[1].Comment)
	assert.Equal(t, []int64{1}, saved[1].ToolIDs)
	assert.Equal(t, []int64{11}, saved[1].TechIDs)
	assert.Equal(t, int64(10), saved[1].UserID)
	assert.Equal(t, result.BatchID, saved[1].BatchID)

	logs := st.ImportLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, model.ImportStatusCompleted, logs[0].Status)
	assert.Equal(t, 3, logs[0].Imported)
}

func TestCoordinator_EndToEndOnSQLite(t *testing.T) {
	t.Parallel()

	st, err := store.New(filepath.Join(t.TempDir(), "pcd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	require.NoError(t, st.UpsertTool(ctx, &model.Tool{ID: 1, Name: "BT151"}))
	require.NoError(t, st.UpsertUser(ctx, &model.User{ID: 10, Name: "Travis Winston", Active: true}))
	require.NoError(t, st.UpsertUser(ctx, &model.User{ID: 11, Name: "Duane Smith", Active: true}))

	c := newTestCoordinator(st)
	data := testutil.ScenarioWorkbook(t)

	preview, err := c.GeneratePreview(ctx, data, phoenix, nil, nil)
	require.NoError(t, err)

	entries := previewToEntries(preview)
	first, err := c.ImportEntries(ctx, entries, 10, ImportOptions{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Imported)

	// 重复导入同一批数据全部判重
	second, err := c.ImportEntries(ctx, entries, 10, ImportOptions{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 3, second.Duplicates)
	assert.Equal(t, 3, second.Skipped)

	n, err := st.CountPassdowns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	latest, err := st.LatestImportLog(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.BatchID, latest.BatchID)
	assert.Equal(t, 3, latest.Duplicates)
}

func TestCoordinator_ParseForReviewStructuralErrors(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(scenarioStore())
	ctx := context.Background()

	_, err := c.ParseForReview(ctx, nil, phoenix)
	assert.ErrorIs(t, err, parser.ErrEmptyFile)

	_, err = c.GeneratePreview(ctx, []byte("garbage"), phoenix, nil, nil)
	assert.ErrorIs(t, err, parser.ErrInvalidWorkbook)
}

func TestCoordinator_ParseForReviewDeduplicatesTokens(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(scenarioStore())
	data := testutil.WorkbookBytes(t,
		testutil.PassdownSheet("A",
			[]any{"1/1/2025", "BT151/ZZ100", "a", "TW & ds"},
			[]any{"1/2/2025", "zz100", "b", "TW"},
		),
		testutil.PassdownSheet("B",
			[]any{"1/3/2025", "Other", "c", "Travis"},
		),
	)

	review, err := c.ParseForReview(context.Background(), data, phoenix)
	require.NoError(t, err)
	assert.Equal(t, 3, review.TotalRows)

	var toolTokens, techTokens []string
	for _, m := range review.ToolMatches {
		toolTokens = append(toolTokens, m.ExcelString)
	}
	for _, m := range review.TechMatches {
		techTokens = append(techTokens, m.ExcelString)
	}
	assert.Equal(t, []string{"BT151", "ZZ100"}, toolTokens)
	assert.Equal(t, []string{"DS", "TW"}, techTokens)

	zz := matchesByToken(review.ToolMatches)["ZZ100"]
	assert.False(t, zz.Matched)
	assert.Nil(t, zz.EntityID)
	require.Len(t, review.Sheets, 2)
}

func TestCoordinator_ImportEntriesRowErrorsAndDroppedIDs(t *testing.T) {
	t.Parallel()

	st := scenarioStore()
	c := newTestCoordinator(st)

	entries := []model.ImportEntry{
		{RowID: 1, Date: "2025-01-10", Task: "ok", ToolIDs: []int64{1, 99}, TechIDs: []int64{10, 10, 404}},
		{RowID: 2, Date: "01/11/2025", Task: "bad date"},
		{RowID: 3, Date: "", Task: "missing date"},
		{RowID: 4, Date: "2025-01-12", Task: "also ok"},
	}

	result, err := c.ImportEntries(context.Background(), entries, 11, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Row 2:")
	assert.Contains(t, result.Errors[1], "Row 3:")

	saved := st.Passdowns()
	require.Len(t, saved, 2)
	assert.Equal(t, []int64{1}, saved[0].ToolIDs, "unknown tool ids are dropped")
	assert.Equal(t, []int64{10}, saved[0].TechIDs, "unknown and repeated tech ids are dropped")
	assert.Equal(t, int64(11), saved[0].UserID)
}

func TestCoordinator_DuplicatePolicyToggle(t *testing.T) {
	t.Parallel()

	st := scenarioStore()
	c := newTestCoordinator(st)
	ctx := context.Background()

	entry := model.ImportEntry{RowID: 1, Date: "2025-02-01", Task: "Filter change", ToolIDs: []int64{1}, TechIDs: []int64{10}}
	again := entry
	again.RowID = 2
	again.Task = " FILTER change"

	on, err := c.ImportEntries(ctx, []model.ImportEntry{entry, again}, 10, ImportOptions{SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 1, on.Imported)
	assert.Equal(t, 1, on.Duplicates)

	off, err := c.ImportEntries(ctx, []model.ImportEntry{entry}, 10, ImportOptions{SkipDuplicates: false})
	require.NoError(t, err)
	assert.Equal(t, 1, off.Imported)
	assert.Equal(t, 0, off.Duplicates)

	assert.Len(t, st.Passdowns(), 2)
}

func TestCoordinator_ImportEntriesUnknownCreator(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(scenarioStore())
	_, err := c.ImportEntries(context.Background(), nil, 999, ImportOptions{})
	assert.ErrorIs(t, err, ErrUnknownCreator)
}

// commitFailingStore 模拟事务提交失败
type commitFailingStore struct {
	*store.MemoryStore
}

var errCommit = errors.New("commit failed")

func (s commitFailingStore) InTx(ctx context.Context, fn func(tx ports.TxRepository) error) error {
	return s.MemoryStore.InTx(ctx, func(tx ports.TxRepository) error {
		if err := fn(tx); err != nil {
			return err
		}
		return errCommit
	})
}

func TestCoordinator_ImportEntriesTransactionFailureLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()

	mem := scenarioStore()
	c := newTestCoordinator(commitFailingStore{mem})

	_, err := c.ImportEntries(context.Background(), []model.ImportEntry{
		{RowID: 1, Date: "2025-01-10", Task: "a"},
		{RowID: 2, Date: "2025-01-11", Task: "b"},
	}, 10, ImportOptions{})
	require.ErrorIs(t, err, errCommit)

	assert.Empty(t, mem.Passdowns())
	logs := mem.ImportLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, model.ImportStatusFailed, logs[0].Status)
}

func TestCoordinator_ImportEntriesProgress(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(scenarioStore())
	var events []ProgressEvent
	_, err := c.ImportEntries(context.Background(), []model.ImportEntry{
		{RowID: 7, Date: "2025-01-10", Task: "a"},
		{RowID: 8, Date: "bad", Task: "b"},
	}, 10, ImportOptions{Progress: func(e ProgressEvent) { events = append(events, e) }})
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, "start", events[0].Type)
	assert.Equal(t, rowImported, events[1].Status)
	assert.Equal(t, 8, events[2].RowID)
	assert.Equal(t, rowError, events[2].Status)
	assert.Equal(t, "done", events[3].Type)
}
