package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"pcdmanager/internal/model"
	"pcdmanager/internal/ports"
)

// MemoryStore 内存数据存储，与 SQLite Store 提供相同的接口
type MemoryStore struct {
	mu    sync.RWMutex
	state memState
}

type memState struct {
	tools      []model.Tool
	users      []model.User
	passdowns  []model.Passdown
	importLogs []model.ImportLog
	nextID     int64
}

var _ ports.Store = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: memState{nextID: 1}}
}

// NewMemoryStoreFrom 以目录快照创建内存存储
func NewMemoryStoreFrom(tools []model.Tool, users []model.User) *MemoryStore {
	s := NewMemoryStore()
	s.SetDirectory(tools, users)
	return s
}

// SetDirectory 设置设备与用户目录（按 ID 排序）
func (s *MemoryStore) SetDirectory(tools []model.Tool, users []model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.tools = append([]model.Tool(nil), tools...)
	sort.Slice(s.state.tools, func(i, j int) bool { return s.state.tools[i].ID < s.state.tools[j].ID })
	s.state.users = append([]model.User(nil), users...)
	sort.Slice(s.state.users, func(i, j int) bool { return s.state.users[i].ID < s.state.users[j].ID })
}

// ListTools 获取所有设备
func (s *MemoryStore) ListTools(ctx context.Context) ([]model.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.listTools(), nil
}

// GetTool 获取单个设备
func (s *MemoryStore) GetTool(ctx context.Context, id int64) (*model.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.getTool(id)
}

// ListUsers 获取所有用户
func (s *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.listUsers(), nil
}

// GetUser 获取单个用户
func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.getUser(id)
}

// FindPassdownsByDate 查询某一天的记录
func (s *MemoryStore) FindPassdownsByDate(ctx context.Context, date time.Time) ([]model.Passdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.findByDate(date), nil
}

// SavePassdown 保存记录
func (s *MemoryStore) SavePassdown(ctx context.Context, p *model.Passdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.save(p)
	return nil
}

// Passdowns 当前全部记录
func (s *MemoryStore) Passdowns() []model.Passdown {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.passdowns)
}

// CreateImportLog 创建导入日志
func (s *MemoryStore) CreateImportLog(ctx context.Context, log *model.ImportLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.ID = int64(len(s.state.importLogs) + 1)
	s.state.importLogs = append(s.state.importLogs, *log)
	return nil
}

// FinishImportLog 完成导入日志
func (s *MemoryStore) FinishImportLog(ctx context.Context, log *model.ImportLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.importLogs {
		if s.state.importLogs[i].BatchID == log.BatchID {
			now := time.Now()
			log.CompletedAt = &now
			s.state.importLogs[i] = *log
			return nil
		}
	}
	return fmt.Errorf("import log %s: %w", log.BatchID, ErrNotFound)
}

// ImportLogs 全部导入日志
func (s *MemoryStore) ImportLogs() []model.ImportLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.importLogs)
}

// InTx 持有写锁执行 fn，失败时恢复到执行前的快照
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx ports.TxRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memTx{state: &s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// memTx 事务视图，调用方已持有写锁
type memTx struct {
	state *memState
}

func (t *memTx) ListTools(ctx context.Context) ([]model.Tool, error) {
	return t.state.listTools(), nil
}

func (t *memTx) GetTool(ctx context.Context, id int64) (*model.Tool, error) {
	return t.state.getTool(id)
}

func (t *memTx) ListUsers(ctx context.Context) ([]model.User, error) {
	return t.state.listUsers(), nil
}

func (t *memTx) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return t.state.getUser(id)
}

func (t *memTx) FindPassdownsByDate(ctx context.Context, date time.Time) ([]model.Passdown, error) {
	return t.state.findByDate(date), nil
}

func (t *memTx) SavePassdown(ctx context.Context, p *model.Passdown) error {
	t.state.save(p)
	return nil
}

func (t *memTx) AtomicRow(ctx context.Context, fn func() error) error {
	snapshot := t.state.clone()
	if err := fn(); err != nil {
		*t.state = snapshot
		return err
	}
	return nil
}

func (st *memState) listTools() []model.Tool {
	return slices.Clone(st.tools)
}

func (st *memState) listUsers() []model.User {
	return slices.Clone(st.users)
}

func (st *memState) getTool(id int64) (*model.Tool, error) {
	for i := range st.tools {
		if st.tools[i].ID == id {
			t := st.tools[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("tool %d: %w", id, ErrNotFound)
}

func (st *memState) getUser(id int64) (*model.User, error) {
	for i := range st.users {
		if st.users[i].ID == id {
			u := st.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
}

func (st *memState) findByDate(date time.Time) []model.Passdown {
	day := date.Format(model.DateLayout)
	out := []model.Passdown{}
	for _, p := range st.passdowns {
		if p.Date.Format(model.DateLayout) == day {
			out = append(out, clonePassdown(p))
		}
	}
	return out
}

func (st *memState) save(p *model.Passdown) {
	p.ID = st.nextID
	st.nextID++
	st.passdowns = append(st.passdowns, clonePassdown(*p))
}

func (st *memState) clone() memState {
	c := memState{
		tools:      slices.Clone(st.tools),
		users:      slices.Clone(st.users),
		importLogs: slices.Clone(st.importLogs),
		nextID:     st.nextID,
	}
	c.passdowns = make([]model.Passdown, len(st.passdowns))
	for i, p := range st.passdowns {
		c.passdowns[i] = clonePassdown(p)
	}
	return c
}

func clonePassdown(p model.Passdown) model.Passdown {
	p.ToolIDs = slices.Clone(p.ToolIDs)
	p.TechIDs = slices.Clone(p.TechIDs)
	return p
}
