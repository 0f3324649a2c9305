// Package ports 导入流程依赖的存储接口
package ports

import (
	"context"
	"errors"
	"time"

	"pcdmanager/internal/model"
)

// ErrNotFound 目录或记录不存在
var ErrNotFound = errors.New("not found")

// ToolDirectory 设备目录（只读）
type ToolDirectory interface {
	// ListTools 按目录顺序（ID 升序）返回全部设备
	ListTools(ctx context.Context) ([]model.Tool, error)
	// GetTool 不存在时返回 ErrNotFound
	GetTool(ctx context.Context, id int64) (*model.Tool, error)
}

// UserDirectory 用户目录（只读）
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// RecordStore 交接班记录存储
type RecordStore interface {
	FindPassdownsByDate(ctx context.Context, date time.Time) ([]model.Passdown, error)
	// SavePassdown 保存记录并回填 ID
	SavePassdown(ctx context.Context, p *model.Passdown) error
}

// ImportLogRepository 导入批次日志
type ImportLogRepository interface {
	CreateImportLog(ctx context.Context, log *model.ImportLog) error
	FinishImportLog(ctx context.Context, log *model.ImportLog) error
}

// Repository 导入流程所需的全部存储操作
type Repository interface {
	ToolDirectory
	UserDirectory
	RecordStore
}

// TxRepository 事务内的存储视图
type TxRepository interface {
	Repository
	// AtomicRow 单行原子范围：fn 返回错误时只回滚该行的写入
	AtomicRow(ctx context.Context, fn func() error) error
}

// Store 完整存储：目录、记录、导入日志与事务
type Store interface {
	Repository
	ImportLogRepository
	// InTx 在单个事务中执行 fn，fn 返回错误或提交失败时整体回滚
	InTx(ctx context.Context, fn func(tx TxRepository) error) error
}
