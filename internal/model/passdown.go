package model

import "time"

// DateLayout 记录日期的序列化格式
const DateLayout = "2006-01-02"

// Passdown 交接班记录
type Passdown struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"` // 仅日期部分有效（UTC 零点）
	Comment     string    `json:"comment"`
	UserID      int64     `json:"userId"` // 创建人
	CreatedDate time.Time `json:"createdDate"`
	ToolIDs     []int64   `json:"toolIds"`
	TechIDs     []int64   `json:"techIds"`
	BatchID     string    `json:"batchId,omitempty"`
}

// ImportStatus 导入批次状态
type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// ImportLog 导入批次日志
type ImportLog struct {
	ID           int64        `json:"id"`
	BatchID      string       `json:"batchId"`
	CreatorID    int64        `json:"creatorId"`
	EntryCount   int          `json:"entryCount"`
	Imported     int          `json:"imported"`
	Skipped      int          `json:"skipped"`
	Duplicates   int          `json:"duplicates"`
	ErrorCount   int          `json:"errorCount"`
	Status       ImportStatus `json:"status"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	StartedAt    time.Time    `json:"startedAt"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
}
