package model

import (
	"encoding/json"
	"time"
)

type TransactionType string

const (
	TxXP    TransactionType = "xp"
	TxLevel TransactionType = "level"
	TxUp    TransactionType = "up"
	TxDown  TransactionType = "down"
	TxOther TransactionType = "other"
)

// Transaction 平台交易日志条目（XP、等级、审计字节）。
// 上游查询通常按 createdAt 升序返回，但源数据本身不保证有序。
type Transaction struct {
	Type          TransactionType `json:"type"`
	Amount        int64           `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
	Path          string          `json:"path"`
	OriginEventID int             `json:"originEventId"`
}

// XPEntry 项目范围的XP记录（originEventId 过滤后的子集）
type XPEntry struct {
	Amount        int64  `json:"amount"`
	Path          string `json:"path"`
	OriginEventID int    `json:"originEventId"`
}

// AuditEntry 同行评审记录。AuditedAt 非空表示已执行，Grade > 0 表示通过。
type AuditEntry struct {
	Grade     *float64   `json:"grade"`
	AuditedAt *time.Time `json:"auditedAt"`
}

type ProgressEntry struct {
	Path        string          `json:"path"`
	Succeeded   bool            `json:"succeeded"`
	Count       int             `json:"count"`
	ObjectAttrs json.RawMessage `json:"objectAttrs,omitempty"`
}

// UserRecord 上游GraphQL返回的用户档案
type UserRecord struct {
	Login            string          `json:"login"`
	Email            string          `json:"email"`
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	Campus           string          `json:"campus"`
	TotalUp          int64           `json:"totalUp"`
	TotalDown        int64           `json:"totalDown"`
	AuditRatio       float64         `json:"auditRatio"`
	XPs              []XPEntry       `json:"xps"`
	Transactions     []Transaction   `json:"transactions"`
	Audits           []AuditEntry    `json:"audits"`
	ProgressesByPath []ProgressEntry `json:"progressesByPath"`
}

// RawProfile 一次完整抓取的结果。User 为 nil 表示上游查询结果为空，
// 调用方必须视为致命错误并触发重新认证。
type RawProfile struct {
	User *UserRecord `json:"user"`
}
