package model

import "time"

// TimelinePoint 单笔XP交易的时间序列点，保持输入顺序
type TimelinePoint struct {
	Date          time.Time `json:"date"`
	Amount        int64     `json:"amount"`
	OriginEventID int       `json:"originEventId"`
}

type ProgressStats struct {
	Total     int     `json:"total"`
	Succeeded int     `json:"succeeded"`
	Ratio     float64 `json:"ratio"`
}

type CategoryStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// ProjectXP 模块命名空间下单个项目的XP视图，Amount 单位为 kB（原始值/1000）
type ProjectXP struct {
	Project string  `json:"project"`
	Amount  float64 `json:"amount"`
	Path    string  `json:"path"`
}

// ProfileMetrics 聚合管线的输出，也是几何引擎的唯一输入契约。
// 每次成功抓取都重新构建，不做任何持久化。
type ProfileMetrics struct {
	Login              string                   `json:"login"`
	Email              string                   `json:"email"`
	FirstName          string                   `json:"firstName"`
	LastName           string                   `json:"lastName"`
	Campus             string                   `json:"campus"`
	TotalXP            int64                    `json:"totalXP"`
	XPByPath           map[string]int64         `json:"xpByPath"`
	Level              int64                    `json:"level"`
	AuditRatio         float64                  `json:"auditRatio"`
	TotalUp            int64                    `json:"totalUp"`
	TotalDown          int64                    `json:"totalDown"`
	AuditsPerformed    int                      `json:"auditsPerformed"`
	AuditsPassed       int                      `json:"auditsPassed"`
	Timeline           []TimelinePoint          `json:"timeline"`
	Progress           ProgressStats            `json:"progress"`
	ProjectsByCategory map[string]CategoryStats `json:"projectsByCategory"`
	ModuleProjects     []ProjectXP              `json:"moduleProjects"`
}
