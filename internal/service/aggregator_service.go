package service

import (
	"sort"
	"strings"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/model"
	"github.com/yhubail/graphql/internal/util"
)

const (
	unknownPathLabel  = "Unknown"
	otherCategoryName = "Other"
)

// AggregatorService 将原始档案记录转换为归一化指标。
// 所有方法均为纯函数：无I/O、无内部状态，可从任意调用点并发使用。
type AggregatorService struct {
	ModulePrefix string
}

func NewAggregatorService(cfg *config.ModuleConfig) *AggregatorService {
	return &AggregatorService{ModulePrefix: cfg.PathPrefix}
}

// Aggregate 缺失的可选集合按空集处理，不视为错误；
// 顶层用户记录缺失才是致命的（ErrMissingUser）。
func (s *AggregatorService) Aggregate(raw *model.RawProfile) (*model.ProfileMetrics, error) {
	if raw == nil || raw.User == nil {
		return nil, util.ErrMissingUser
	}

	u := raw.User
	xpByPath := s.XPByPath(u.Transactions)
	performed, passed := s.AuditStats(u.Audits)

	m := &model.ProfileMetrics{
		Login:              u.Login,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Campus:             u.Campus,
		TotalXP:            s.TotalXP(u.Transactions),
		XPByPath:           xpByPath,
		Level:              s.CurrentLevel(u.Transactions),
		AuditRatio:         s.AuditRatio(u),
		TotalUp:            u.TotalUp,
		TotalDown:          u.TotalDown,
		AuditsPerformed:    performed,
		AuditsPassed:       passed,
		Timeline:           s.Timeline(u.Transactions),
		Progress:           s.ProgressStats(u.ProgressesByPath),
		ProjectsByCategory: s.ProjectCategoryBreakdown(u.ProgressesByPath),
		ModuleProjects:     s.ModuleProjects(xpByPath),
	}
	return m, nil
}

// TotalXP xp类型交易的总和。求和满足结合律，顺序无关；
// XP量级远在53位安全整数之内，int64 无精度损失。
func (s *AggregatorService) TotalXP(txs []model.Transaction) int64 {
	var total int64
	for _, tx := range txs {
		if tx.Type == model.TxXP {
			total += tx.Amount
		}
	}
	return total
}

// XPByPath 按路径分组求和，路径缺失归入 "Unknown"。
// 不变量：各组之和等于 TotalXP（两者同源于交易日志时）。
func (s *AggregatorService) XPByPath(txs []model.Transaction) map[string]int64 {
	byPath := make(map[string]int64)
	for _, tx := range txs {
		if tx.Type != model.TxXP {
			continue
		}
		path := tx.Path
		if path == "" {
			path = unknownPathLabel
		}
		byPath[path] += tx.Amount
	}
	return byPath
}

// CurrentLevel level类型交易中的最大值，没有则为0。
// 不假设交易有序，遍历全部候选。
func (s *AggregatorService) CurrentLevel(txs []model.Transaction) int64 {
	var level int64
	for _, tx := range txs {
		if tx.Type == model.TxLevel && tx.Amount > level {
			level = tx.Amount
		}
	}
	return level
}

// Timeline 逐笔xp交易映射为时间序列点，保持输入顺序。
// 上游查询按 createdAt 升序提供数据，这里不再重排。
func (s *AggregatorService) Timeline(txs []model.Transaction) []model.TimelinePoint {
	points := make([]model.TimelinePoint, 0)
	for _, tx := range txs {
		if tx.Type != model.TxXP {
			continue
		}
		points = append(points, model.TimelinePoint{
			Date:          tx.CreatedAt,
			Amount:        tx.Amount,
			OriginEventID: tx.OriginEventID,
		})
	}
	return points
}

// AuditStats 已执行 = auditedAt 非空；通过 = grade > 0
func (s *AggregatorService) AuditStats(audits []model.AuditEntry) (performed, passed int) {
	for _, a := range audits {
		if a.AuditedAt == nil {
			continue
		}
		performed++
		if a.Grade != nil && *a.Grade > 0 {
			passed++
		}
	}
	return performed, passed
}

// AuditRatio 唯一可信来源：本地字节计数。分母为正时重算
// totalUp/(totalUp+totalDown)，计数缺失时回退到上游给出的比值。
func (s *AggregatorService) AuditRatio(u *model.UserRecord) float64 {
	denom := u.TotalUp + u.TotalDown
	if denom > 0 {
		return float64(u.TotalUp) / float64(denom)
	}
	return u.AuditRatio
}

// PassFailRatio 成功数/总数，空列表为0
func (s *AggregatorService) PassFailRatio(entries []model.ProgressEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	succeeded := 0
	for _, e := range entries {
		if e.Succeeded {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(entries))
}

func (s *AggregatorService) ProgressStats(entries []model.ProgressEntry) model.ProgressStats {
	stats := model.ProgressStats{Total: len(entries)}
	for _, e := range entries {
		if e.Succeeded {
			stats.Succeeded++
		}
	}
	if stats.Total > 0 {
		stats.Ratio = float64(stats.Succeeded) / float64(stats.Total)
	}
	return stats
}

// ProjectCategoryBreakdown 类别取路径的第二段，缺失归入 "Other"
func (s *AggregatorService) ProjectCategoryBreakdown(entries []model.ProgressEntry) map[string]model.CategoryStats {
	byCategory := make(map[string]model.CategoryStats)
	for _, e := range entries {
		category := pathCategory(e.Path)
		stats := byCategory[category]
		stats.Total++
		if e.Succeeded {
			stats.Completed++
		}
		byCategory[category] = stats
	}
	return byCategory
}

// ModuleProjects 模块命名空间下的项目XP视图：前缀后恰好一个尾段
// （拒绝更深的嵌套），金额换算为kB。结果按金额降序、同额按项目名排序，
// 保证确定性输出。
func (s *AggregatorService) ModuleProjects(xpByPath map[string]int64) []model.ProjectXP {
	prefix := strings.TrimSuffix(s.ModulePrefix, "/") + "/"

	projects := make([]model.ProjectXP, 0)
	for path, amount := range xpByPath {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		trailing := path[len(prefix):]
		if trailing == "" || strings.Contains(trailing, "/") {
			continue
		}
		projects = append(projects, model.ProjectXP{
			Project: trailing,
			Amount:  float64(amount) / 1000,
			Path:    path,
		})
	}

	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Amount != projects[j].Amount {
			return projects[i].Amount > projects[j].Amount
		}
		return projects[i].Project < projects[j].Project
	})
	return projects
}

func pathCategory(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 2 || parts[1] == "" {
		return otherCategoryName
	}
	return parts[1]
}
