package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/model"
	"github.com/yhubail/graphql/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator() *AggregatorService {
	return NewAggregatorService(&config.ModuleConfig{PathPrefix: "/bahrain/bh-module"})
}

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func TestTotalXPMatchesXPByPathSum(t *testing.T) {
	s := newAggregator()

	txs := []model.Transaction{
		{Type: model.TxXP, Amount: 50, Path: "/a/b", CreatedAt: ts(1)},
		{Type: model.TxXP, Amount: 30, Path: "/a/c", CreatedAt: ts(2)},
		{Type: model.TxXP, Amount: 20, Path: "/a/b", CreatedAt: ts(3)},
		{Type: model.TxLevel, Amount: 5, CreatedAt: ts(3)},
		{Type: model.TxUp, Amount: 999, CreatedAt: ts(4)},
	}

	total := s.TotalXP(txs)
	byPath := s.XPByPath(txs)

	var sum int64
	for _, v := range byPath {
		sum += v
	}
	assert.Equal(t, total, sum)
	assert.Equal(t, int64(100), total)
	assert.Equal(t, int64(70), byPath["/a/b"])
}

func TestXPByPathUnknownLabel(t *testing.T) {
	s := newAggregator()

	byPath := s.XPByPath([]model.Transaction{
		{Type: model.TxXP, Amount: 10, Path: ""},
	})
	assert.Equal(t, int64(10), byPath["Unknown"])
}

func TestCurrentLevelPermutationInvariant(t *testing.T) {
	s := newAggregator()

	txs := []model.Transaction{
		{Type: model.TxLevel, Amount: 3},
		{Type: model.TxLevel, Amount: 9},
		{Type: model.TxLevel, Amount: 7},
		{Type: model.TxXP, Amount: 100},
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(txs), func(a, b int) { txs[a], txs[b] = txs[b], txs[a] })
		assert.Equal(t, int64(9), s.CurrentLevel(txs))
	}

	assert.Equal(t, int64(0), s.CurrentLevel([]model.Transaction{{Type: model.TxXP, Amount: 5}}))
	assert.Equal(t, int64(0), s.CurrentLevel(nil))
}

func TestTimelinePreservesInputOrder(t *testing.T) {
	s := newAggregator()

	txs := []model.Transaction{
		{Type: model.TxXP, Amount: 50, Path: "/a/b", CreatedAt: ts(1)},
		{Type: model.TxXP, Amount: 30, Path: "/a/c", CreatedAt: ts(2)},
		{Type: model.TxLevel, Amount: 5, CreatedAt: ts(2)},
	}

	timeline := s.Timeline(txs)
	require.Len(t, timeline, 2)
	assert.Equal(t, int64(50), timeline[0].Amount)
	assert.Equal(t, int64(30), timeline[1].Amount)
	assert.True(t, timeline[0].Date.Before(timeline[1].Date))
}

func TestPassFailRatioBounds(t *testing.T) {
	s := newAggregator()

	assert.Equal(t, 0.0, s.PassFailRatio(nil))

	entries := []model.ProgressEntry{
		{Path: "/a/b/p1", Succeeded: true},
		{Path: "/a/b/p2", Succeeded: true},
		{Path: "/a/b/p3", Succeeded: true},
		{Path: "/a/b/p4", Succeeded: false},
	}
	ratio := s.PassFailRatio(entries)
	assert.Equal(t, 0.75, ratio)
	assert.GreaterOrEqual(t, ratio, 0.0)
	assert.LessOrEqual(t, ratio, 1.0)
}

func TestProjectCategoryBreakdown(t *testing.T) {
	s := newAggregator()

	entries := []model.ProgressEntry{
		{Path: "/bahrain/bh-module/go-reloaded", Succeeded: true},
		{Path: "/bahrain/bh-module/ascii-art", Succeeded: false},
		{Path: "/bahrain/bh-piscine/quest-01", Succeeded: true},
		{Path: "standalone", Succeeded: true},
	}

	byCategory := s.ProjectCategoryBreakdown(entries)
	assert.Equal(t, model.CategoryStats{Total: 2, Completed: 1}, byCategory["bh-module"])
	assert.Equal(t, model.CategoryStats{Total: 1, Completed: 1}, byCategory["bh-piscine"])
	assert.Equal(t, model.CategoryStats{Total: 1, Completed: 1}, byCategory["Other"])
}

func TestModuleProjectsFilter(t *testing.T) {
	s := newAggregator()

	byPath := map[string]int64{
		"/bahrain/bh-module/go-reloaded":        25000,
		"/bahrain/bh-module/ascii-art":          10000,
		"/bahrain/bh-module/piscine-js/quest-1": 5000, // 嵌套更深，拒绝
		"/bahrain/bh-piscine/quest-01":          3000,  // 命名空间不同
		"/madere/module/other":                  9000,
	}

	projects := s.ModuleProjects(byPath)
	require.Len(t, projects, 2)

	// 金额降序
	assert.Equal(t, "go-reloaded", projects[0].Project)
	assert.Equal(t, 25.0, projects[0].Amount)
	assert.Equal(t, "ascii-art", projects[1].Project)
	assert.Equal(t, 10.0, projects[1].Amount)
}

func TestModuleProjectsPrefixIsConfigurable(t *testing.T) {
	s := NewAggregatorService(&config.ModuleConfig{PathPrefix: "/madere/module"})

	projects := s.ModuleProjects(map[string]int64{
		"/madere/module/other":           9000,
		"/bahrain/bh-module/go-reloaded": 25000,
	})
	require.Len(t, projects, 1)
	assert.Equal(t, "other", projects[0].Project)
}

func TestAuditRatioPrefersLocalCounters(t *testing.T) {
	s := newAggregator()

	// 本地计数可用：重算，忽略上游比值
	u := &model.UserRecord{TotalUp: 600, TotalDown: 400, AuditRatio: 1.5}
	assert.InDelta(t, 0.6, s.AuditRatio(u), 1e-9)

	// 计数缺失：回退上游
	u = &model.UserRecord{AuditRatio: 0.8}
	assert.Equal(t, 0.8, s.AuditRatio(u))

	// 两者皆空：0，不除零
	u = &model.UserRecord{}
	assert.Equal(t, 0.0, s.AuditRatio(u))
}

func TestAuditStats(t *testing.T) {
	s := newAggregator()

	grade1 := 1.2
	grade0 := 0.0
	now := ts(100)

	performed, passed := s.AuditStats([]model.AuditEntry{
		{Grade: &grade1, AuditedAt: &now},
		{Grade: &grade0, AuditedAt: &now},
		{Grade: &grade1, AuditedAt: nil}, // 未执行
		{Grade: nil, AuditedAt: &now},
	})
	assert.Equal(t, 3, performed)
	assert.Equal(t, 1, passed)
}

func TestAggregateEndToEnd(t *testing.T) {
	s := newAggregator()

	raw := &model.RawProfile{
		User: &model.UserRecord{
			Login: "yhubail",
			Transactions: []model.Transaction{
				{Type: model.TxXP, Amount: 50, Path: "/a/b", CreatedAt: ts(1)},
				{Type: model.TxXP, Amount: 30, Path: "/a/c", CreatedAt: ts(2)},
				{Type: model.TxLevel, Amount: 5, CreatedAt: ts(2)},
			},
		},
	}

	m, err := s.Aggregate(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(80), m.TotalXP)
	assert.Equal(t, map[string]int64{"/a/b": 50, "/a/c": 30}, m.XPByPath)
	assert.Equal(t, int64(5), m.Level)
	require.Len(t, m.Timeline, 2)
	assert.Equal(t, int64(50), m.Timeline[0].Amount)
	assert.Equal(t, int64(30), m.Timeline[1].Amount)
}

func TestAggregateMissingCollectionsAreEmpty(t *testing.T) {
	s := newAggregator()

	m, err := s.Aggregate(&model.RawProfile{User: &model.UserRecord{Login: "solo"}})
	require.NoError(t, err)

	assert.Equal(t, int64(0), m.TotalXP)
	assert.Empty(t, m.XPByPath)
	assert.Empty(t, m.Timeline)
	assert.Equal(t, 0.0, m.Progress.Ratio)
	assert.Empty(t, m.ModuleProjects)
}

func TestAggregateMissingUser(t *testing.T) {
	s := newAggregator()

	_, err := s.Aggregate(&model.RawProfile{})
	assert.ErrorIs(t, err, util.ErrMissingUser)

	_, err = s.Aggregate(nil)
	assert.ErrorIs(t, err, util.ErrMissingUser)
}
