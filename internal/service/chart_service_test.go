package service

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/model"
	"github.com/yhubail/graphql/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChartService() *ChartService {
	return NewChartService(&config.ChartConfig{
		Width:         600,
		Height:        300,
		Palette:       config.DefaultPalette,
		LegendRowH:    28,
		DonutHoleFrac: 0.55,
		MinLabelShare: 0.03,
	})
}

func testViewport() model.Viewport {
	return model.Viewport{Width: 600, Height: 300}
}

func countKind(nodes []model.Node, kind model.NodeKind) int {
	n := 0
	for _, node := range nodes {
		if node.Kind == kind {
			n++
		}
	}
	return n
}

func TestDonutEmptyPlaceholder(t *testing.T) {
	s := newChartService()

	scene, err := s.XPDistributionDonut(nil, testViewport())
	require.NoError(t, err)

	assert.True(t, scene.Empty)
	require.Len(t, scene.Nodes, 1)
	assert.Equal(t, model.KindText, scene.Nodes[0].Kind)
	assert.Zero(t, countKind(scene.Nodes, model.KindArc))
}

func TestDonutSlicesAndLegend(t *testing.T) {
	s := newChartService()

	projects := []model.ProjectXP{
		{Project: "go-reloaded", Amount: 50, Path: "/bahrain/bh-module/go-reloaded"},
		{Project: "ascii-art", Amount: 30, Path: "/bahrain/bh-module/ascii-art"},
		{Project: "math-skills", Amount: 20, Path: "/bahrain/bh-module/math-skills"},
	}

	scene, err := s.XPDistributionDonut(projects, testViewport())
	require.NoError(t, err)

	assert.False(t, scene.Empty)
	assert.Equal(t, 3, countKind(scene.Nodes, model.KindArc))

	// 切片角度总和 360°
	var spanSum float64
	for _, n := range scene.Nodes {
		if n.Kind == model.KindArc {
			spanSum += n.EndAngle - n.StartAngle
		}
	}
	assert.InDelta(t, 360.0, spanSum, 1e-9)

	// 每个切片配一条图例（色块+文本）
	assert.Equal(t, 3, countKind(scene.Nodes, model.KindRect))
}

func TestDonutLabelSuppressionBelowThreshold(t *testing.T) {
	s := newChartService()

	projects := []model.ProjectXP{
		{Project: "big", Amount: 99},
		{Project: "tiny", Amount: 1}, // 1% < 3%：标签被抑制，切片保留
	}

	scene, err := s.XPDistributionDonut(projects, testViewport())
	require.NoError(t, err)

	assert.Equal(t, 2, countKind(scene.Nodes, model.KindArc))

	labels := 0
	for _, n := range scene.Nodes {
		if n.Kind == model.KindText && n.Anchor == "middle" && n.Fill == "#ffffff" {
			labels++
		}
	}
	assert.Equal(t, 1, labels)
}

func TestDonutRequiredViewportGrowsWithLegend(t *testing.T) {
	s := newChartService()

	projects := make([]model.ProjectXP, 12)
	for i := range projects {
		projects[i] = model.ProjectXP{Project: string(rune('a' + i)), Amount: float64(100 - i)}
	}

	vp := model.Viewport{Width: 400, Height: 400}
	scene, err := s.XPDistributionDonut(projects, vp)
	require.NoError(t, err)

	require.NotNil(t, scene.RequiredViewport)
	assert.Greater(t, scene.RequiredViewport.Height, vp.Height)
	assert.Equal(t, scene.Height, scene.RequiredViewport.Height)
}

func TestDonutRejectsNegativeAmount(t *testing.T) {
	s := newChartService()

	_, err := s.XPDistributionDonut([]model.ProjectXP{{Project: "x", Amount: -5}}, testViewport())
	assert.ErrorIs(t, err, util.ErrInvalidMetrics)

	_, err = s.XPDistributionDonut([]model.ProjectXP{{Project: "x", Amount: math.NaN()}}, testViewport())
	assert.ErrorIs(t, err, util.ErrInvalidMetrics)
}

func TestPassFailBarProportions(t *testing.T) {
	s := newChartService()

	scene, err := s.PassFailBar(model.ProgressStats{Total: 4, Succeeded: 3, Ratio: 0.75}, testViewport())
	require.NoError(t, err)

	var rects []model.Node
	for _, n := range scene.Nodes {
		if n.Kind == model.KindRect {
			rects = append(rects, n)
		}
	}
	require.Len(t, rects, 2)

	barW := rects[0].Width + rects[1].Width
	assert.InDelta(t, 0.75, rects[0].Width/barW, 1e-9)
	assert.InDelta(t, 0.25, rects[1].Width/barW, 1e-9)
}

func TestPassFailBarEmpty(t *testing.T) {
	s := newChartService()

	scene, err := s.PassFailBar(model.ProgressStats{}, testViewport())
	require.NoError(t, err)
	assert.True(t, scene.Empty)
	require.Len(t, scene.Nodes, 1)
}

func TestAuditRatioBarClampsUpstreamRatio(t *testing.T) {
	s := newChartService()

	// 上游直接给出的 up/down 比值可能大于1
	scene, err := s.AuditRatioBar(&model.ProfileMetrics{AuditRatio: 1.4}, testViewport())
	require.NoError(t, err)

	for _, n := range scene.Nodes {
		if n.Kind == model.KindRect {
			assert.GreaterOrEqual(t, n.Width, 0.0)
		}
	}

	_, err = s.AuditRatioBar(&model.ProfileMetrics{AuditRatio: math.NaN()}, testViewport())
	assert.ErrorIs(t, err, util.ErrInvalidMetrics)
}

func TestTimelineChartDegenerate(t *testing.T) {
	s := newChartService()

	scene, err := s.TimelineChart([]model.TimelinePoint{
		{Date: time.Unix(1, 0), Amount: 42},
	}, testViewport())
	require.NoError(t, err)

	var line *model.Node
	for i := range scene.Nodes {
		if scene.Nodes[i].Kind == model.KindLine {
			line = &scene.Nodes[i]
		}
	}
	require.NotNil(t, line)
	require.Len(t, line.Points, 1)
	assert.Equal(t, 24.0, line.Points[0].X) // 单点退化为 x=0（加边距）

	_, err = s.TimelineChart([]model.TimelinePoint{{Amount: -1}}, testViewport())
	assert.ErrorIs(t, err, util.ErrInvalidMetrics)

	scene, err = s.TimelineChart(nil, testViewport())
	require.NoError(t, err)
	assert.True(t, scene.Empty)
}

func TestBuildSceneDeterministic(t *testing.T) {
	s := newChartService()

	m := &model.ProfileMetrics{
		AuditRatio: 0.6,
		Timeline: []model.TimelinePoint{
			{Date: time.Unix(1, 0).UTC(), Amount: 50},
			{Date: time.Unix(2, 0).UTC(), Amount: 30},
		},
		Progress: model.ProgressStats{Total: 4, Succeeded: 3, Ratio: 0.75},
		ProjectsByCategory: map[string]model.CategoryStats{
			"bh-module": {Total: 5, Completed: 3},
			"checkpoint": {Total: 2, Completed: 2},
		},
		ModuleProjects: []model.ProjectXP{
			{Project: "go-reloaded", Amount: 25},
			{Project: "ascii-art", Amount: 10},
		},
	}

	for _, name := range ChartNames() {
		a, err := s.BuildScene(name, m, testViewport())
		require.NoError(t, err, name)
		b, err := s.BuildScene(name, m, testViewport())
		require.NoError(t, err, name)

		aJSON, err := json.Marshal(a)
		require.NoError(t, err)
		bJSON, err := json.Marshal(b)
		require.NoError(t, err)
		assert.Equal(t, string(aJSON), string(bJSON), name)
	}
}

func TestBuildSceneUnknownChart(t *testing.T) {
	s := newChartService()

	_, err := s.BuildScene("nonexistent", &model.ProfileMetrics{}, testViewport())
	assert.ErrorIs(t, err, util.ErrUnknownChart)
}

func TestCategoryColumnsSortedAndGuarded(t *testing.T) {
	s := newChartService()

	scene, err := s.CategoryColumns(map[string]model.CategoryStats{
		"zeta":  {Total: 0, Completed: 0},
		"alpha": {Total: 0, Completed: 0},
	}, testViewport())
	require.NoError(t, err)

	// 全零总数：无除零，柱高为0
	for _, n := range scene.Nodes {
		if n.Kind == model.KindRect {
			assert.Equal(t, 0.0, n.Height)
		}
	}

	// 标签按类别名排序，保证确定性
	var labels []string
	for _, n := range scene.Nodes {
		if n.Kind == model.KindText {
			labels = append(labels, n.Content)
		}
	}
	assert.Equal(t, []string{"alpha", "zeta"}, labels)
}
