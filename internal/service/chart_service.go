package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/model"
	"github.com/yhubail/graphql/internal/util"
	"github.com/yhubail/graphql/pkg/monitoring"
)

const (
	ChartXPDistribution = "xp-distribution"
	ChartTimeline       = "timeline"
	ChartAuditRatio     = "audit-ratio"
	ChartPassFail       = "pass-fail"
	ChartCategories     = "categories"
	ChartModuleProjects = "module-projects"
)

var chartNames = []string{
	ChartXPDistribution,
	ChartTimeline,
	ChartAuditRatio,
	ChartPassFail,
	ChartCategories,
	ChartModuleProjects,
}

// ChartService 几何引擎：指标+视口 → 场景。纯变换，
// 相同输入产生逐字节相同的场景（可测试、可缓存）。
// 空数据集不是错误，输出占位场景；非法数值（NaN、负数）立即失败。
type ChartService struct {
	Cfg *config.ChartConfig
}

func NewChartService(cfg *config.ChartConfig) *ChartService {
	return &ChartService{Cfg: cfg}
}

func ChartNames() []string {
	return chartNames
}

func (s *ChartService) BuildScene(name string, m *model.ProfileMetrics, vp model.Viewport) (*model.Scene, error) {
	var (
		scene *model.Scene
		err   error
	)

	switch name {
	case ChartXPDistribution:
		scene, err = s.XPDistributionDonut(m.ModuleProjects, vp)
	case ChartTimeline:
		scene, err = s.TimelineChart(m.Timeline, vp)
	case ChartAuditRatio:
		scene, err = s.AuditRatioBar(m, vp)
	case ChartPassFail:
		scene, err = s.PassFailBar(m.Progress, vp)
	case ChartCategories:
		scene, err = s.CategoryColumns(m.ProjectsByCategory, vp)
	case ChartModuleProjects:
		scene, err = s.ModuleProjectColumns(m.ModuleProjects, vp)
	default:
		return nil, util.ErrUnknownChart
	}

	if err != nil {
		return nil, err
	}
	monitoring.ChartBuildCounter.WithLabelValues(name, strconv.FormatBool(scene.Empty)).Inc()
	return scene, nil
}

// XPDistributionDonut 环形分布图+两列图例。段在切片前按金额降序排列
// （聚合层已保证），起始角-90°，顺时针。画布高度随图例条目数动态计算，
// 超出请求视口时通过 RequiredViewport 告知渲染器。
func (s *ChartService) XPDistributionDonut(projects []model.ProjectXP, vp model.Viewport) (*model.Scene, error) {
	total := 0.0
	for _, p := range projects {
		if err := checkAmounts(p.Amount); err != nil {
			return nil, err
		}
		total += p.Amount
	}
	if len(projects) == 0 || total == 0 {
		return emptyScene(ChartXPDistribution, vp, "No XP recorded yet"), nil
	}

	// 防御上游排序被破坏：切片契约要求降序
	segments := make([]model.ProjectXP, len(projects))
	copy(segments, projects)
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Amount != segments[j].Amount {
			return segments[i].Amount > segments[j].Amount
		}
		return segments[i].Project < segments[j].Project
	})

	donutSize := math.Min(vp.Width, vp.Height)
	cx := vp.Width / 2
	cy := donutSize / 2
	outerR := donutSize/2 - 10
	innerR := outerR * s.Cfg.DonutHoleFrac

	const legendGap = 16
	legendTop := donutSize + legendGap
	naturalHeight := legendTop + legendHeight(len(segments), s.Cfg.LegendRowH)

	scene := &model.Scene{
		Name:   ChartXPDistribution,
		Width:  vp.Width,
		Height: naturalHeight,
	}
	if naturalHeight > vp.Height {
		scene.RequiredViewport = &model.Viewport{Width: vp.Width, Height: naturalHeight}
	}

	slices := donutSlices(segments, total)
	for i, sl := range slices {
		fill := paletteColor(s.Cfg.Palette, i)
		scene.Nodes = append(scene.Nodes, model.Node{
			Kind: model.KindArc, ID: fmt.Sprintf("donut-slice-%d", i),
			CX: cx, CY: cy,
			InnerRadius: innerR, OuterRadius: outerR,
			StartAngle: sl.StartAngle, EndAngle: sl.EndAngle,
			Percent: sl.Percent,
			Fill:    fill,
			Stroke:  util.DarkenColor(fill, 15),
			Label:   sl.Label,
		})

		// 份额过小的切片不放标签，切片本身保留
		if sl.Share >= s.Cfg.MinLabelShare {
			mid := arcPoint(cx, cy, (innerR+outerR)/2, (sl.StartAngle+sl.EndAngle)/2)
			scene.Nodes = append(scene.Nodes, model.Node{
				Kind: model.KindText, ID: fmt.Sprintf("donut-label-%d", i),
				X: mid.X, Y: mid.Y,
				Content: fmt.Sprintf("%d%%", sl.Percent),
				Anchor:  "middle", FontSize: 11, Fill: "#ffffff",
			})
		}
	}

	colW := vp.Width / 2
	for i, sl := range slices {
		col, row := legendRow(i)
		x := float64(col) * colW
		y := legendTop + float64(row)*s.Cfg.LegendRowH
		fill := paletteColor(s.Cfg.Palette, i)

		scene.Nodes = append(scene.Nodes,
			model.Node{
				Kind: model.KindRect, ID: fmt.Sprintf("legend-swatch-%d", i),
				X: x + 4, Y: y + s.Cfg.LegendRowH/2 - 6,
				Width: 12, Height: 12,
				Fill: fill,
			},
			model.Node{
				Kind: model.KindText, ID: fmt.Sprintf("legend-label-%d", i),
				X: x + 24, Y: y + s.Cfg.LegendRowH/2 + 4,
				Content: fmt.Sprintf("%s (%d%%)", sl.Label, sl.Percent),
				Anchor:  "start", FontSize: 12, Fill: "#374151",
				Label: sl.Label,
			},
		)
	}

	return scene, nil
}

// TimelineChart XP时间序列折线。单点时 x=0；全零金额时最大值按1处理。
func (s *ChartService) TimelineChart(timeline []model.TimelinePoint, vp model.Viewport) (*model.Scene, error) {
	if len(timeline) == 0 {
		return emptyScene(ChartTimeline, vp, "No transactions yet"), nil
	}

	amounts := make([]float64, len(timeline))
	for i, p := range timeline {
		amounts[i] = float64(p.Amount)
	}
	if err := checkAmounts(amounts...); err != nil {
		return nil, err
	}

	const margin = 24.0
	plotW := vp.Width - 2*margin
	plotH := vp.Height - 2*margin

	raw := polylinePoints(amounts, plotW, plotH)
	points := make([]model.Point, len(raw))
	for i, p := range raw {
		points[i] = model.Point{X: p.X + margin, Y: p.Y + margin}
	}

	scene := &model.Scene{
		Name:   ChartTimeline,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes: []model.Node{
			{
				Kind: model.KindLine, ID: "timeline-path",
				Points:      points,
				Stroke:      paletteColor(s.Cfg.Palette, 0),
				StrokeWidth: 2,
			},
			{
				Kind: model.KindText, ID: "timeline-start",
				X: margin, Y: vp.Height - 6,
				Content: timeline[0].Date.Format(util.DateFormat),
				Anchor:  "start", FontSize: 10, Fill: "#6b7280",
			},
			{
				Kind: model.KindText, ID: "timeline-end",
				X: vp.Width - margin, Y: vp.Height - 6,
				Content: timeline[len(timeline)-1].Date.Format(util.DateFormat),
				Anchor:  "end", FontSize: 10, Fill: "#6b7280",
			},
		},
	}
	return scene, nil
}

// AuditRatioBar 审计比例双段条：已完成字节 vs 收到字节
func (s *ChartService) AuditRatioBar(m *model.ProfileMetrics, vp model.Viewport) (*model.Scene, error) {
	ratio := m.AuditRatio
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 0 {
		return nil, util.ErrInvalidMetrics
	}
	if ratio > 1 {
		// 上游偶尔直接给出 up/down 比值，限幅到条形可表达的范围
		ratio = 1
	}

	const margin = 20.0
	barH := 36.0
	barY := vp.Height/2 - barH/2
	barW := vp.Width - 2*margin

	pos := paletteColor(s.Cfg.Palette, 1)
	neg := paletteColor(s.Cfg.Palette, 3)

	nodes := ratioBar("audit", ratio, margin, barY, barW, barH, pos, neg)
	nodes = append(nodes,
		model.Node{
			Kind: model.KindText, ID: "audit-pos-label",
			X: margin, Y: barY - 8,
			Content: fmt.Sprintf("Done %.0f%%", ratio*100),
			Anchor:  "start", FontSize: 12, Fill: util.DarkenColor(pos, 20),
		},
		model.Node{
			Kind: model.KindText, ID: "audit-neg-label",
			X: margin + barW, Y: barY - 8,
			Content: fmt.Sprintf("Received %.0f%%", (1-ratio)*100),
			Anchor:  "end", FontSize: 12, Fill: util.DarkenColor(neg, 20),
		},
	)

	return &model.Scene{
		Name:   ChartAuditRatio,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
	}, nil
}

// PassFailBar 项目通过/未通过比例条
func (s *ChartService) PassFailBar(progress model.ProgressStats, vp model.Viewport) (*model.Scene, error) {
	if progress.Total == 0 {
		return emptyScene(ChartPassFail, vp, "No projects attempted yet"), nil
	}
	if math.IsNaN(progress.Ratio) || progress.Ratio < 0 || progress.Ratio > 1 {
		return nil, util.ErrInvalidMetrics
	}

	const margin = 20.0
	barH := 36.0
	barY := vp.Height/2 - barH/2
	barW := vp.Width - 2*margin

	pos := paletteColor(s.Cfg.Palette, 1)
	neg := paletteColor(s.Cfg.Palette, 3)

	nodes := ratioBar("passfail", progress.Ratio, margin, barY, barW, barH, pos, neg)
	nodes = append(nodes,
		model.Node{
			Kind: model.KindText, ID: "passfail-pass-label",
			X: margin, Y: barY - 8,
			Content: fmt.Sprintf("Passed %d", progress.Succeeded),
			Anchor:  "start", FontSize: 12, Fill: util.DarkenColor(pos, 20),
		},
		model.Node{
			Kind: model.KindText, ID: "passfail-fail-label",
			X: margin + barW, Y: barY - 8,
			Content: fmt.Sprintf("Failed %d", progress.Total-progress.Succeeded),
			Anchor:  "end", FontSize: 12, Fill: util.DarkenColor(neg, 20),
		},
	)

	return &model.Scene{
		Name:   ChartPassFail,
		Width:  vp.Width,
		Height: vp.Height,
		Nodes:  nodes,
	}, nil
}

// CategoryColumns 每类别两根柱：总数为底，完成数以加深色叠加
func (s *ChartService) CategoryColumns(byCategory map[string]model.CategoryStats, vp model.Viewport) (*model.Scene, error) {
	if len(byCategory) == 0 {
		return emptyScene(ChartCategories, vp, "No progress recorded yet"), nil
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	const margin = 24.0
	plotW := vp.Width - 2*margin
	plotH := vp.Height - 2*margin - 16

	totals := make([]float64, len(names))
	maxTotal := 0.0
	for i, name := range names {
		totals[i] = float64(byCategory[name].Total)
		if totals[i] > maxTotal {
			maxTotal = totals[i]
		}
	}

	scene := &model.Scene{
		Name:   ChartCategories,
		Width:  vp.Width,
		Height: vp.Height,
	}
	scene.Nodes = append(scene.Nodes, columnBars("category-total", totals, margin, margin, plotW, plotH, s.Cfg.Palette)...)

	colW := plotW / float64(len(names))
	for i, name := range names {
		stats := byCategory[name]
		completedH := 0.0
		if maxTotal > 0 {
			completedH = float64(stats.Completed) / maxTotal * plotH
		}
		fill := util.DarkenColor(paletteColor(s.Cfg.Palette, i), 25)
		scene.Nodes = append(scene.Nodes,
			model.Node{
				Kind: model.KindRect, ID: fmt.Sprintf("category-completed-%d", i),
				X:      margin + float64(i)*colW + colW*0.15,
				Y:      margin + plotH - completedH,
				Width:  colW * 0.7,
				Height: completedH,
				Fill:   fill,
			},
			model.Node{
				Kind: model.KindText, ID: fmt.Sprintf("category-label-%d", i),
				X: margin + float64(i)*colW + colW/2, Y: vp.Height - 8,
				Content: name, Anchor: "middle", FontSize: 11, Fill: "#374151",
				Label: name,
			},
		)
	}

	return scene, nil
}

// ModuleProjectColumns 模块项目XP柱状图（kB）
func (s *ChartService) ModuleProjectColumns(projects []model.ProjectXP, vp model.Viewport) (*model.Scene, error) {
	if len(projects) == 0 {
		return emptyScene(ChartModuleProjects, vp, "No module projects yet"), nil
	}

	values := make([]float64, len(projects))
	for i, p := range projects {
		values[i] = p.Amount
	}
	if err := checkAmounts(values...); err != nil {
		return nil, err
	}

	const margin = 24.0
	plotW := vp.Width - 2*margin
	plotH := vp.Height - 2*margin - 16

	scene := &model.Scene{
		Name:   ChartModuleProjects,
		Width:  vp.Width,
		Height: vp.Height,
	}
	scene.Nodes = append(scene.Nodes, columnBars("project", values, margin, margin, plotW, plotH, s.Cfg.Palette)...)

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}

	colW := plotW / float64(len(projects))
	for i, p := range projects {
		barH := 0.0
		if maxVal > 0 {
			barH = p.Amount / maxVal * plotH
		}
		scene.Nodes = append(scene.Nodes,
			model.Node{
				Kind: model.KindText, ID: fmt.Sprintf("project-amount-%d", i),
				X: margin + float64(i)*colW + colW/2, Y: margin + plotH - barH - 6,
				Content: fmt.Sprintf("%.1f kB", p.Amount),
				Anchor:  "middle", FontSize: 10, Fill: "#6b7280",
			},
			model.Node{
				Kind: model.KindText, ID: fmt.Sprintf("project-label-%d", i),
				X: margin + float64(i)*colW + colW/2, Y: vp.Height - 8,
				Content: p.Project, Anchor: "middle", FontSize: 11, Fill: "#374151",
				Label: p.Project,
			},
		)
	}

	return scene, nil
}
