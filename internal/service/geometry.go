package service

import (
	"fmt"
	"math"

	"github.com/yhubail/graphql/internal/model"
	"github.com/yhubail/graphql/internal/util"
)

// 纯几何构件：指标 → 已解析坐标的图元。无I/O，确定性输出。

// checkAmounts 负值或非有限值直接失败，绝不带入几何计算
func checkAmounts(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return util.ErrInvalidMetrics
		}
	}
	return nil
}

func paletteColor(palette []string, i int) string {
	return palette[i%len(palette)]
}

// ratioBar 双段比例条。r=0 或 r=1 时仍输出两个矩形（其一宽度为0），
// 场景结构保持可预测。
func ratioBar(id string, r, x, y, w, h float64, posColor, negColor string) []model.Node {
	return []model.Node{
		{
			Kind: model.KindRect, ID: id + "-pos",
			X: x, Y: y, Width: w * r, Height: h,
			Fill: posColor,
		},
		{
			Kind: model.KindRect, ID: id + "-neg",
			X: x + w*r, Y: y, Width: w * (1 - r), Height: h,
			Fill: negColor,
		},
	}
}

// columnBars N个等宽列，柱高与最大值成比例，底部对齐。
// max为0时所有柱高为0，显式防止除零。
func columnBars(idPrefix string, values []float64, x, y, w, h float64, palette []string) []model.Node {
	n := len(values)
	if n == 0 {
		return nil
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}

	colW := w / float64(n)
	nodes := make([]model.Node, 0, n)
	for i, v := range values {
		barH := 0.0
		if maxVal > 0 {
			barH = v / maxVal * h
		}
		barW := colW * 0.7
		nodes = append(nodes, model.Node{
			Kind: model.KindRect, ID: fmt.Sprintf("%s-%d", idPrefix, i),
			X:      x + float64(i)*colW + colW*0.15,
			Y:      y + h - barH,
			Width:  barW,
			Height: barH,
			Fill:   paletteColor(palette, i),
		})
	}
	return nodes
}

// polylinePoints 时间序列折线坐标。单点退化为 x=0；
// 所有金额相等且为0时最大值按1处理，避免除零。
func polylinePoints(amounts []float64, w, h float64) []model.Point {
	n := len(amounts)
	if n == 0 {
		return nil
	}

	maxAmount := 0.0
	for _, a := range amounts {
		if a > maxAmount {
			maxAmount = a
		}
	}
	if maxAmount == 0 {
		maxAmount = 1
	}

	points := make([]model.Point, n)
	for i, a := range amounts {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1) * w
		}
		points[i] = model.Point{
			X: x,
			Y: h - a/maxAmount*h,
		}
	}
	return points
}

// donutStartAngle 起始角指向正上方，顺时针铺设
const donutStartAngle = -90.0

type donutSlice struct {
	Label      string
	Amount     float64
	StartAngle float64
	EndAngle   float64
	Percent    int
	Share      float64
}

// donutSlices 按权重连续切分360°。调用方保证段已按金额降序排列
// （排序属于契约的一部分）。total 必须为正。
func donutSlices(segments []model.ProjectXP, total float64) []donutSlice {
	slices := make([]donutSlice, 0, len(segments))
	angle := donutStartAngle
	for _, seg := range segments {
		share := seg.Amount / total
		span := share * 360
		slices = append(slices, donutSlice{
			Label:      seg.Project,
			Amount:     seg.Amount,
			StartAngle: angle,
			EndAngle:   angle + span,
			Percent:    int(math.Round(share * 100)),
			Share:      share,
		})
		angle += span
	}
	return slices
}

// arcPoint 角度为度，SVG坐标系（y向下），-90°为正上方
func arcPoint(cx, cy, r, angleDeg float64) model.Point {
	rad := angleDeg * math.Pi / 180
	return model.Point{
		X: cx + r*math.Cos(rad),
		Y: cy + r*math.Sin(rad),
	}
}

// legendRow 两列轮转布局：偶数索引进左列，奇数进右列
func legendRow(index int) (col, row int) {
	return index % 2, index / 2
}

// legendHeight 行数 = ceil(N/2)，画布高度随条目数动态计算
func legendHeight(n int, rowH float64) float64 {
	rows := (n + 1) / 2
	return float64(rows) * rowH
}

// emptyScene 零数据占位场景：单个文本图元，无弧段，无除零
func emptyScene(name string, vp model.Viewport, message string) *model.Scene {
	return &model.Scene{
		Name:   name,
		Width:  vp.Width,
		Height: vp.Height,
		Empty:  true,
		Nodes: []model.Node{
			{
				Kind: model.KindText, ID: name + "-empty",
				X: vp.Width / 2, Y: vp.Height / 2,
				Content: message, Anchor: "middle", FontSize: 14,
				Fill: "#9ca3af",
			},
		},
	}
}
