package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/yhubail/graphql/internal/model"
)

// Render 将场景绘制为独立的SVG文档。场景坐标已全部解析，
// 这里只做图元到标记的直译，不再布局。
func Render(scene *model.Scene) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(scene.Width), num(scene.Height), num(scene.Width), num(scene.Height))
	b.WriteString("\n")

	for _, node := range scene.Nodes {
		renderNode(&b, node)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func renderNode(b *strings.Builder, n model.Node) {
	switch n.Kind {
	case model.KindRect:
		fmt.Fprintf(b, `<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
			escape(n.ID), num(n.X), num(n.Y), num(n.Width), num(n.Height), escape(n.Fill))
		b.WriteString("\n")
	case model.KindArc:
		fmt.Fprintf(b, `<path id="%s" d="%s" fill="%s"`,
			escape(n.ID), wedgePath(n), escape(n.Fill))
		if n.Stroke != "" {
			fmt.Fprintf(b, ` stroke="%s" stroke-width="1"`, escape(n.Stroke))
		}
		b.WriteString("/>\n")
	case model.KindLine:
		fmt.Fprintf(b, `<path id="%s" d="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
			escape(n.ID), linePath(n.Points), escape(n.Stroke), num(n.StrokeWidth))
		b.WriteString("\n")
	case model.KindText:
		anchor := n.Anchor
		if anchor == "" {
			anchor = "start"
		}
		fmt.Fprintf(b, `<text id="%s" x="%s" y="%s" text-anchor="%s" font-size="%s" fill="%s">%s</text>`,
			escape(n.ID), num(n.X), num(n.Y), escape(anchor), num(n.FontSize), escape(n.Fill), escape(n.Content))
		b.WriteString("\n")
	case model.KindGroup:
		fmt.Fprintf(b, `<g id="%s">`, escape(n.ID))
		b.WriteString("\n")
		for _, child := range n.Children {
			renderNode(b, child)
		}
		b.WriteString("</g>\n")
	}
}

// wedgePath 内外半径之间的环形楔块。SVG圆弧无法表达整圆，
// 接近360°的跨度收缩一个微小角度。
func wedgePath(n model.Node) string {
	start := n.StartAngle
	end := n.EndAngle
	if end-start >= 360 {
		end = start + 359.99
	}

	outerStart := polar(n.CX, n.CY, n.OuterRadius, start)
	outerEnd := polar(n.CX, n.CY, n.OuterRadius, end)
	innerStart := polar(n.CX, n.CY, n.InnerRadius, start)
	innerEnd := polar(n.CX, n.CY, n.InnerRadius, end)

	largeArc := 0
	if end-start > 180 {
		largeArc = 1
	}

	return fmt.Sprintf("M %s %s A %s %s 0 %d 1 %s %s L %s %s A %s %s 0 %d 0 %s %s Z",
		num(outerStart.X), num(outerStart.Y),
		num(n.OuterRadius), num(n.OuterRadius), largeArc,
		num(outerEnd.X), num(outerEnd.Y),
		num(innerEnd.X), num(innerEnd.Y),
		num(n.InnerRadius), num(n.InnerRadius), largeArc,
		num(innerStart.X), num(innerStart.Y),
	)
}

func linePath(points []model.Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", num(points[0].X), num(points[0].Y))
	for _, p := range points[1:] {
		fmt.Fprintf(&b, " L %s %s", num(p.X), num(p.Y))
	}
	return b.String()
}

func polar(cx, cy, r, angleDeg float64) model.Point {
	rad := angleDeg * math.Pi / 180
	return model.Point{X: cx + r*math.Cos(rad), Y: cy + r*math.Sin(rad)}
}

// num 固定两位小数，保证相同场景渲染出逐字节相同的文档
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
