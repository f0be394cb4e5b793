package svg

import (
	"strings"
	"testing"

	"github.com/yhubail/graphql/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmptyScene(t *testing.T) {
	scene := &model.Scene{Name: "empty", Width: 200, Height: 100}
	out := Render(scene)

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.Contains(t, out, `width="200" height="100"`)
	assert.Contains(t, out, `viewBox="0 0 200 100"`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestRenderRect(t *testing.T) {
	scene := &model.Scene{
		Width: 100, Height: 50,
		Nodes: []model.Node{{
			Kind: model.KindRect, ID: "bar-0",
			X: 10, Y: 20, Width: 30.5, Height: 12.25, Fill: "#6366f1",
		}},
	}
	out := Render(scene)
	assert.Contains(t, out, `<rect id="bar-0" x="10" y="20" width="30.5" height="12.25" fill="#6366f1"/>`)
}

func TestRenderLine(t *testing.T) {
	scene := &model.Scene{
		Width: 100, Height: 100,
		Nodes: []model.Node{{
			Kind: model.KindLine, ID: "timeline",
			Points:      []model.Point{{X: 0, Y: 50}, {X: 25, Y: 30}, {X: 50, Y: 10}},
			Stroke:      "#22c55e",
			StrokeWidth: 2,
		}},
	}
	out := Render(scene)
	assert.Contains(t, out, `d="M 0 50 L 25 30 L 50 10"`)
	assert.Contains(t, out, `stroke="#22c55e" stroke-width="2"`)
	assert.Contains(t, out, `fill="none"`)
}

func TestRenderText(t *testing.T) {
	scene := &model.Scene{
		Width: 100, Height: 100,
		Nodes: []model.Node{{
			Kind: model.KindText, ID: "label",
			X: 5, Y: 10, Content: "Go <deep> & \"wide\"", FontSize: 12, Fill: "#333",
		}},
	}
	out := Render(scene)
	assert.Contains(t, out, `Go &lt;deep&gt; &amp; &quot;wide&quot;`)
	assert.Contains(t, out, `text-anchor="start"`)
}

func TestRenderArcWedge(t *testing.T) {
	scene := &model.Scene{
		Width: 200, Height: 200,
		Nodes: []model.Node{{
			Kind: model.KindArc, ID: "slice-0",
			CX: 100, CY: 100, InnerRadius: 40, OuterRadius: 80,
			StartAngle: -90, EndAngle: 90,
			Fill: "#6366f1", Stroke: "#4850b3",
		}},
	}
	out := Render(scene)

	require.Contains(t, out, `<path id="slice-0"`)
	assert.Contains(t, out, "A 80 80")
	assert.Contains(t, out, "A 40 40")
	assert.Contains(t, out, `stroke="#4850b3" stroke-width="1"`)
	assert.Contains(t, out, " Z")
}

func TestRenderFullCircleDoesNotCollapse(t *testing.T) {
	node := model.Node{
		Kind: model.KindArc,
		CX:   100, CY: 100, InnerRadius: 40, OuterRadius: 80,
		StartAngle: -90, EndAngle: 270,
	}
	path := wedgePath(node)

	// 整圆收缩微小角度后起止点必须分离，否则路径退化为空
	assert.Contains(t, path, "A 80 80 0 1 1")
	start := polar(100, 100, 80, -90)
	end := polar(100, 100, 80, -90+359.99)
	assert.NotEqual(t, num(start.X), num(end.X))
}

func TestRenderGroupNestsChildren(t *testing.T) {
	scene := &model.Scene{
		Width: 100, Height: 100,
		Nodes: []model.Node{{
			Kind: model.KindGroup, ID: "legend",
			Children: []model.Node{
				{Kind: model.KindRect, ID: "swatch", X: 0, Y: 0, Width: 12, Height: 12, Fill: "#f59e0b"},
				{Kind: model.KindText, ID: "name", X: 18, Y: 10, Content: "div-01", FontSize: 12, Fill: "#333"},
			},
		}},
	}
	out := Render(scene)

	gIdx := strings.Index(out, `<g id="legend">`)
	rIdx := strings.Index(out, `<rect id="swatch"`)
	tIdx := strings.Index(out, `<text id="name"`)
	closeIdx := strings.Index(out, "</g>")
	require.True(t, gIdx >= 0 && closeIdx >= 0)
	assert.Greater(t, rIdx, gIdx)
	assert.Greater(t, tIdx, rIdx)
	assert.Greater(t, closeIdx, tIdx)
}

func TestRenderDeterministic(t *testing.T) {
	scene := &model.Scene{
		Width: 300, Height: 200,
		Nodes: []model.Node{
			{Kind: model.KindRect, ID: "a", X: 1.23456, Y: 2, Width: 10, Height: 20, Fill: "#111"},
			{Kind: model.KindArc, ID: "b", CX: 150, CY: 100, InnerRadius: 30, OuterRadius: 60, StartAngle: -90, EndAngle: 37.5, Fill: "#222"},
		},
	}
	assert.Equal(t, Render(scene), Render(scene))
}

func TestNumTrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "10", num(10))
	assert.Equal(t, "10.5", num(10.50))
	assert.Equal(t, "10.25", num(10.254))
	assert.Equal(t, "0", num(0))
	assert.Equal(t, "-3.5", num(-3.5))
}
