package chart

import (
	"fmt"

	"StockScope/internal/model"
)

const (
	dateLayout = "2006-01-02"

	// FigureHeight is the total height of the stacked figure in pixels.
	FigureHeight    = 1000
	verticalSpacing = 0.05

	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// RowHeights are the relative heights of the price, RSI and MACD rows.
var RowHeights = []float64{0.5, 0.25, 0.25}

// Colors used by the composer.
const (
	ColorMA20       = "orange"
	ColorMA50       = "purple"
	ColorRSI        = "green"
	ColorOverbought = "red"
	ColorOversold   = "blue"
	ColorMACD       = "blue"
	ColorSignal     = "red"
	ColorHistogram  = "gray"
)

// Compose builds the three-row figure: candlesticks with MA20/MA50, RSI with 70/30
// thresholds, and MACD with signal line and histogram, all sharing the first row's x axis.
func Compose(symbol string, bars []model.OHLCV, ind *model.IndicatorSeries) *Figure {
	x := make([]string, len(bars))
	open := make([]Number, len(bars))
	high := make([]Number, len(bars))
	low := make([]Number, len(bars))
	closes := make([]Number, len(bars))
	for i, b := range bars {
		x[i] = b.Time.Format(dateLayout)
		open[i] = Number(b.Open)
		high[i] = Number(b.High)
		low[i] = Number(b.Low)
		closes[i] = Number(b.Close)
	}

	fig := &Figure{Layout: stackedLayout([]string{fmt.Sprintf("%s Price", symbol), "RSI", "MACD"})}

	// Row 1
	fig.Data = append(fig.Data,
		Trace{Type: "candlestick", Name: "Candlestick", X: x, Open: open, High: high, Low: low, Close: closes, XAxis: "x", YAxis: "y"},
		lineTrace("MA20", x, ind.MA20, ColorMA20, 2, 1),
		lineTrace("MA50", x, ind.MA50, ColorMA50, 2, 1),
	)

	// Row 2
	fig.Data = append(fig.Data, lineTrace("RSI", x, ind.RSI, ColorRSI, 2, 2))
	fig.Layout.Shapes = append(fig.Layout.Shapes,
		hline(RSIOverbought, ColorOverbought, 2),
		hline(RSIOversold, ColorOversold, 2),
	)

	// Row 3
	fig.Data = append(fig.Data,
		lineTrace("MACD", x, ind.MACD, ColorMACD, 2, 3),
		lineTrace("Signal", x, ind.Signal, ColorSignal, 1, 3),
		Trace{Type: "bar", Name: "Histogram", X: x, Y: numbers(ind.Histogram),
			Marker: &Marker{Color: ColorHistogram}, XAxis: axisRef("x", 3), YAxis: axisRef("y", 3)},
	)

	return fig
}

func lineTrace(name string, x []string, y []float64, color string, width float64, row int) Trace {
	return Trace{
		Type:  "scatter",
		Name:  name,
		X:     x,
		Y:     numbers(y),
		Mode:  "lines",
		Line:  &Line{Color: color, Width: width},
		XAxis: axisRef("x", row),
		YAxis: axisRef("y", row),
	}
}

func hline(y float64, color string, row int) Shape {
	return Shape{
		Type: "line",
		XRef: axisRef("x", row) + " domain",
		YRef: axisRef("y", row),
		X0:   0,
		X1:   1,
		Y0:   y,
		Y1:   y,
		Line: Line{Color: color, Dash: "dash"},
	}
}

// axisRef returns the trace-level axis id for a 1-based row: "x", "x2", "x3".
func axisRef(prefix string, row int) string {
	if row == 1 {
		return prefix
	}
	return fmt.Sprintf("%s%d", prefix, row)
}

// axisKey returns the layout key for a 1-based row: "xaxis", "xaxis2", ...
func axisKey(prefix string, row int) string {
	if row == 1 {
		return prefix + "axis"
	}
	return fmt.Sprintf("%saxis%d", prefix, row)
}

// rowDomains splits the paper height top-down by RowHeights, leaving verticalSpacing between rows.
func rowDomains() [][2]float64 {
	usable := 1 - verticalSpacing*float64(len(RowHeights)-1)
	domains := make([][2]float64, len(RowHeights))
	top := 1.0
	for i, h := range RowHeights {
		bottom := top - h*usable
		if bottom < 0 {
			bottom = 0
		}
		domains[i] = [2]float64{bottom, top}
		top = bottom - verticalSpacing
	}
	return domains
}

func stackedLayout(titles []string) Layout {
	hidden := false
	l := Layout{
		Height:     FigureHeight,
		ShowLegend: true,
		HoverMode:  "x unified",
		XAxes:      map[string]Axis{},
		YAxes:      map[string]Axis{},
	}
	domains := rowDomains()
	last := len(domains)
	for i, d := range domains {
		row := i + 1
		xa := Axis{Domain: []float64{0, 1}, Anchor: axisRef("y", row)}
		if row > 1 {
			xa.Matches = "x"
		}
		if row < last {
			xa.ShowTicks = &hidden
		}
		if row == 1 {
			xa.RangeSlider = &RangeSlider{Visible: false}
		}
		l.XAxes[axisKey("x", row)] = xa
		l.YAxes[axisKey("y", row)] = Axis{Domain: []float64{d[0], d[1]}, Anchor: axisRef("x", row)}

		if i < len(titles) {
			l.Annotations = append(l.Annotations, Annotation{
				Text: titles[i], X: 0.5, Y: d[1], XRef: "paper", YRef: "paper",
				XAnchor: "center", YAnchor: "bottom",
			})
		}
	}
	return l
}
