// Package chart composes the dashboard's three stacked, time-synchronized plots into a
// figure document in the Plotly JSON schema, rendered by plotly.js in the browser.
package chart

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float that encodes NaN and ±Inf as JSON null, which plotly draws as a gap.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func numbers(values []float64) []Number {
	out := make([]Number, len(values))
	for i, v := range values {
		out[i] = Number(v)
	}
	return out
}

// Figure is a complete plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// JSON encodes the figure for embedding in the page.
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// Trace is one plotted series. Only the fields used by the dashboard are modeled.
type Trace struct {
	Type   string   `json:"type"`
	Name   string   `json:"name"`
	X      []string `json:"x"`
	Y      []Number `json:"y,omitempty"`
	Open   []Number `json:"open,omitempty"`
	High   []Number `json:"high,omitempty"`
	Low    []Number `json:"low,omitempty"`
	Close  []Number `json:"close,omitempty"`
	Mode   string   `json:"mode,omitempty"`
	Line   *Line    `json:"line,omitempty"`
	Marker *Marker  `json:"marker,omitempty"`
	XAxis  string   `json:"xaxis"`
	YAxis  string   `json:"yaxis"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

type Marker struct {
	Color string `json:"color"`
}

// Layout holds the figure layout. Axes are keyed by plotly axis names (xaxis, xaxis2, ...).
type Layout struct {
	Height      int             `json:"height"`
	ShowLegend  bool            `json:"showlegend"`
	HoverMode   string          `json:"hovermode"`
	XAxes       map[string]Axis `json:"-"`
	YAxes       map[string]Axis `json:"-"`
	Shapes      []Shape         `json:"shapes,omitempty"`
	Annotations []Annotation    `json:"annotations,omitempty"`
}

// MarshalJSON flattens the axis maps into top-level layout keys as plotly expects.
func (l Layout) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"height":     l.Height,
		"showlegend": l.ShowLegend,
		"hovermode":  l.HoverMode,
	}
	if len(l.Shapes) > 0 {
		m["shapes"] = l.Shapes
	}
	if len(l.Annotations) > 0 {
		m["annotations"] = l.Annotations
	}
	for k, v := range l.XAxes {
		m[k] = v
	}
	for k, v := range l.YAxes {
		m[k] = v
	}
	return json.Marshal(m)
}

type Axis struct {
	Domain      []float64    `json:"domain"`
	Anchor      string       `json:"anchor"`
	Matches     string       `json:"matches,omitempty"`
	ShowTicks   *bool        `json:"showticklabels,omitempty"`
	RangeSlider *RangeSlider `json:"rangeslider,omitempty"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

// Shape is a layout shape; the dashboard only draws horizontal reference lines.
type Shape struct {
	Type string  `json:"type"`
	XRef string  `json:"xref"`
	YRef string  `json:"yref"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
	Y0   float64 `json:"y0"`
	Y1   float64 `json:"y1"`
	Line Line    `json:"line"`
}

// Annotation is used for subplot titles.
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	ShowArrow bool    `json:"showarrow"`
}
