package dashboard

import (
	"StockScope/internal/calculator"
	"StockScope/internal/chart"
	"StockScope/internal/model"
)

const (
	// ErrorMessage is shown for any provider or unexpected failure.
	ErrorMessage = "An error occurred while loading market data"
	// ErrorHint follows every error message.
	ErrorHint = "Please check that the ticker symbol is entered correctly (add .T for Tokyo listings, e.g. 7203.T)."
)

// Row is one line of the raw price table.
type Row struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// View is everything the page renders for one invocation.
type View struct {
	Symbol  string `json:"symbol"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
	Hint    string `json:"hint,omitempty"`

	Rows    []Row               `json:"rows,omitempty"`
	Summary *calculator.Summary `json:"summary,omitempty"`
	Figure  *chart.Figure       `json:"figure,omitempty"`
	Info    []model.InfoField   `json:"info,omitempty"`
}

// HasChart reports whether the composer produced a figure.
func (v *View) HasChart() bool { return v.Figure != nil }

func rowsFrom(bars []model.OHLCV) []Row {
	rows := make([]Row, len(bars))
	for i, b := range bars {
		rows[i] = Row{
			Date:   b.Time.Format(DateLayout),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return rows
}
