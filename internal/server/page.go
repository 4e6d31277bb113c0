package server

import (
	"fmt"
	"html/template"
	"io"

	"StockScope/internal/dashboard"
)

const plotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"price":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"volume": func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"pct":    func(v float64) string { return fmt.Sprintf("%+.2f%%", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Stock Chart Viewer</title>
<script src="{{.PlotlyURL}}"></script>
<style>
body { margin: 0; font-family: sans-serif; display: flex; }
aside { width: 260px; padding: 1rem; background: #f0f2f6; min-height: 100vh; box-sizing: border-box; }
main { flex: 1; padding: 1rem 2rem; overflow-x: auto; }
label, input, button { display: block; width: 100%; margin-bottom: .5rem; box-sizing: border-box; }
.warning { background: #fff8e1; padding: .75rem; border-left: 4px solid #f9a825; }
.error { background: #fdecea; padding: .75rem; border-left: 4px solid #d32f2f; }
.table-wrap { max-height: 400px; overflow-y: auto; }
table { border-collapse: collapse; font-size: .85rem; }
th, td { padding: .25rem .75rem; text-align: right; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
<aside>
<h2>Symbol</h2>
<form method="get" action="/">
<p>Enter a ticker symbol (e.g. AAPL).<br>For Tokyo listings add <code>.T</code> at the end.</p>
<label for="symbol">e.g. 7203.T</label>
<input id="symbol" name="symbol" placeholder="Ticker symbol" value="{{.View.Symbol}}">
<h2>Period</h2>
<label for="start">Start date</label>
<input id="start" name="start" type="date" value="{{.View.Start}}">
<label for="end">End date</label>
<input id="end" name="end" type="date" value="{{.View.End}}">
<button type="submit">Show</button>
</form>
</aside>
<main>
<h1>Stock Chart Viewer</h1>
{{with .View}}
{{if .Error}}<p class="error">{{.Error}}</p><p class="warning">{{.Hint}}</p>{{end}}
{{if .Warning}}<p class="warning">{{.Warning}}</p>{{end}}
{{if .Rows}}
<h2>{{.Symbol}} price data</h2>
{{with .Summary}}<p>High {{price .High}} · Low {{price .Low}} · Last close {{price .LastClose}} ({{pct .Change}})</p>{{end}}
<div class="table-wrap"><table>
<thead><tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Volume</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{price .Open}}</td><td>{{price .High}}</td><td>{{price .Low}}</td><td>{{price .Close}}</td><td>{{volume .Volume}}</td></tr>
{{end}}</tbody>
</table></div>
{{end}}
{{end}}
{{if .FigureJSON}}
<h2>Candlestick, RSI, MACD</h2>
<div id="chart"></div>
<script>
const fig = {{.FigureJSON}};
Plotly.newPlot("chart", fig.data, fig.layout, {responsive: true});
</script>
<hr>
<h2>{{.View.Symbol}} company info</h2>
{{range .View.Info}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>
{{end}}
{{end}}
</main>
</body>
</html>
`))

type pageData struct {
	PlotlyURL  string
	View       *dashboard.View
	FigureJSON template.JS
}

func renderPage(w io.Writer, view *dashboard.View) error {
	data := pageData{PlotlyURL: plotlyCDN, View: view}
	if view.HasChart() {
		b, err := view.Figure.JSON()
		if err != nil {
			return fmt.Errorf("encode figure: %w", err)
		}
		data.FigureJSON = template.JS(b)
	}
	return pageTmpl.Execute(w, data)
}
