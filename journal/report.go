package journal

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// Report is the data behind the Org dashboard summary.
type Report struct {
	Title     string
	Range     DateRange
	Generated time.Time
	Dashboard Dashboard
}

var reportFuncs = template.FuncMap{
	"day": func(t time.Time) string {
		if t.IsZero() {
			return "(open)"
		}
		return t.Format("2006-01-02")
	},
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"statuses": Statuses,
	"count": func(m map[Status]int, s Status) int {
		return m[s]
	},
}

var reportTemplate = template.Must(template.New("report").Funcs(reportFuncs).Parse(ReportOrgTemplate))

// FormatReportOrg renders the dashboard as an Org-mode section.
func FormatReportOrg(r Report) (string, error) {
	if r.Title == "" {
		r.Title = "Trading Journal"
	}
	buf := new(bytes.Buffer)
	if err := reportTemplate.Execute(buf, r); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

const ReportOrgTemplate = `* DASHBOARD: {{.Title}}
:PROPERTIES:
:FROM:        {{day .Range.Start}}
:TO:          {{day .Range.End}}
:TRADES:      {{.Dashboard.Stats.TotalTrades}}
:WIN_RATE:    {{printf "%.1f" .Dashboard.Stats.WinRate}}
:NET_RR:      {{printf "%.2f" .Dashboard.Stats.NetRR}}
:AVG_RR:      {{printf "%.2f" .Dashboard.Stats.AvgRR}}
:CREATED:     [{{(orTime .Generated).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Win Rate:      *{{printf "%.1f" .Dashboard.Stats.WinRate}}%*
- Net R:R:       *{{printf "%.2f" .Dashboard.Stats.NetRR}}R*
- Total Trades:  *{{.Dashboard.Stats.TotalTrades}}*
- Avg R:R:       *{{printf "%.2f" .Dashboard.Stats.AvgRR}}*

** Outcome Distribution
| Outcome | Count | Color |
|---------+-------+-------|
{{- $out := .Dashboard.Outcomes }}
{{- range statuses }}
| {{.Label}} | {{count $out .}} | {{.Color}} |
{{- end }}

{{- if .Dashboard.Models }}

** Model Performance
| Model | Trades | Wins | Win Rate % |
|-------+--------+------+------------|
{{- range .Dashboard.Models }}
| {{.Model}} | {{.Trades}} | {{.Wins}} | {{printf "%.1f" .WinRate}} |
{{- end }}
{{- end }}
`
