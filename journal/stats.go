package journal

// Stats are the headline dashboard figures.
type Stats struct {
	TotalTrades int     `json:"totalTrades"`
	WinRate     float64 `json:"winRate"` // percent
	AvgRR       float64 `json:"avgRR"`
	NetRR       float64 `json:"netRR"`
}

// ModelPerformance is the win rate of one entry model.
type ModelPerformance struct {
	Model   string  `json:"model"`
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"` // percent
}

// Dashboard bundles every aggregate computed over one view of the journal.
type Dashboard struct {
	Stats        Stats              `json:"stats"`
	Outcomes     map[Status]int     `json:"outcomes"`
	Models       []ModelPerformance `json:"models"`
	FirstTradeAt int64              `json:"firstTradeAt,omitempty"`
	LastTradeAt  int64              `json:"lastTradeAt,omitempty"`
}

// ComputeStats derives the headline figures. An empty input gives all
// zeros.
//
// NetRR counts a win as its rr, a loss as a flat -1R whatever its stored rr,
// and a break even as 0. AvgRR averages the stored rr over every trade, so
// losers contribute their targeted R:R. The two are intentionally different.
func ComputeStats(records []Record) Stats {
	total := len(records)
	if total == 0 {
		return Stats{}
	}

	var wins int
	var net, sum float64
	for _, r := range records {
		sum += r.RR
		net += realizedR(r)
		if r.Status == Win {
			wins++
		}
	}

	return Stats{
		TotalTrades: total,
		WinRate:     100 * float64(wins) / float64(total),
		AvgRR:       sum / float64(total),
		NetRR:       net,
	}
}

func realizedR(r Record) float64 {
	switch r.Status {
	case Win:
		return r.RR
	case Loss:
		return -1
	case BreakEven:
		return 0
	}
	return 0
}

// ComputeOutcomeDistribution counts trades per status. Every status is
// present in the result, with zero when unseen.
func ComputeOutcomeDistribution(records []Record) map[Status]int {
	counts := make(map[Status]int, len(Statuses()))
	for _, s := range Statuses() {
		counts[s] = 0
	}
	for _, r := range records {
		if r.Status.Valid() {
			counts[r.Status]++
		}
	}
	return counts
}

// ComputeModelPerformance reports the win rate of every model that appears
// in records, in order of first appearance.
func ComputeModelPerformance(records []Record) []ModelPerformance {
	var out []ModelPerformance
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Model]
		if !ok {
			i = len(out)
			index[r.Model] = i
			out = append(out, ModelPerformance{Model: r.Model})
		}
		out[i].Trades++
		if r.Status == Win {
			out[i].Wins++
		}
	}
	for i := range out {
		out[i].WinRate = 100 * float64(out[i].Wins) / float64(out[i].Trades)
	}
	return out
}

// BuildDashboard computes every aggregate for records.
func BuildDashboard(records []Record) Dashboard {
	d := Dashboard{
		Stats:    ComputeStats(records),
		Outcomes: ComputeOutcomeDistribution(records),
		Models:   ComputeModelPerformance(records),
	}
	for i, r := range records {
		if i == 0 || r.Timestamp < d.FirstTradeAt {
			d.FirstTradeAt = r.Timestamp
		}
		if i == 0 || r.Timestamp > d.LastTradeAt {
			d.LastTradeAt = r.Timestamp
		}
	}
	return d
}
