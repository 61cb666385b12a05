package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a Record as an Org-mode block. Structured facts go
// in the PROPERTIES drawer; notes and the AI critique become sections.
func FormatTradeOrg(r Record) string {
	heading := fmt.Sprintf("** Trade: %s %s %s (%s)", r.Model, r.Direction, r.Status.Label(), ShortID(r.ID))
	when := r.Time().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.ID))
	b.WriteString(fmt.Sprintf(":TIME: %s\n", when))
	b.WriteString(fmt.Sprintf(":PRICE_SOURCE: %s\n", r.PriceSource))
	b.WriteString(fmt.Sprintf(":TIMEFRAME: %s\n", r.Timeframe))
	b.WriteString(fmt.Sprintf(":MODEL: %s\n", r.Model))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", r.Direction))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.5f\n", r.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.5f\n", r.ExitPrice))
	b.WriteString(fmt.Sprintf(":RR: %.2f\n", r.RR))
	b.WriteString(fmt.Sprintf(":STATUS: %s\n", r.Status))
	if r.HasScreenshot() {
		b.WriteString(":SCREENSHOT: yes\n")
	}
	b.WriteString(":END:\n")

	if r.Notes != "" {
		b.WriteString("\n*** Notes\n")
		writeOrgBody(&b, r.Notes)
	}
	if r.AIAnalysis != "" {
		b.WriteString("\n*** AI Analysis\n")
		writeOrgBody(&b, r.AIAnalysis)
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(records []Record) string {
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(r))
	}
	return b.String()
}

// writeOrgBody indents every non-blank line by two spaces, so a line of
// free text starting with "*" cannot open a new heading.
func writeOrgBody(b *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			b.WriteString("  ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
}

// ShortID is the eight character prefix of an id shown in headings and
// listings.
func ShortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
