package analysis

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

const defaultImageMIME = "image/jpeg"

// TradeContext is the part of a draft trade sent to the reviewer.
type TradeContext struct {
	Date        string
	PriceSource string
	Timeframe   string
	Model       string
	Direction   journal.Direction
	Status      journal.Status
	Notes       string
}

func ContextFromForm(f journal.FormData) TradeContext {
	return TradeContext{
		Date:        f.Date,
		PriceSource: f.PriceSource,
		Timeframe:   f.Timeframe,
		Model:       f.Model,
		Direction:   f.Direction,
		Status:      f.Status,
		Notes:       f.Notes,
	}
}

// String renders the trade details block of the prompt.
func (c TradeContext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", c.Date)
	fmt.Fprintf(&b, "Price Source: %s\n", c.PriceSource)
	fmt.Fprintf(&b, "Timeframe: %s\n", c.Timeframe)
	fmt.Fprintf(&b, "Model: %s\n", c.Model)
	fmt.Fprintf(&b, "Direction: %s\n", c.Direction)
	fmt.Fprintf(&b, "Result: %s\n", c.Status)
	fmt.Fprintf(&b, "Notes: %s\n", c.Notes)
	return b.String()
}

// BuildPrompt wraps the trade details in the reviewer instructions.
func BuildPrompt(c TradeContext) string {
	return fmt.Sprintf(promptTemplate, strings.TrimRight(c.String(), "\n"))
}

const promptTemplate = `You are a professional senior trading mentor with 20 years of experience in technical analysis.
Please analyze this trade based on the user's notes and the attached chart screenshot (if available).

Trade Details:
%s

Please provide:
1. A critique of the market structure visible (if image provided).
2. Validation of the entry model.
3. Psychology check based on the outcome.
4. Constructive feedback for improvement.

Keep the response concise, bulleted, and professional.`

// Image is an inline chart screenshot, base64 encoded.
type Image struct {
	MIMEType string
	Data     string
}

// Request is everything handed to an Analyzer.
type Request struct {
	Prompt string
	Image  *Image
}

// NewRequest builds the analyzer input. screenshot is either a data URL or
// bare base64; the data URL header is stripped and its MIME type kept.
func NewRequest(screenshot string, c TradeContext) Request {
	req := Request{Prompt: BuildPrompt(c)}
	if img := parseScreenshot(screenshot); img != nil {
		req.Image = img
	}
	return req
}

func parseScreenshot(s string) *Image {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	mime := defaultImageMIME
	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s, ",")
		if !ok {
			return nil
		}
		meta := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		if strings.HasPrefix(meta, "image/") {
			mime = meta
		}
		s = data
	}
	if s == "" {
		return nil
	}
	return &Image{MIMEType: mime, Data: s}
}
