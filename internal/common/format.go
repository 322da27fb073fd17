package common

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/notify"
)

const (
	DefaultWidth = 80

	previewLength = 60
)

// PrintHeader prints a title between separator lines
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", DefaultWidth))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", DefaultWidth))
}

// PrintFooter prints a summary line between separator lines
func PrintFooter(w io.Writer, message string) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", DefaultWidth))
	fmt.Fprintln(w, message)
	fmt.Fprintln(w, strings.Repeat("=", DefaultWidth)+"\n")
}

// BoxPrefix returns the box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

func PrintTemplates(w io.Writer, templates []models.MessageTemplate) {
	byType := make(map[models.MessageType]models.MessageTemplate, len(templates))
	for _, t := range templates {
		byType[t.MessageType] = t
	}

	PrintHeader(w, "MESSAGE TEMPLATES")
	for i, messageType := range models.MessageTypes {
		prefix := BoxPrefix(i == len(models.MessageTypes)-1)
		t, ok := byType[messageType]
		if !ok {
			fmt.Fprintf(w, "%s %-26s (not set)\n", prefix, messageType)
			continue
		}
		fmt.Fprintf(w, "%s %-26s %s (updated %s)\n", prefix, messageType, Preview(t.Text), t.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	PrintFooter(w, fmt.Sprintf("SUMMARY: %d of %d templates configured", len(byType), len(models.MessageTypes)))
}

func PrintDestinations(w io.Writer, destinations []models.AdminDestination) {
	active := 0
	PrintHeader(w, "NOTIFICATION DESTINATIONS")
	for i, d := range destinations {
		state := "inactive"
		if d.IsActive {
			state = "active"
			active++
		}
		fmt.Fprintf(w, "%s %-16d %-8s %s\n", BoxPrefix(i == len(destinations)-1), d.ChatId, state, d.Name)
	}
	PrintFooter(w, fmt.Sprintf("SUMMARY: %d destinations, %d active", len(destinations), active))
}

func PrintRates(w io.Writer, rates []models.ExchangeRate) {
	PrintHeader(w, "ACTIVE EXCHANGE RATES")
	for i, r := range rates {
		fmt.Fprintf(w, "%s %s → %s: %s\n", BoxPrefix(i == len(rates)-1), r.CurrencyFrom, r.CurrencyTo, r.Rate.StringFixed(models.RatePlaces))
	}
	PrintFooter(w, fmt.Sprintf("SUMMARY: %d active rates", len(rates)))
}

// PrintDispatchResult summarizes one notification fan-out
func PrintDispatchResult(w io.Writer, title string, result notify.Result) {
	PrintHeader(w, title)
	fmt.Fprintf(w, "│  Dispatch:  %s\n", result.DispatchId)
	fmt.Fprintf(w, "│  Attempted: %d\n", result.Attempted)
	fmt.Fprintf(w, "│  Delivered: %d\n", result.Succeeded)
	fmt.Fprintf(w, "└  Failed:    %d\n", result.Failed)
	if result.Attempted == 0 {
		PrintFooter(w, "No recipients. Check the destinations and the notification bot token.")
		return
	}
	PrintFooter(w, fmt.Sprintf("SUMMARY: %d/%d delivered", result.Succeeded, result.Attempted))
}

// Preview flattens text to a single line of bounded length
func Preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "..."
}
