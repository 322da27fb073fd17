package conversation

import (
	"strings"

	"cityexchange-go/internal/models"
)

// Command is a normalized customer input. Country selections carry the
// country code after the "country:" prefix.
type Command string

const (
	CommandUnknown       Command = "unknown"
	CommandStart         Command = "start"
	CommandAbout         Command = "about"
	CommandRates         Command = "rates"
	CommandCompliance    Command = "compliance"
	CommandContactUs     Command = "contact_us"
	CommandLocation      Command = "location"
	CommandTransferEntry Command = "transfer_entry"

	countryPrefix = "country:"
)

// Main menu labels as shown on the reply keyboard
const (
	LabelAbout         = "О нас"
	LabelRates         = "Курсы"
	LabelCompliance    = "AML Проверка"
	LabelContactUs     = "Связаться с нами"
	LabelLocation      = "Как нас найти"
	LabelTransferEntry = "Международные переводы Cityex24"
	LabelShareContact  = "Поделиться контактом"
)

var menuCommands = map[string]Command{
	LabelAbout:         CommandAbout,
	LabelRates:         CommandRates,
	LabelCompliance:    CommandCompliance,
	LabelContactUs:     CommandContactUs,
	LabelLocation:      CommandLocation,
	LabelTransferEntry: CommandTransferEntry,
}

// countryCommands is filled from the catalog so labels stay in one place
var countryCommands = func() map[string]Command {
	m := make(map[string]Command, len(models.Countries))
	for _, c := range models.Countries {
		m[c.Label()] = CountryCommand(c)
	}
	return m
}()

func CountryCommand(c models.Country) Command {
	return Command(countryPrefix + string(c))
}

// Country returns the selected country for country commands
func (c Command) Country() (models.Country, bool) {
	code, ok := strings.CutPrefix(string(c), countryPrefix)
	if !ok {
		return "", false
	}
	country := models.Country(code)
	return country, country.Valid()
}

// Normalize maps raw message text to a command. Menu labels must match
// exactly; anything else is unknown.
func Normalize(text string) Command {
	if text == "/start" || strings.HasPrefix(text, "/start ") {
		return CommandStart
	}
	if cmd, ok := menuCommands[text]; ok {
		return cmd
	}
	if cmd, ok := countryCommands[text]; ok {
		return cmd
	}
	return CommandUnknown
}

// Keyboard selects the reply keyboard rendered with a message
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardMain
	KeyboardCountries
	KeyboardShareContact
)

// MainMenuRows lists the main keyboard layout
var MainMenuRows = [][]string{
	{LabelAbout, LabelRates},
	{LabelCompliance, LabelContactUs},
	{LabelLocation},
	{LabelTransferEntry},
}

// CountryRows lists the country keyboard layout, two per row
func CountryRows() [][]string {
	var rows [][]string
	for i := 0; i < len(models.Countries); i += 2 {
		row := []string{models.Countries[i].Label()}
		if i+1 < len(models.Countries) {
			row = append(row, models.Countries[i+1].Label())
		}
		rows = append(rows, row)
	}
	return rows
}
