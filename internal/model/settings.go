package model

// Theme selects the interface appearance.
type Theme string

const (
	// ThemeSystem follows the terminal/system preference.
	ThemeSystem Theme = "system"
	// ThemeLight forces the light appearance.
	ThemeLight Theme = "light"
	// ThemeDark forces the dark appearance.
	ThemeDark Theme = "dark"
)

// ExportFormat tags the output format handed to the export collaborator.
type ExportFormat string

const (
	// FormatCSV exports comma-separated values.
	FormatCSV ExportFormat = "csv"
	// FormatPDF exports a rendered PDF document.
	FormatPDF ExportFormat = "pdf"
)

// Valid reports whether the format is one of the known tags.
func (f ExportFormat) Valid() bool {
	return f == FormatCSV || f == FormatPDF
}

// Settings holds user preferences persisted alongside the entity collections.
type Settings struct {
	Currency            string       `json:"currency"`
	Theme               Theme        `json:"theme"`
	DefaultExportFormat ExportFormat `json:"defaultExportFormat"`
}

// DefaultSettings returns the settings used when nothing is persisted yet or
// the stored blob fails to decode.
func DefaultSettings() Settings {
	return Settings{
		Currency:            "EUR",
		Theme:               ThemeSystem,
		DefaultExportFormat: FormatCSV,
	}
}
