package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"rssz/models"
)

const NotFoundMessage = "Nenalezeny žádné výsledky."

// FoundMessage is the summary shown above a non-empty table.
func FoundMessage(rows int) string {
	return fmt.Sprintf("Nalezeno %d záznamů.", rows)
}

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	// Text cells are escaped by Render already.
	"escaped":       func(s string) template.HTML { return template.HTML(s) },
	"blankFeedback": func(field string) Feedback { return Feedback{Field: field} },
}).ParseFS(templateFS, "templates/*.html"))

// Templates returns the page and fragment templates.
func Templates() *template.Template {
	return templates
}

// Fragment executes one named template into a string.
func Fragment(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}

// ResultsFragment renders the main results area for display.
func ResultsFragment(display *models.Display) (string, error) {
	return Fragment("results", display)
}

// ModalFragment renders the modal body for display.
func ModalFragment(display *models.Display) (string, error) {
	return Fragment("modal_results", display)
}

// Page is the data of the search page.
type Page struct {
	Title      string
	Searches   []models.QueryKindInfo
	Aggregates []models.QueryKindInfo
}

type Feedback struct {
	Field   string
	Message string
}

// FeedbackFragment renders the inline validation message under a search field.
// An empty message hides it.
func FeedbackFragment(field, message string) (string, error) {
	return Fragment("feedback", Feedback{Field: field, Message: message})
}

// AlertFragment renders an error alert into the main results area.
func AlertFragment(message string) (string, error) {
	return Fragment("alert", message)
}
