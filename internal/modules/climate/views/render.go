package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var viewsFS embed.FS

var indexTmpl *template.Template

// loadTemplatesFromFS loads the page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	indexTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// Route is one entry of the route listing.
type Route struct {
	Path        string
	Description string
}

type IndexData struct {
	Title  string
	Routes []Route
}

// DefaultIndex lists the API routes served by the climate controller.
func DefaultIndex() *IndexData {
	return &IndexData{
		Title: "SurfsUp climate API",
		Routes: []Route{
			{Path: "/api/v1.0/precipitation", Description: "Precipitation"},
			{Path: "/api/v1.0/stations", Description: "List of Stations"},
			{Path: "/api/v1.0/tobs", Description: "Temperature for one year of most active station"},
			{Path: "/api/v1.0/<start>", Description: "Temperature stat from the start date"},
			{Path: "/api/v1.0/<start>/<end>", Description: "Temperature stat from start to end dates"},
		},
	}
}

func RenderIndex(w io.Writer, data *IndexData) error {
	if indexTmpl == nil {
		return errors.New("index template not loaded: call views.LoadTemplates during startup")
	}
	return indexTmpl.ExecuteTemplate(w, "index.html", data)
}
