package export

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
	"time"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const (
	templatesDir  = "templates"
	partialsFile  = "_partials.tmpl"
	emptyStepText = "(none)"
)

// Engine renders documents in every supported format
type Engine struct {
	templates *template.Template
	names     []string
}

// NewEngine creates an engine from the embedded templates
func NewEngine() (*Engine, error) {
	return NewEngineWithFS(templatesFS)
}

// NewEngineWithFS creates an engine from the templates directory of fsys
func NewEngineWithFS(fsys fs.FS) (*Engine, error) {
	entries, err := fs.ReadDir(fsys, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	tmpl := template.New("export").Funcs(templateFuncs())

	// Partials first so every template can use them
	partials, err := fs.ReadFile(fsys, path.Join(templatesDir, partialsFile))
	if err == nil {
		if _, err := tmpl.Parse(string(partials)); err != nil {
			return nil, fmt.Errorf("failed to parse partials: %w", err)
		}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") || entry.Name() == partialsFile {
			continue
		}

		filePath := path.Join(templatesDir, entry.Name())
		content, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %s: %w", filePath, err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", filePath, err)
		}
		names = append(names, name)
	}

	return &Engine{templates: tmpl, names: names}, nil
}

// Templates returns the names of the loaded templates
func (e *Engine) Templates() []string {
	return append([]string(nil), e.names...)
}

// Render renders doc in format
func (e *Engine) Render(format Format, doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNoOutcome
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMarkdown, FormatText:
		return e.execute(string(format), doc)
	case FormatGherkin:
		if !doc.Structured() {
			return nil, fmt.Errorf("%w: gherkin requires a structured test case list", ErrUnsupportedFormat)
		}
		data, err := e.execute(string(format), doc)
		if err != nil {
			return nil, err
		}
		if err := validateGherkin(data, len(doc.TestCases)); err != nil {
			return nil, err
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func (e *Engine) execute(name string, doc *Document) ([]byte, error) {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// validateGherkin parses data and checks that it has one scenario per test case
func validateGherkin(data []byte, wantScenarios int) error {
	document, err := gherkin.ParseGherkinDocument(bytes.NewReader(data), (&messages.Incrementing{}).NewId)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGherkin, err)
	}
	if document.Feature == nil {
		return fmt.Errorf("%w: no feature", ErrInvalidGherkin)
	}

	scenarios := 0
	for _, child := range document.Feature.Children {
		if child.Scenario != nil {
			scenarios++
		}
	}
	if scenarios != wantScenarios {
		return fmt.Errorf("%w: got %d scenarios, want %d", ErrInvalidGherkin, scenarios, wantScenarios)
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add1": func(i int) int {
			return i + 1
		},
		"timestamp": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"line":     singleLine,
		"cell":     tableCell,
		"comments": commentLines,
	}
}

// singleLine joins s into one non-empty line
func singleLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return emptyStepText
	}
	return s
}

// tableCell makes s safe for a markdown table cell
func tableCell(s string) string {
	return strings.ReplaceAll(singleLine(s), "|", `\|`)
}

// commentLines splits s into trimmed non-empty lines
func commentLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
