package export

import (
	"fmt"
	"io"

	"github.com/michael-freling/testcase-generator/internal/logging"
)

// Exporter renders documents and writes them to a stream or a file
type Exporter struct {
	engine *Engine
	writer *FileWriter
	logger logging.Logger
}

// Option configures an Exporter
type Option func(*Exporter)

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithEngine overrides the template engine
func WithEngine(engine *Engine) Option {
	return func(e *Exporter) {
		e.engine = engine
	}
}

// New creates an Exporter with the embedded templates
func New(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		writer: NewFileWriter(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.engine == nil {
		engine, err := NewEngine()
		if err != nil {
			return nil, err
		}
		e.engine = engine
	}
	return e, nil
}

// Write renders doc to out
func (e *Exporter) Write(out io.Writer, format Format, doc *Document) error {
	data, err := e.engine.Render(format, doc)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteFile renders doc and writes it to path. An empty format is inferred from the extension.
func (e *Exporter) WriteFile(path string, format Format, doc *Document) error {
	if format == "" {
		inferred, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		format = inferred
	}

	data, err := e.engine.Render(format, doc)
	if err != nil {
		return err
	}
	if err := e.writer.WriteFile(path, data); err != nil {
		return err
	}

	e.logger.Info("exported result", "path", path, "format", format, "kind", doc.Kind, "bytes", len(data))
	return nil
}
