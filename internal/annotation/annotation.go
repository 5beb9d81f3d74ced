// Package annotation writes GitHub Actions workflow commands so that gate
// diagnostics show up as error, warning and notice annotations in CI logs.
package annotation

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rxtech-lab/shopware-version-gate/internal/compat"
)

// Level is the workflow command used for an annotation.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelNotice  Level = "notice"
)

// escaper encodes the characters the runner treats as command delimiters.
var escaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// Writer emits annotation and plain lines to an underlying writer.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a Writer that writes to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		mu:  sync.Mutex{},
		out: out,
	}
}

// Error writes an ::error annotation.
func (w *Writer) Error(message string) {
	w.Annotate(LevelError, message)
}

// Warning writes a ::warning annotation.
func (w *Writer) Warning(message string) {
	w.Annotate(LevelWarning, message)
}

// Notice writes a ::notice annotation.
func (w *Writer) Notice(message string) {
	w.Annotate(LevelNotice, message)
}

// Annotate writes a single "::<level> ::<message>" line.
func (w *Writer) Annotate(level Level, message string) {
	w.writeLine(fmt.Sprintf("::%s ::%s", level, escaper.Replace(message)))
}

// Finding writes a policy finding at its own severity.
func (w *Writer) Finding(f compat.Finding) {
	switch f.Severity {
	case compat.SeverityWarning:
		w.Warning(f.Message)
	default:
		w.Notice(f.Message)
	}
}

// Infof writes a plain informational line.
func (w *Writer) Infof(format string, args ...any) {
	w.writeLine(fmt.Sprintf(format, args...))
}

func (w *Writer) writeLine(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// stdout is the only sink; a failed write has nowhere better to go.
	_, _ = io.WriteString(w.out, line+"\n")
}
