package tabeval

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Warning is a non-fatal issue met during a run, such as a polygon that had
// to be repaired or a cell reaching outside its page image. The run still
// succeeded but the affected scores may be degraded.
type Warning struct {
	Message  string
	File     string // prediction file name, when known
	Revision string // revision being scored, when known
	Fields   map[string]any
}

// String renders the warning on one line.
func (w Warning) String() string {
	var b strings.Builder
	if w.File != "" {
		b.WriteString(w.File)
		if w.Revision != "" {
			fmt.Fprintf(&b, " [%s]", w.Revision)
		}
		b.WriteString(": ")
	}
	b.WriteString(w.Message)

	keys := make([]string, 0, len(w.Fields))
	for k := range w.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, w.Fields[k])
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	return b.String()
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = "- " + w.String()
	}
	return strings.Join(lines, "\n")
}

// warningCollector is a zerolog.LevelWriter that turns warn and error
// events into Warnings.
type warningCollector struct {
	mu       sync.Mutex
	warnings []Warning
}

func (c *warningCollector) Write(p []byte) (int, error) {
	return len(p), nil
}

func (c *warningCollector) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < zerolog.WarnLevel || level == zerolog.NoLevel {
		return len(p), nil
	}

	var fields map[string]any
	if err := json.Unmarshal(p, &fields); err != nil {
		return len(p), nil
	}

	w := Warning{
		Message:  take(fields, zerolog.MessageFieldName),
		File:     take(fields, "file"),
		Revision: take(fields, "revision"),
	}
	delete(fields, zerolog.LevelFieldName)
	delete(fields, zerolog.TimestampFieldName)
	if len(fields) > 0 {
		w.Fields = fields
	}

	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
	return len(p), nil
}

// Warnings returns a copy of the collected warnings.
func (c *warningCollector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Warning(nil), c.warnings...)
}

// take removes key from fields and returns it as a string.
func take(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	delete(fields, key)
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
