package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how structured results are rendered.
type OutputFormat string

const (
	// FormatYAML renders results as YAML, the default for a terminal.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON renders results as indented JSON (--json).
	FormatJSON OutputFormat = "json"
)

// Output renders a structured result (a recognition verdict, quiz round,
// task list) to stdout, or to file when non-empty.
func Output(result any, format OutputFormat, file string) error {
	var w io.Writer = os.Stdout
	if file != "" {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("cli: create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return Fprint(w, result, format)
}

// Fprint renders a structured result to w.
func Fprint(w io.Writer, result any, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("cli: render output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("cli: unsupported output format %q", format)
	}
}

// OutputBytes writes a binary payload to a file. Voice samples and avatar
// assets fetched from the backend are saved this way.
func OutputBytes(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("cli: output file path required for binary data")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cli: write output: %w", err)
	}
	return nil
}

// FormatSize renders a payload size the way the transcript annotates voice
// samples: bytes up to 1 KB, otherwise one decimal of KB or MB. Samples
// never reach GB.
func FormatSize(n int) string {
	const (
		kb = 1024
		mb = kb * 1024
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatLatency renders a round-trip duration: whole milliseconds under a
// second, one decimal of seconds above.
func FormatLatency(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Terminal message helpers.

// PrintSuccess prints a confirmation line.
func PrintSuccess(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

// PrintError prints an error line to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// PrintInfo prints an informational line.
func PrintInfo(format string, args ...any) {
	fmt.Printf("ℹ "+format+"\n", args...)
}

// PrintWarning prints a warning line.
func PrintWarning(format string, args ...any) {
	fmt.Printf("⚠ "+format+"\n", args...)
}

// PrintVerbose prints a diagnostic line to stderr when verbose is on.
func PrintVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
