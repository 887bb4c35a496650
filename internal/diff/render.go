package diff

import (
	"fmt"
	"io"
)

// ANSI color codes for human-readable output
const (
	colorGreen  = "\033[92m"
	colorRed    = "\033[91m"
	colorYellow = "\033[93m"
	colorBlue   = "\033[94m"
	colorReset  = "\033[0m"
)

// RenderText writes the report in human-readable form. Colors are ANSI
// escapes; pass color=false for plain output (pipes, logs).
func (r *ChangeReport) RenderText(w io.Writer, color bool) {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	fmt.Fprintf(w, "Comparing snapshots: %s -> %s\n",
		paint(colorYellow, shortFingerprint(r.OldFingerprint)),
		paint(colorYellow, shortFingerprint(r.NewFingerprint)))
	fmt.Fprintln(w, "---")

	if r.Empty() {
		fmt.Fprintln(w, "No differences found between the two snapshots.")
		fmt.Fprintln(w, "---")
		return
	}

	for _, id := range r.Added {
		fmt.Fprintf(w, "%s\n", paint(colorBlue, fmt.Sprintf("[ADDED] Model: %q", id)))
	}
	for _, id := range r.Removed {
		fmt.Fprintf(w, "%s\n", paint(colorBlue, fmt.Sprintf("[REMOVED] Model: %q", id)))
	}
	for _, change := range r.Modified {
		tag := "[CHANGE]"
		tagColor := colorBlue
		if isDeprecation(change) {
			tag = "[DEPRECATED]"
			tagColor = colorYellow
		}
		fmt.Fprintf(w, "%s\n", paint(tagColor, fmt.Sprintf("%s Model: %q", tag, change.ID)))

		for _, field := range change.ChangedFields {
			fmt.Fprintf(w, "%s\n", paint(colorRed, fmt.Sprintf("  - %s: %s", field.Field, orNone(field.Old))))
			fmt.Fprintf(w, "%s\n", paint(colorGreen, fmt.Sprintf("  + %s: %s", field.Field, orNone(field.New))))
		}
	}
	fmt.Fprintln(w, "---")
}

// isDeprecation reports whether the change marks a previously active model
// as deprecated
func isDeprecation(change ModelChange) bool {
	for _, field := range change.ChangedFields {
		if field.Field == "deprecated" && field.Old == "false" && field.New == "true" {
			return true
		}
	}
	return false
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
