package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/engine"
)

// ============================================================================
// OUTPUT
// ============================================================================

const (
	formatJSON   = "json"
	formatPretty = "pretty"
	formatText   = "text"
	formatCSV    = "csv"
)

// emit runs write against --out, or the command's stdout.
func emit(cmd *cobra.Command, write func(w io.Writer) error) error {
	if outFile == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("output written", zap.String("path", outFile))
	return nil
}

func writeResult(w io.Writer, format string, res engine.Result) error {
	switch format {
	case formatJSON, formatPretty:
		return writeJSON(w, res, format)
	case formatCSV:
		return writeResultCSV(w, res)
	default:
		return writeResultText(w, res)
	}
}

func writeLines(w io.Writer, format string, lines []string) error {
	switch format {
	case formatJSON, formatPretty:
		return writeJSON(w, map[string][]string{"insights": lines}, format)
	case formatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"Insight"})
		for _, l := range lines {
			cw.Write([]string{l})
		}
		cw.Flush()
		return cw.Error()
	default:
		for _, l := range lines {
			if _, err := fmt.Fprintf(w, "• %s\n", l); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeRecommendations(w io.Writer, format string, recs []engine.Recommendation) error {
	switch format {
	case formatJSON, formatPretty:
		return writeJSON(w, map[string][]engine.Recommendation{"recommendations": recs}, format)
	case formatCSV:
		cw := csv.NewWriter(w)
		cw.Write([]string{"Title", "Author", "Genre", "Reason"})
		for _, r := range recs {
			cw.Write([]string{r.Title, r.Author, string(r.Genre), r.Reason})
		}
		cw.Flush()
		return cw.Error()
	default:
		if len(recs) == 0 {
			_, err := fmt.Fprintln(w, "No recommendations yet.")
			return err
		}
		for _, r := range recs {
			if _, err := fmt.Fprintf(w, "%s by %s (%s): %s\n", r.Title, r.Author, r.Genre, r.Reason); err != nil {
				return err
			}
		}
		return nil
	}
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

// writeResultCSV writes a table with its column header, or a text answer
// as a single-row CSV.
func writeResultCSV(w io.Writer, res engine.Result) error {
	cw := csv.NewWriter(w)

	if res.IsTable() {
		cols := res.Columns()
		if len(cols) == 0 {
			cols = []string{"Result"}
		}
		cw.Write(cols)
		for _, row := range res.Rows {
			record := make([]string, len(cols))
			for i, col := range cols {
				v, _ := row.Get(col)
				record[i] = cell(v)
			}
			cw.Write(record)
		}
	} else {
		cw.Write([]string{"Answer"})
		cw.Write([]string{res.Text})
	}

	cw.Flush()
	return cw.Error()
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

// writeResultText prints a text answer as-is and a table as aligned columns.
func writeResultText(w io.Writer, res engine.Result) error {
	if !res.IsTable() {
		_, err := fmt.Fprintln(w, res.Text)
		return err
	}

	cols := res.Columns()
	if len(res.Rows) == 0 || len(cols) == 0 {
		_, err := fmt.Fprintln(w, "No rows.")
		return err
	}

	widths := make([]int, len(cols))
	cells := make([][]string, len(res.Rows))
	for i, col := range cols {
		widths[i] = len(col)
	}
	for r, row := range res.Rows {
		cells[r] = make([]string, len(cols))
		for i, col := range cols {
			v, _ := row.Get(col)
			cells[r][i] = cell(v)
			if n := len(cells[r][i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(vals []string) error {
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = fmt.Sprintf("%-*s", widths[i], v)
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
		return err
	}

	if err := line(cols); err != nil {
		return err
	}
	for _, rec := range cells {
		if err := line(rec); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == formatPretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// HELPERS
// ============================================================================

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmtNum(x)
	default:
		return fmt.Sprint(x)
	}
}

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
