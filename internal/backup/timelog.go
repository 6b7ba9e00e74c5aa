package backup

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/tracker"
)

const timeLogSheet = "Time Log"

var timeLogHeader = []string{"Project", "Date", "Hours", "Notes"}

// TimeLogCSV renders the entries dated within [start, end], oldest first,
// followed by a TOTAL row. Project name and notes are always quoted.
func TimeLogCSV(p models.Project, start, end string) ([]byte, error) {
	entries, err := tracker.EntriesBetween(p, start, end)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(timeLogHeader, ","))
	buf.WriteByte('\n')
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s,%s,%s,%s\n",
			quote(p.Name), e.Date, strconv.FormatFloat(e.Hours, 'f', -1, 64), quote(e.Note))
	}
	fmt.Fprintf(&buf, "%s,,%.2f,\n", quote("TOTAL"), tracker.TotalHours(entries))
	return buf.Bytes(), nil
}

// TimeLogXLSX writes the same rows as TimeLogCSV into a workbook.
func TimeLogXLSX(p models.Project, start, end string) ([]byte, error) {
	entries, err := tracker.EntriesBetween(p, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", timeLogSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	for i, h := range timeLogHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(timeLogSheet, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(timeLogSheet, "A1", "D1", bold); err != nil {
		return nil, err
	}

	row := 2
	for _, e := range entries {
		values := []any{p.Name, e.Date, e.Hours, e.Note}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(timeLogSheet, cell, v); err != nil {
				return nil, err
			}
		}
		row++
	}

	if err := f.SetCellValue(timeLogSheet, fmt.Sprintf("A%d", row), "TOTAL"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(timeLogSheet, fmt.Sprintf("C%d", row), round2(tracker.TotalHours(entries))); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(timeLogSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(timeLogSheet, "A", "A", 30)
	_ = f.SetColWidth(timeLogSheet, "B", "C", 12)
	_ = f.SetColWidth(timeLogSheet, "D", "D", 50)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// TimeLogFilename builds time-log-<slug>-<start>_<end>.<ext>.
func TimeLogFilename(p models.Project, start, end, ext string) string {
	return fmt.Sprintf("time-log-%s-%s_%s.%s", Slug(p.Name, constants.SlugMaxLen), start, end, ext)
}

// Slug lowercases name, collapses every run of other characters into a
// single hyphen and cuts the result to maxLen.
func Slug(name string, maxLen int) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	slug := b.String()
	if len(slug) > maxLen {
		slug = strings.TrimRight(slug[:maxLen], "-")
	}
	if slug == "" {
		return "project"
	}
	return slug
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
