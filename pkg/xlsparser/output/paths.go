// Package output renders aggregated series and reports and persists them.
package output

import (
	"path/filepath"
	"strings"
)

// spreadsheetExts are the input extensions replaced by ".csv".
var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

// DerivePath maps an input workbook path to its CSV output path: a leading
// inputRoot directory is replaced by outputRoot and the spreadsheet extension
// by ".csv". Paths outside inputRoot keep their directory.
func DerivePath(input, inputRoot, outputRoot string) string {
	p := filepath.ToSlash(input)
	in := strings.TrimSuffix(filepath.ToSlash(inputRoot), "/")
	out := strings.TrimSuffix(filepath.ToSlash(outputRoot), "/")

	if in != "" && strings.HasPrefix(p, in+"/") {
		p = out + "/" + strings.TrimPrefix(p, in+"/")
	}

	ext := filepath.Ext(p)
	if spreadsheetExts[strings.ToLower(ext)] {
		p = strings.TrimSuffix(p, ext)
	}
	return filepath.FromSlash(p + ".csv")
}

// HourPath inserts "_hour" before the extension of path.
func HourPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_hour" + ext
}

// ReportPath replaces the extension of path with ext.
func ReportPath(path, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
