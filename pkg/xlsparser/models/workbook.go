package models

// Source identifies where a grid was read from.
type Source struct {
	// Path is the workbook path as given.
	Path string `json:"path"`
	// SheetName is the resolved sheet name.
	SheetName string `json:"sheet_name"`
}

// Report lists the names that did not line up between data and mapping.
// Both lists are sorted.
type Report struct {
	Source Source `json:"source"`
	// Range is the extracted block in A1 notation, empty if unknown.
	Range string `json:"range,omitempty"`
	// Unmapped are extracted column names absent from the mapping.
	Unmapped []string `json:"unmapped"`
	// Unused are mapping names absent from the extracted data.
	Unused []string `json:"unused"`
}
