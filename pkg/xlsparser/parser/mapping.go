package parser

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nzo-il/data-acquisition/pkg/xlsparser/models"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// LoadMapping reads (raw name, category) pairs from path. The format follows
// the extension: .csv and .xlsx hold two columns with a header row that is
// skipped; .json holds a single object whose key order is preserved.
func LoadMapping(path string) ([]models.Pair, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w: %s", ErrMappingInvalid, ErrFileNotFound, path)
	}

	var (
		pairs []models.Pair
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		pairs, err = loadMappingCSV(path)
	case ".xlsx", ".xlsm":
		pairs, err = loadMappingXLSX(path)
	case ".json":
		pairs, err = loadMappingJSON(path)
	default:
		err = fmt.Errorf("unsupported mapping format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMappingInvalid, path, err)
	}
	return pairs, nil
}

func loadMappingCSV(path string) ([]models.Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return pairsFromRows(rows)
}

func loadMappingXLSX(path string) ([]models.Pair, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return pairsFromRows(rows)
}

// pairsFromRows skips the header row and blank rows. Every other row needs a
// name and a category in its first two columns.
func pairsFromRows(rows [][]string) ([]models.Pair, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty mapping")
	}
	var pairs []models.Pair
	for i, row := range rows[1:] {
		line := i + 2
		if isBlankRow(row) {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: want 2 columns, got %d", line, len(row))
		}
		name := models.NormalizeName(row[0])
		category := models.NormalizeName(row[1])
		if name == "" || category == "" {
			return nil, fmt.Errorf("row %d: empty name or category", line)
		}
		pairs = append(pairs, models.Pair{Name: name, Category: category})
	}
	return pairs, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// loadMappingJSON streams the object so that entries keep file order.
func loadMappingJSON(path string) ([]models.Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected a JSON object")
	}

	var pairs []models.Pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var category string
		if err := dec.Decode(&category); err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		name = models.NormalizeName(name)
		category = models.NormalizeName(category)
		if name == "" || category == "" {
			return nil, fmt.Errorf("entry %q: empty name or category", name)
		}
		pairs = append(pairs, models.Pair{Name: name, Category: category})
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return pairs, nil
}

// LoadAliases reads a YAML map of alias to canonical raw name.
func LoadAliases(path string) (models.Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: aliases: %w", ErrMappingInvalid, err)
	}
	aliases := models.Aliases{}
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("%w: aliases %s: %v", ErrMappingInvalid, path, err)
	}
	return aliases, nil
}
