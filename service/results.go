package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rssz/models"
	"rssz/render"
)

// ResultsStorage keeps exported tables on disk as JSON or CSV files.
type ResultsStorage struct {
	resultsDir string
}

func NewResultsStorage(resultsDir string) (*ResultsStorage, error) {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	return &ResultsStorage{resultsDir: resultsDir}, nil
}

// GenerateFileName creates a unique filename with timestamp
func (r *ResultsStorage) GenerateFileName(kind, format string) string {
	now := time.Now()
	return fmt.Sprintf("result_%s_%s_%d.%s", kind, now.Format("20060102_150405"), now.UnixNano(), format)
}

// Save writes display in the given format ("json" or "csv") and returns the file name.
func (r *ResultsStorage) Save(display *models.Display, format string) (string, error) {
	if display.Empty() {
		return "", fmt.Errorf("nothing to export")
	}

	switch format {
	case "csv":
		return r.SaveAsCSV(display)
	case "", "json":
		return r.SaveAsJSON(display)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// SaveAsJSON saves the table with its metadata as JSON
func (r *ResultsStorage) SaveAsJSON(display *models.Display) (string, error) {
	filename := r.GenerateFileName(display.Kind, "json")
	filePath := filepath.Join(r.resultsDir, filename)

	resultData := models.ResultFile{
		Filename:  filename,
		Kind:      display.Kind,
		Term:      display.Term,
		Timestamp: time.Now().Format(time.RFC3339),
		Table:     display.Table,
		RowCount:  display.RowCount,
	}

	data, err := json.MarshalIndent(resultData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filename, nil
}

// SaveAsCSV saves the table as plain-text CSV
func (r *ResultsStorage) SaveAsCSV(display *models.Display) (string, error) {
	filename := r.GenerateFileName(display.Kind, "csv")
	filePath := filepath.Join(r.resultsDir, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(render.Headers(display.Table)); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(render.PlainRows(display.Table)); err != nil {
		return "", fmt.Errorf("failed to write CSV rows: %w", err)
	}

	return filename, nil
}

// GetResultFile reads an exported file back
func (r *ResultsStorage) GetResultFile(filename string) (*models.ResultFile, error) {
	filePath, err := r.path(filename)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(filename) {
	case ".json":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}

		var result models.ResultFile
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
		return &result, nil

	case ".csv":
		file, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()

		records, err := csv.NewReader(file).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat CSV: %w", err)
		}

		table := &models.TableSpec{Columns: []models.ColumnSpec{}, Rows: [][]models.CellSpec{}}
		if len(records) > 0 {
			for _, label := range records[0] {
				table.Columns = append(table.Columns, models.ColumnSpec{Label: label})
			}
			for _, record := range records[1:] {
				row := make([]models.CellSpec, len(record))
				for i, val := range record {
					row[i] = models.CellSpec{Kind: models.TextCell, Text: render.EscapeHTML(val)}
				}
				table.Rows = append(table.Rows, row)
			}
		}

		return &models.ResultFile{
			Filename:  filename,
			Timestamp: info.ModTime().Format(time.RFC3339),
			Table:     table,
			RowCount:  len(table.Rows),
		}, nil
	}

	return nil, fmt.Errorf("unsupported file format")
}

// ListResultFiles returns all exported files
func (r *ResultsStorage) ListResultFiles() ([]models.ResultFileInfo, error) {
	files, err := os.ReadDir(r.resultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	resultFiles := []models.ResultFileInfo{}
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := filepath.Ext(file.Name())
		if ext != ".json" && ext != ".csv" {
			continue
		}

		info, err := file.Info()
		if err != nil {
			continue
		}

		resultFiles = append(resultFiles, models.ResultFileInfo{
			Filename: file.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().Format(time.RFC3339),
			Format:   ext[1:],
		})
	}

	return resultFiles, nil
}

// path resolves filename inside the results directory, refusing anything else.
func (r *ResultsStorage) path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid file name %q", filename)
	}
	return filepath.Join(r.resultsDir, filename), nil
}
