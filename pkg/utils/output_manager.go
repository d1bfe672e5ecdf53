package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	csvDir         = "csv"
	spreadsheetDir = "spreadsheets"
)

// OutputManager handles the report directory layout under a base output dir
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// EnsureLayout creates the csv/ and spreadsheets/ directories if absent
func (om *OutputManager) EnsureLayout() error {
	for _, dir := range []string{om.CSVDir(), om.SpreadsheetDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}

func (om *OutputManager) CSVDir() string {
	return filepath.Join(om.BaseOutputDir, csvDir)
}

func (om *OutputManager) SpreadsheetDir() string {
	return filepath.Join(om.BaseOutputDir, spreadsheetDir)
}

// YearlyCSVPath returns <base>/csv/Yearly_Summary_<year>.csv
func (om *OutputManager) YearlyCSVPath(year int) string {
	return filepath.Join(om.CSVDir(), fmt.Sprintf("Yearly_Summary_%d.csv", year))
}

// YearlyWorkbookPath returns <base>/spreadsheets/Yearly_Summary_<year>.xlsx
func (om *OutputManager) YearlyWorkbookPath(year int) string {
	return filepath.Join(om.SpreadsheetDir(), fmt.Sprintf("Yearly_Summary_%d.xlsx", year))
}

func (om *OutputManager) CustomerCSVPath() string {
	return filepath.Join(om.CSVDir(), "Customer_Summary.csv")
}

func (om *OutputManager) CustomerWorkbookPath() string {
	return filepath.Join(om.SpreadsheetDir(), "Customer_Summary.xlsx")
}

// GetFileType determines the file type based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".xlsx", ".xls":
		return "excel"
	case ".db", ".sqlite":
		return "sqlite"
	default:
		return "unknown"
	}
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
