package report

import (
	"encoding/json"
	"os"

	"github.com/IvanShishkin/logwatch/pkg/models"
)

// generateJSON generates a JSON report
func (g *Generator) generateJSON(report *models.ScanReport, outputFile string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(outputFile, data, 0644)
}
