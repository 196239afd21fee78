package report

import (
	"os"

	"github.com/IvanShishkin/logwatch/pkg/models"
	"gopkg.in/yaml.v3"
)

// generateYAML generates a YAML report
func (g *Generator) generateYAML(report *models.ScanReport, outputFile string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	return os.WriteFile(outputFile, data, 0644)
}
