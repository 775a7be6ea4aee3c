package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/sixdof/internal/sim"
)

type ExportData struct {
	Name     string             `json:"name"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Samples  []sim.Sample       `json:"samples"`
	Metrics  map[string]float64 `json:"metrics"`
}

func ExportJSON(path string, name string, cfg sim.Config, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportJSON(file, name, cfg, result)
}

func ExportJSONStdout(name string, cfg sim.Config, result *sim.Result) error {
	return exportJSON(os.Stdout, name, cfg, result)
}

func exportJSON(w io.Writer, name string, cfg sim.Config, result *sim.Result) error {
	data := ExportData{
		Name:     name,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    result.StepsTaken,
		Samples:  result.Samples,
		Metrics:  result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
