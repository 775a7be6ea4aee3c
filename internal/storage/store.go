package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/sixdof/internal/sim"
)

// StateColumns names the per-sample CSV columns after the leading time column.
var StateColumns = []string{
	"px", "py", "pz",
	"vx", "vy", "vz",
	"qw", "qx", "qy", "qz",
	"wx", "wy", "wz",
	"mass",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(name string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := append([]string{"time"}, StateColumns...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sample := range result.Samples {
		if err := w.Write(sampleRow(sample)); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func sampleRow(s sim.Sample) []string {
	vals := []float64{
		s.Time,
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		s.Orientation.Real, s.Orientation.Imag, s.Orientation.Jmag, s.Orientation.Kmag,
		s.AngularVelocity.X, s.AngularVelocity.Y, s.AngularVelocity.Z,
		s.Mass,
	}
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return row
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads back the per-sample rows of a stored run. States are
// returned in column order StateColumns, times separately.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return states, times, nil
}
