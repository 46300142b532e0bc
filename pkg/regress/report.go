package regress

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// Report is the JSON document written by WriteReport
type Report struct {
	Generated time.Time `json:"generated"`
	Total     int       `json:"total"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Results   []Result  `json:"results"`
}

func NewReport(results []Result) Report {
	rep := Report{Generated: time.Now().UTC(), Total: len(results), Results: results}
	for _, r := range results {
		if r.Passed {
			rep.Passed++
		} else {
			rep.Failed++
		}
	}
	return rep
}

// WriteReport writes results as indented JSON
func WriteReport(path string, results []Result) error {
	data, err := sonic.ConfigStd.MarshalIndent(NewReport(results), "", "  ")
	if err != nil {
		return fmt.Errorf("regress: encoding report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("regress: writing report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("regress: writing report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport
func ReadReport(path string) (Report, error) {
	var rep Report
	data, err := os.ReadFile(path)
	if err != nil {
		return rep, fmt.Errorf("regress: reading report: %w", err)
	}
	if err := sonic.Unmarshal(data, &rep); err != nil {
		return rep, fmt.Errorf("regress: decoding report %s: %w", path, err)
	}
	return rep, nil
}
