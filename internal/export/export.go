// Package export writes analysis results to disk as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lumehq/customeriq/backend/internal/contracts"
)

// WriteJSON marshals data with indentation into filename, creating parent
// directories as needed.
func WriteJSON(filename string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// TimestampedFilename joins baseDir, name and a timestamp into a unique
// export path with the given extension ("json" or "csv").
func TimestampedFilename(baseDir, name, ext string) string {
	t := time.Now().Format("20060102_150405")
	return filepath.Join(baseDir, fmt.Sprintf("%s_%s.%s", name, t, ext))
}

// WriteSegmentsCSV writes one row per customer assignment.
func WriteSegmentsCSV(filename string, result *contracts.SegmentationResult) error {
	return writeCSV(filename, func(w *csv.Writer) error {
		header := []string{
			"customer_id", "recency_score", "frequency_score", "monetary_score",
			"rfm_score", "segment", "behavior_segment", "clv_tier",
			"churn_risk", "lifecycle_stage", "is_churned",
		}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, a := range result.Assignments {
			row := []string{
				a.CustomerID,
				strconv.Itoa(a.RecencyScore),
				strconv.Itoa(a.FrequencyScore),
				strconv.Itoa(a.MonetaryScore),
				strconv.Itoa(a.RFMScore),
				string(a.Segment),
				string(a.BehaviorSegment),
				string(a.CLVTier),
				string(a.ChurnRisk),
				string(a.LifecycleStage),
				strconv.FormatBool(a.IsChurned),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteRetentionCSV writes the retention matrix with one row per cohort. The
// first column is the cohort month, followed by retention rates per elapsed
// month; undefined cells are left empty.
func WriteRetentionCSV(filename string, result *contracts.RetentionResult) error {
	return writeCSV(filename, func(w *csv.Writer) error {
		m := result.Matrix
		if m == nil {
			return w.Write([]string{"cohort"})
		}
		header := []string{"cohort"}
		for i := 0; i <= m.MaxElapsed; i++ {
			header = append(header, fmt.Sprintf("month_%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, cohort := range m.Cohorts {
			row := []string{cohort.Format("2006-01")}
			for i := 0; i <= m.MaxElapsed; i++ {
				if rate, ok := m.Rate(cohort, i); ok {
					row = append(row, strconv.FormatFloat(rate, 'f', 1, 64))
				} else {
					row = append(row, "")
				}
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(filename string, body func(*csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := body(w); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}
	w.Flush()
	return w.Error()
}
