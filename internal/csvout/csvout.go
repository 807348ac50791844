// Package csvout writes a scheduled Timeline out as the CSV format described
// in §6 ("Outputs — Timeline CSV"): one row per event, a required header row,
// and a filename that encodes the run's parameters.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/anonymousuni/cats/internal/timeline"
)

// Params names the run parameters baked into the output filename (§12.5).
type Params struct {
	Prefix         string
	TimestampUnix  int64
	Deadline       float64
	Budget         float64
	InputVolumeMB  float64
	MaxScalability int
}

// FileName builds the filename convention:
// timeline_<prefix>_<timestamp>_deadline<d>_budget<b>_input<v>MB_maxscalability<k>.csv
func FileName(p Params) string {
	return fmt.Sprintf(
		"timeline_%s_%d_deadline%g_budget%g_input%gMB_maxscalability%d.csv",
		p.Prefix, p.TimestampUnix, p.Deadline, p.Budget, p.InputVolumeMB, p.MaxScalability,
	)
}

var header = []string{"step", "start_position_s", "end_position_s", "resource", "reserved_cpu_percent", "reserved_memory_mb"}

// Write renders tl as CSV rows (one per event, sorted by start position then
// step name for deterministic output) to w, header row first.
func Write(w *csv.Writer, tl *timeline.Timeline) error {
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csvout: write header: %w", err)
	}

	events := make([]timeline.Event, len(tl.Events))
	copy(events, tl.Events)
	sort.Slice(events, func(i, j int) bool {
		if events[i].Position != events[j].Position {
			return events[i].Position < events[j].Position
		}
		return events[i].Step < events[j].Step
	})

	for _, e := range events {
		row := []string{
			e.Step,
			fmt.Sprintf("%g", e.Position),
			fmt.Sprintf("%g", e.Finish()),
			e.Reservation.Resource,
			fmt.Sprintf("%g", e.Reservation.CPUPercent),
			fmt.Sprintf("%g", e.Reservation.MemoryMB),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csvout: write row for step %q: %w", e.Step, err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteFile creates dir/FileName(params) and writes tl into it.
func WriteFile(dir string, params Params, tl *timeline.Timeline) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("csvout: create output dir: %w", err)
	}

	path := filepath.Join(dir, FileName(params))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csvout: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := Write(w, tl); err != nil {
		return "", err
	}
	return path, nil
}
