package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/rigid2d/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

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
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Ticks      uint64             `json:"ticks"`
	Gravity    float64            `json:"gravity"`
	Dt         float64            `json:"dt"`
	Integrator string             `json:"integrator"`
	Boundary   string             `json:"boundary,omitempty"`
	Circles    int                `json:"circles"`
	Rects      int                `json:"rects"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Save writes a run directory and returns its id. ID, Timestamp, Ticks,
// body counts and metrics are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scene, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Ticks = result.TicksTaken
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	if len(result.Frames) > 0 {
		meta.Circles = len(result.Frames[0].Circles)
		meta.Rects = len(result.Frames[0].Rects)
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteStates(csvFile, result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteStates writes one CSV row per frame: the tick followed by position
// and velocity of every circle, then every rectangle.
func WriteStates(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)
	if len(frames) == 0 {
		w.Flush()
		return w.Error()
	}

	first := frames[0]
	header := []string{"tick"}
	for i := range first.Circles {
		header = append(header, bodyColumns("c", i)...)
	}
	for i := range first.Rects {
		header = append(header, bodyColumns("r", i)...)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := make([]string, 1, len(header))
		row[0] = strconv.FormatUint(f.Tick, 10)
		for _, c := range f.Circles {
			row = append(row, formatFloats(c.Position.X, c.Position.Y, c.Velocity.X, c.Velocity.Y)...)
		}
		for _, r := range f.Rects {
			row = append(row, formatFloats(r.Position.X, r.Position.Y, r.Velocity.X, r.Velocity.Y)...)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func bodyColumns(prefix string, i int) []string {
	return []string{
		fmt.Sprintf("%s%d_x", prefix, i),
		fmt.Sprintf("%s%d_y", prefix, i),
		fmt.Sprintf("%s%d_vx", prefix, i),
		fmt.Sprintf("%s%d_vy", prefix, i),
	}
}

func formatFloats(vals ...float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return out
}

// List returns every readable run, oldest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// States is the parsed content of states.csv.
type States struct {
	Header []string
	Ticks  []uint64
	Rows   [][]float64
}

// Column returns the series for a named column such as "c0_y".
func (st *States) Column(name string) ([]float64, bool) {
	idx := -1
	for i, h := range st.Header {
		if h == name {
			idx = i - 1
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	out := make([]float64, 0, len(st.Rows))
	for _, row := range st.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out, true
}

func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}

func (s *Store) LoadStates(runID string) (*States, error) {
	file, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	st := &States{}
	if len(records) == 0 {
		return st, nil
	}
	st.Header = records[0]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		tick, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("states %s: bad tick %q: %w", runID, record[0], err)
		}

		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("states %s: tick %d: %w", runID, tick, err)
			}
			row = append(row, val)
		}
		st.Ticks = append(st.Ticks, tick)
		st.Rows = append(st.Rows, row)
	}
	return st, nil
}
