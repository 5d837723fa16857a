package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// RunRecord is one finished level or run as stored on the leaderboard.
type RunRecord struct {
	Score     int     `csv:"score"`
	Level     int     `csv:"level"`
	Fuel      float64 `csv:"fuel"`
	Coins     int     `csv:"coins"`
	Outcome   string  `csv:"outcome"` // level_complete, collision, fuel_exhausted
	Tick      int64   `csv:"tick"`
	Seed      uint64  `csv:"seed"`
	Timestamp string  `csv:"timestamp"`
}

// Leaderboard keeps the best runs, highest score first.
// Ties break on level, then on earlier tick.
type Leaderboard struct {
	size    int
	records []RunRecord
}

// NewLeaderboard creates an empty board holding at most size records.
func NewLeaderboard(size int) *Leaderboard {
	if size < 1 {
		size = 10
	}
	return &Leaderboard{size: size}
}

// Merge inserts a record and returns its 1-based rank, or 0 if it did not place.
func (lb *Leaderboard) Merge(r RunRecord) int {
	lb.records = append(lb.records, r)
	sort.SliceStable(lb.records, func(i, j int) bool {
		a, b := lb.records[i], lb.records[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.Tick < b.Tick
	})

	rank := 0
	for i := range lb.records {
		if lb.records[i] == r {
			rank = i + 1
			break
		}
	}
	if len(lb.records) > lb.size {
		lb.records = lb.records[:lb.size]
		if rank > lb.size {
			rank = 0
		}
	}
	return rank
}

// Records returns a copy of the board, best first.
func (lb *Leaderboard) Records() []RunRecord {
	out := make([]RunRecord, len(lb.records))
	copy(out, lb.records)
	return out
}

// Best returns the top record, if any.
func (lb *Leaderboard) Best() (RunRecord, bool) {
	if len(lb.records) == 0 {
		return RunRecord{}, false
	}
	return lb.records[0], true
}

// Save writes the board to path as CSV.
func (lb *Leaderboard) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating leaderboard: %w", err)
	}
	defer f.Close()

	records := lb.records
	if records == nil {
		records = []RunRecord{}
	}
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing leaderboard: %w", err)
	}
	return nil
}

// LoadLeaderboard reads a board from path. A missing file yields an empty board.
func LoadLeaderboard(path string, size int) (*Leaderboard, error) {
	lb := NewLeaderboard(size)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return lb, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening leaderboard: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	for _, r := range records {
		lb.Merge(r)
	}
	return lb, nil
}
