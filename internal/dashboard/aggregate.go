package dashboard

import (
	"math"
	"sort"
	"strings"
	"time"

	apperrors "github.com/gmsas95/pulsetrack/internal/errors"
)

// Window selects the time range for aggregation.
type Window string

const (
	WindowToday   Window = "today"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
)

// ParseWindow validates a raw window selector.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(strings.TrimSpace(s))) {
	case WindowToday:
		return WindowToday, nil
	case WindowWeekly:
		return WindowWeekly, nil
	case WindowMonthly:
		return WindowMonthly, nil
	}
	return "", apperrors.New(apperrors.ErrBadWindow.Code, "unknown time window: "+s)
}

// Point is one aggregated chart point: a raw reading for the today window,
// a rounded bucket mean otherwise.
type Point struct {
	Label string `json:"label"`
	BPM   int    `json:"bpm"`
}

// Report is the derived view over a reading series for one window.
type Report struct {
	Window  Window             `json:"window"`
	Series  []Point            `json:"series"`
	History []HeartRateReading `json:"history"` // most recent first
	Alert   bool               `json:"alert"`   // any abnormal reading in window
}

// AggregateOptions tunes series and history sizes.
type AggregateOptions struct {
	ChartPoints int          // cap on raw points in the today window
	HistorySize int          // readings in the detail history
	WeekStart   time.Weekday // first day of a monthly bucket week
}

// DefaultAggregateOptions returns the dashboard defaults: 10 chart points,
// 5 history rows, weeks starting Sunday.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{ChartPoints: 10, HistorySize: 5, WeekStart: time.Sunday}
}

// Aggregate filters a reading series to the window around ref, buckets it,
// and returns the chart series plus recent history. An empty filtered set
// produces an empty report, not an error. Readings may arrive out of order;
// they are sorted by timestamp here, never at write time.
func Aggregate(readings []HeartRateReading, window Window, ref time.Time, opts AggregateOptions) Report {
	if opts.ChartPoints <= 0 {
		opts.ChartPoints = 10
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = 5
	}

	sorted := make([]HeartRateReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	filtered := filterWindow(sorted, window, ref)

	report := Report{
		Window:  window,
		Series:  []Point{},
		History: []HeartRateReading{},
		Alert:   AnyAbnormal(filtered),
	}
	if len(filtered) == 0 {
		return report
	}

	switch window {
	case WindowToday:
		report.Series = rawPoints(filtered, opts.ChartPoints)
	case WindowWeekly:
		report.Series = bucketize(filtered, ref, dayBucket)
	case WindowMonthly:
		report.Series = bucketize(filtered, ref, weekBucket(opts.WeekStart))
	}

	// History: most recent first, capped
	n := opts.HistorySize
	if n > len(filtered) {
		n = len(filtered)
	}
	for i := len(filtered) - 1; i >= len(filtered)-n; i-- {
		report.History = append(report.History, filtered[i])
	}

	return report
}

func filterWindow(sorted []HeartRateReading, window Window, ref time.Time) []HeartRateReading {
	var keep func(t time.Time) bool
	switch window {
	case WindowToday:
		y, m, d := ref.Date()
		keep = func(t time.Time) bool {
			ty, tm, td := t.In(ref.Location()).Date()
			return ty == y && tm == m && td == d
		}
	case WindowWeekly:
		cutoff := ref.AddDate(0, 0, -7)
		keep = func(t time.Time) bool { return !t.Before(cutoff) }
	case WindowMonthly:
		cutoff := ref.AddDate(0, 0, -30)
		keep = func(t time.Time) bool { return !t.Before(cutoff) }
	default:
		return nil
	}

	var out []HeartRateReading
	for _, r := range sorted {
		if keep(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}

// rawPoints maps the most recent limit readings to chart points, labelled with
// the HH:MM portion of the stored display time.
func rawPoints(filtered []HeartRateReading, limit int) []Point {
	start := 0
	if len(filtered) > limit {
		start = len(filtered) - limit
	}
	points := make([]Point, 0, len(filtered)-start)
	for _, r := range filtered[start:] {
		label := r.Time
		if len(label) > 5 {
			label = label[:5]
		}
		if label == "" {
			label = r.Timestamp.Format("15:04")
		}
		points = append(points, Point{Label: label, BPM: r.BPM})
	}
	return points
}

// bucketKey reduces a timestamp to its bucket's starting day.
type bucketKey func(t time.Time, loc *time.Location) time.Time

func dayBucket(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func weekBucket(weekStart time.Weekday) bucketKey {
	return func(t time.Time, loc *time.Location) time.Time {
		day := dayBucket(t, loc)
		back := (int(day.Weekday()) - int(weekStart) + 7) % 7
		return day.AddDate(0, 0, -back)
	}
}

// bucketize groups readings by key and reduces each bucket to its rounded
// mean bpm. Buckets exist only where at least one reading fell, so an
// average over an empty bucket never occurs.
func bucketize(filtered []HeartRateReading, ref time.Time, key bucketKey) []Point {
	loc := ref.Location()

	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[time.Time]*bucket)
	var order []time.Time

	for _, r := range filtered {
		k := key(r.Timestamp, loc)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.sum += r.BPM
		b.count++
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	points := make([]Point, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		mean := int(math.Round(float64(b.sum) / float64(b.count)))
		points = append(points, Point{Label: k.Format("Jan 2"), BPM: mean})
	}
	return points
}
