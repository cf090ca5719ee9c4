// Package benchmark measures the cost of the dashboard's per-cycle work.
package benchmark

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Options configures a benchmark run.
type Options struct {
	Iterations int
	Warmup     int
}

// DefaultOptions returns sensible benchmark defaults.
func DefaultOptions() Options {
	return Options{
		Iterations: 20,
		Warmup:     3,
	}
}

// Task is one timed unit of work. When Unit is set, the values Fn returns
// are summarized in the report; otherwise only latency is shown.
type Task struct {
	Name string
	Unit string
	Fn   func(ctx context.Context) (float64, error)
}

// Spread summarizes the values a task returned.
type Spread struct {
	N      int
	Mean   float64
	StdDev float64
}

// Result holds the measurements of one task.
type Result struct {
	Task      string
	Unit      string
	Latencies []time.Duration // sorted ascending
	P50       time.Duration
	P95       time.Duration
	P99       time.Duration
	Max       time.Duration
	Errors    int
	Values    Spread
}

// Overhead holds cumulative allocator and GC counters.
type Overhead struct {
	AllocBytes uint64
	AllocCount uint64
	GCPauses   uint32
}

// MeasureOverhead snapshots the runtime's allocation counters.
func MeasureOverhead() Overhead {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Overhead{
		AllocBytes: m.TotalAlloc,
		AllocCount: m.Mallocs,
		GCPauses:   m.NumGC,
	}
}

// Since returns the counters accumulated after before was taken.
func (o Overhead) Since(before Overhead) Overhead {
	return Overhead{
		AllocBytes: o.AllocBytes - before.AllocBytes,
		AllocCount: o.AllocCount - before.AllocCount,
		GCPauses:   o.GCPauses - before.GCPauses,
	}
}

// Run times every task. It stops when ctx is done and returns the results
// of the tasks that completed.
func Run(ctx context.Context, tasks []Task, opts Options) ([]Result, error) {
	if opts.Iterations < 1 {
		return nil, fmt.Errorf("benchmark: iterations must be positive, got %d", opts.Iterations)
	}
	results := make([]Result, 0, len(tasks))
	for _, task := range tasks {
		for i := 0; i < opts.Warmup; i++ {
			task.Fn(ctx)
		}
		r, err := measure(ctx, task, opts.Iterations)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func measure(ctx context.Context, task Task, iterations int) (Result, error) {
	r := Result{Task: task.Name, Unit: task.Unit, Latencies: make([]time.Duration, 0, iterations)}
	var values []float64
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		start := time.Now()
		v, err := task.Fn(ctx)
		r.Latencies = append(r.Latencies, time.Since(start))
		if err != nil {
			r.Errors++
			continue
		}
		values = append(values, v)
	}

	slices.Sort(r.Latencies)
	r.P50 = nearestRank(r.Latencies, 50)
	r.P95 = nearestRank(r.Latencies, 95)
	r.P99 = nearestRank(r.Latencies, 99)
	r.Max = r.Latencies[len(r.Latencies)-1]
	if task.Unit != "" {
		r.Values = spread(values)
	}
	return r, nil
}

// nearestRank returns the pct-th percentile of an ascending slice.
func nearestRank(sorted []time.Duration, pct int) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := (pct*n + 99) / 100 // ceil(pct/100 * n)
	return sorted[max(min(rank, n), 1)-1]
}

// spread computes the population mean and standard deviation in one pass.
func spread(values []float64) Spread {
	var s Spread
	var m2 float64
	for _, v := range values {
		s.N++
		delta := v - s.Mean
		s.Mean += delta / float64(s.N)
		m2 += delta * (v - s.Mean)
	}
	if s.N > 1 {
		s.StdDev = math.Sqrt(m2 / float64(s.N))
	}
	return s
}

var (
	bmTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	bmHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	bmDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	bmWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bmBold   = lipgloss.NewStyle().Bold(true)
)

// RenderResults writes the latency table, the value column for tasks with a
// unit, and the allocation overhead of the run.
func RenderResults(w io.Writer, results []Result, overhead Overhead) {
	rule := strings.Repeat("─", 78)
	fmt.Fprintln(w, bmTitle.Render("Cycle Cost"))
	fmt.Fprintln(w, bmDim.Render(rule))
	fmt.Fprintf(w, "  %s %s %s %s %s\n",
		bmHeader.Render(fmt.Sprintf("%-12s", "TASK")),
		bmHeader.Render(fmt.Sprintf("%-10s", "P50")),
		bmHeader.Render(fmt.Sprintf("%-10s", "P95")),
		bmHeader.Render(fmt.Sprintf("%-10s", "MAX")),
		bmHeader.Render(fmt.Sprintf("%-22s", "VALUE")))

	for _, r := range results {
		fmt.Fprintf(w, "  %-14s %-12v %-12v %-12v %s\n",
			r.Task, r.P50.Round(time.Microsecond), r.P95.Round(time.Microsecond),
			r.Max.Round(time.Microsecond), valueCell(r))
	}

	fmt.Fprintln(w, bmDim.Render(rule))
	fmt.Fprintf(w, "  allocated %s in %s objects, %s GC cycles\n",
		bmBold.Render(formatBytes(overhead.AllocBytes)),
		bmBold.Render(fmt.Sprint(overhead.AllocCount)),
		bmBold.Render(fmt.Sprint(overhead.GCPauses)))
}

func valueCell(r Result) string {
	var cell string
	switch {
	case r.Unit == "":
		cell = bmDim.Render("-")
	case r.Values.N == 0:
		cell = bmDim.Render("no values")
	default:
		cell = fmt.Sprintf("%.2f ±%.2f %s", r.Values.Mean, r.Values.StdDev, r.Unit)
	}
	if r.Errors > 0 {
		cell += " " + bmWarn.Render(fmt.Sprintf("(%d failed)", r.Errors))
	}
	return cell
}

func formatBytes(b uint64) string {
	units := []string{"B", "KiB", "MiB", "GiB"}
	v := float64(b)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", b)
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}
