package metrics

import (
	"sort"
	"time"

	"github.com/keboola/go-orchestrator/internal/pkg/task"
)

func newSummary(attempts []Attempt) Summary {
	out := Summary{Total: len(attempts)}
	if out.Total == 0 {
		return out
	}

	var samples []time.Duration
	var total time.Duration
	var first, last time.Time
	fastest, slowest := -1, -1
	for i, attempt := range attempts {
		switch {
		case attempt.Outcome == task.OutcomeSuccess:
			out.Succeeded++
		case attempt.Outcome.IsExecutionFailure():
			out.Failed++
		}

		if !executed(attempt) {
			continue
		}

		samples = append(samples, attempt.Elapsed)
		total += attempt.Elapsed
		if first.IsZero() || attempt.At.Before(first) {
			first = attempt.At
		}
		if attempt.At.After(last) {
			last = attempt.At
		}
		if fastest == -1 || attempt.Elapsed < attempts[fastest].Elapsed {
			fastest = i
		}
		if slowest == -1 || attempt.Elapsed > attempts[slowest].Elapsed {
			slowest = i
		}
	}

	out.SuccessRate = float64(out.Succeeded) / float64(out.Total)

	if len(samples) == 0 {
		return out
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	out.Mean = total / time.Duration(len(samples))
	out.P50 = percentile(samples, 50)
	out.P95 = percentile(samples, 95)
	out.P99 = percentile(samples, 99)
	out.Fastest = attempts[fastest].Name
	out.Slowest = attempts[slowest].Name

	if window := last.Sub(first).Seconds(); window > 0 {
		out.Throughput = float64(len(samples)) / window
	} else {
		out.Throughput = float64(len(samples))
	}

	return out
}

// percentile returns the nearest-rank percentile of the sorted samples.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100 // ceil
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
