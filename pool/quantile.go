package pool

import (
	"math"

	"golang.org/x/exp/slices"
)

// latencyQuantile implements the P² algorithm (Jain & Chlamtac, 1985) for
// streaming percentile estimation of task run-durations: O(1) per-update,
// O(1) read, without storing a single raw sample. Adapted from
// eventloop.pSquareQuantile.
//
// Not thread-safe; callers serialize access under the owning ThreadPool's
// statsMu.
type latencyQuantile struct {
	p           float64
	q           [5]float64
	n           [5]int
	np          [5]float64
	dn          [5]float64
	initialized bool
	count       int
	initBuffer  [5]float64
}

func newLatencyQuantile(p float64) *latencyQuantile {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return &latencyQuantile{
		p:  p,
		dn: [5]float64{0, p / 2, p, (1 + p) / 2, 1},
	}
}

func (ps *latencyQuantile) Update(x float64) {
	ps.count++

	if ps.count <= 5 {
		ps.initBuffer[ps.count-1] = x
		if ps.count == 5 {
			ps.initialize()
		}
		return
	}

	var k int
	switch {
	case x < ps.q[0]:
		ps.q[0] = x
		k = 0
	case x >= ps.q[4]:
		ps.q[4] = x
		k = 3
	default:
		for k = 0; k < 4; k++ {
			if ps.q[k] <= x && x < ps.q[k+1] {
				break
			}
		}
	}

	for i := k + 1; i < 5; i++ {
		ps.n[i]++
	}
	for i := 0; i < 5; i++ {
		ps.np[i] += ps.dn[i]
	}

	for i := 1; i < 4; i++ {
		d := ps.np[i] - float64(ps.n[i])
		if (d >= 1 && ps.n[i+1]-ps.n[i] > 1) || (d <= -1 && ps.n[i-1]-ps.n[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}
			qPrime := ps.parabolic(i, sign)
			if ps.q[i-1] < qPrime && qPrime < ps.q[i+1] {
				ps.q[i] = qPrime
			} else {
				ps.q[i] = ps.linear(i, sign)
			}
			ps.n[i] += sign
		}
	}
}

func (ps *latencyQuantile) initialize() {
	slices.Sort(ps.initBuffer[:])
	for i := 0; i < 5; i++ {
		ps.q[i] = ps.initBuffer[i]
		ps.n[i] = i
	}
	ps.np = [5]float64{0, 2 * ps.p, 4 * ps.p, 2 + 2*ps.p, 4}
	ps.initialized = true
}

func (ps *latencyQuantile) parabolic(i, d int) float64 {
	df := float64(d)
	ni := float64(ps.n[i])
	niPrev := float64(ps.n[i-1])
	niNext := float64(ps.n[i+1])
	term1 := df / (niNext - niPrev)
	term2 := (ni - niPrev + df) * (ps.q[i+1] - ps.q[i]) / (niNext - ni)
	term3 := (niNext - ni - df) * (ps.q[i] - ps.q[i-1]) / (ni - niPrev)
	return ps.q[i] + term1*(term2+term3)
}

func (ps *latencyQuantile) linear(i, d int) float64 {
	if d == 1 {
		return ps.q[i] + (ps.q[i+1]-ps.q[i])/float64(ps.n[i+1]-ps.n[i])
	}
	return ps.q[i] - (ps.q[i]-ps.q[i-1])/float64(ps.n[i]-ps.n[i-1])
}

func (ps *latencyQuantile) Quantile() float64 {
	if ps.count == 0 {
		return 0
	}
	if ps.count < 5 {
		sorted := make([]float64, ps.count)
		copy(sorted, ps.initBuffer[:ps.count])
		slices.Sort(sorted)
		index := int(float64(ps.count-1) * ps.p)
		if index >= ps.count {
			index = ps.count - 1
		}
		return sorted[index]
	}
	return ps.q[2]
}

func (ps *latencyQuantile) Count() int { return ps.count }

func (ps *latencyQuantile) Max() float64 {
	if ps.count == 0 {
		return 0
	}
	if ps.count < 5 {
		max := ps.initBuffer[0]
		for i := 1; i < ps.count; i++ {
			if ps.initBuffer[i] > max {
				max = ps.initBuffer[i]
			}
		}
		return max
	}
	return ps.q[4]
}

// latencyHistogram tracks P50/P90/P99 task-duration percentiles plus
// sum/count/max, grounded on eventloop.pSquareMultiQuantile.
type latencyHistogram struct {
	p50, p90, p99 *latencyQuantile
	sum           float64
	count         int
	max           float64
}

func newLatencyHistogram() *latencyHistogram {
	return &latencyHistogram{
		p50: newLatencyQuantile(0.50),
		p90: newLatencyQuantile(0.90),
		p99: newLatencyQuantile(0.99),
		max: -math.MaxFloat64,
	}
}

func (h *latencyHistogram) Update(seconds float64) {
	h.count++
	h.sum += seconds
	if seconds > h.max {
		h.max = seconds
	}
	h.p50.Update(seconds)
	h.p90.Update(seconds)
	h.p99.Update(seconds)
}

func (h *latencyHistogram) Snapshot() LatencySnapshot {
	if h.count == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count: h.count,
		Mean:  h.sum / float64(h.count),
		P50:   h.p50.Quantile(),
		P90:   h.p90.Quantile(),
		P99:   h.p99.Quantile(),
		Max:   h.max,
	}
}

// LatencySnapshot is a point-in-time read of task-duration percentiles, in
// seconds, returned by ThreadPool.Stats.
type LatencySnapshot struct {
	Count int
	Mean  float64
	P50   float64
	P90   float64
	P99   float64
	Max   float64
}
