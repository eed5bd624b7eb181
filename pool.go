package paper2pdf

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one render runs.
	MinWorkers = 1

	// MaxWorkers caps concurrent renders; each may hold a pdflatex process.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for engine child processes.
	cpuDivisor = 2
)

// ResolveWorkers returns n clamped to [MinWorkers, MaxWorkers], or a value
// derived from the CPU count when n is zero or negative.
func ResolveWorkers(n int) int {
	if n <= 0 {
		n = runtime.NumCPU() / cpuDivisor
	}
	return max(MinWorkers, min(n, MaxWorkers))
}
