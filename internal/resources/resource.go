// Package resources models the catalog of computing resources available to
// the scheduler, their pricing capability, and the network graph that
// connects them.
package resources

// Zone is an availability-zone tag used by PriceModel to distinguish
// same-zone, cross-zone, and cross-region transfers.
type Zone string

// Resource is a computing node the scheduler may place steps on.
type Resource struct {
	Name          string
	CPUCount      int
	CPUFrequency  float64 // GHz
	RAMGiB        float64
	Schedulable   bool
	Zone          Zone
	HourlyRateUSD float64 // 0 for resources with no on-demand billing
}

// IsSchedulable reports whether this resource may receive new placements
// (§8 invariant 4). Forced deployments are exempt from this check — they
// honor the mandate regardless (§9, scenario E4).
func (r Resource) IsSchedulable() bool {
	return r.Schedulable
}

// CPUCapacityPercent is the total reservable CPU percentage of the
// resource: num_cpus * 100.
func (r Resource) CPUCapacityPercent() float64 {
	return float64(r.CPUCount) * 100
}

// MemoryCapacityMB is the total reservable memory in MB: RAM (GiB) * 1024.
func (r Resource) MemoryCapacityMB() float64 {
	return r.RAMGiB * 1024
}

// TotalPriceForSeconds is the pure on-demand billing function described in
// §9's design notes: reservation seconds are rounded up to full hours and
// billed at the hourly rate. It takes resource state as a parameter instead
// of mutating counters on the Resource, so cost computation is safe to call
// concurrently from many workers without a per-resource mutex.
func TotalPriceForSeconds(hourlyRate float64, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	hours := ceilDiv(seconds, 3600)
	return hours * hourlyRate
}

func ceilDiv(seconds, unit float64) float64 {
	n := seconds / unit
	if n == float64(int64(n)) {
		return n
	}
	return float64(int64(n)) + 1
}
