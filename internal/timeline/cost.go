package timeline

import "github.com/anonymousuni/cats/internal/resources"

// DataTransmissionCost sums the USD cost of every event's inbound data
// transfer, using model and the catalog to resolve each event's (and its
// prerequisite's) zone. Events with no PreviousResource (pipeline entry
// points) are charged as internet ingress, which every PriceModel treats as
// free.
func (t *Timeline) DataTransmissionCost(cat *resources.Catalog, model resources.PriceModel) float64 {
	var total float64
	for _, e := range t.Events {
		gigabytes := e.Estimation.InputVolumeMB / 1024
		var srcZone resources.Zone
		if e.PreviousResource != "" {
			if r, ok := cat.Get(e.PreviousResource); ok {
				srcZone = r.Zone
			}
		}
		var dstZone resources.Zone
		if r, ok := cat.Get(e.Reservation.Resource); ok {
			dstZone = r.Zone
		}
		total += model.PriceToTransmit(srcZone, dstZone, gigabytes)
	}
	return total
}

// ResourceCost sums the USD on-demand billing cost of every resource used
// in the timeline: the events on each resource are grouped, their total
// reserved seconds summed, and billed independently per resource via
// resources.TotalPriceForSeconds (the pure, mutation-free billing function
// described in §9's design notes).
func (t *Timeline) ResourceCost(cat *resources.Catalog) float64 {
	secondsByResource := map[string]float64{}
	for _, e := range t.Events {
		secondsByResource[e.Reservation.Resource] += e.Estimation.Timeline.TotalTime()
	}
	var total float64
	for name, seconds := range secondsByResource {
		r, ok := cat.Get(name)
		if !ok {
			continue
		}
		total += resources.TotalPriceForSeconds(r.HourlyRateUSD, seconds)
	}
	return total
}

// TotalCost is the sum of ResourceCost and DataTransmissionCost: the full
// monetary cost of this timeline, scored against the budget (§4.4).
func (t *Timeline) TotalCost(cat *resources.Catalog, model resources.PriceModel) float64 {
	return t.ResourceCost(cat) + t.DataTransmissionCost(cat, model)
}
