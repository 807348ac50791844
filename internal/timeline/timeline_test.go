package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymousuni/cats/internal/resources"
)

func TestBatchTimeToFirstResultEqualsTotalTime(t *testing.T) {
	b := Batch{Provisioning: 1, Transmission: 2, Processing: 3}
	assert.Equal(t, b.TotalTime(), b.TimeToFirstResult())
	assert.Equal(t, 6.0, b.TotalTime())
}

func TestProducerFirstResultIsOneSliceNotAll(t *testing.T) {
	p := Producer{Provisioning: 1, Transmission: 1, NumOutputs: 10, AvgTimePerOutput: 2}
	assert.Equal(t, 4.0, p.TimeToFirstResult())
	assert.Equal(t, 22.0, p.TotalTime())
}

func TestConsumerFirstResultIsOnePairNotAll(t *testing.T) {
	c := Consumer{Provisioning: 1, NumInputs: 5, AvgTransmissionPerInput: 1, NumOutputs: 5, AvgProcessingPerOutput: 2}
	assert.Equal(t, 4.0, c.TimeToFirstResult())
	assert.Equal(t, 1.0+5+10, c.TotalTime())
}

func TestInsertNegativePositionShiftsTimelineForward(t *testing.T) {
	tl := New()
	tl.Insert(Event{Step: "A", Position: 0, Estimation: StepEstimation{Timeline: Batch{Processing: 5}}})
	tl.Insert(Event{Step: "B", Position: -3, Estimation: StepEstimation{Timeline: Batch{Processing: 1}}})

	require.Len(t, tl.Events, 2)
	// B was inserted at t=0 and everything else shifted forward by 3.
	var posB, posA float64
	for _, e := range tl.Events {
		if e.Step == "B" {
			posB = e.Position
		}
		if e.Step == "A" {
			posA = e.Position
		}
	}
	assert.Equal(t, 0.0, posB)
	assert.Equal(t, 3.0, posA)
}

func TestEarliestAvailableReturnsPositionWhenCapacityFree(t *testing.T) {
	tl := New()
	res := resources.Resource{Name: "r1", CPUCount: 4, RAMGiB: 8}
	start := tl.EarliestAvailable(res, 10, 5, 100, 512)
	assert.Equal(t, 10.0, start)
}

func TestEarliestAvailableSkipsPastFullyReservedWindow(t *testing.T) {
	tl := New()
	res := resources.Resource{Name: "r1", CPUCount: 1, RAMGiB: 1} // 100% CPU, 1024MB
	tl.Insert(Event{
		Step:        "busy",
		Position:    0,
		Reservation: Reservation{Resource: "r1", CPUPercent: 100, MemoryMB: 1024},
		Estimation:  StepEstimation{Timeline: Batch{Processing: 10}},
	})

	start := tl.EarliestAvailable(res, 0, 5, 50, 256)
	assert.GreaterOrEqual(t, start, 10.0)
}

func TestSyncPositionUsesFirstResultForProducerAtScaleLevelOne(t *testing.T) {
	e := Event{
		Position:   0,
		Estimation: StepEstimation{Timeline: Producer{Provisioning: 1, NumOutputs: 4, AvgTimePerOutput: 2}},
	}
	assert.Equal(t, e.FirstResult(), SyncPosition(e, 1))
	assert.Less(t, SyncPosition(e, 1), e.Finish())
}

func TestSyncPositionStaggersSuccessiveScaleLevels(t *testing.T) {
	e := Event{
		Position:   0,
		Estimation: StepEstimation{Timeline: Producer{Provisioning: 1, NumOutputs: 4, AvgTimePerOutput: 2}},
	}
	// Instance k must wait for k outputs, not just the first.
	assert.Equal(t, SyncPosition(e, 1)+2, SyncPosition(e, 2))
	assert.Equal(t, SyncPosition(e, 1)+2*2, SyncPosition(e, 3))
}

func TestSyncPositionUsesFinishForBatchRegardlessOfScaleLevel(t *testing.T) {
	e := Event{
		Position:   0,
		Estimation: StepEstimation{Timeline: Batch{Processing: 10}},
	}
	assert.Equal(t, e.Finish(), SyncPosition(e, 1))
	assert.Equal(t, e.Finish(), SyncPosition(e, 3))
}

func TestStepWithLatestFinishBreaksTiesByName(t *testing.T) {
	events := []Event{
		{Step: "alpha", Position: 0, Estimation: StepEstimation{Timeline: Batch{Processing: 10}}},
		{Step: "beta", Position: 0, Estimation: StepEstimation{Timeline: Batch{Processing: 10}}},
	}
	best, ok := StepWithLatestFinish(events)
	require.True(t, ok)
	assert.Equal(t, "beta", best.Step)
}

func TestResourceCostGroupsSecondsPerResource(t *testing.T) {
	cat := resources.NewCatalog()
	require.NoError(t, cat.Add(resources.Resource{Name: "r1", HourlyRateUSD: 1.0}))

	tl := New()
	tl.Insert(Event{Step: "A", Position: 0, Reservation: Reservation{Resource: "r1"}, Estimation: StepEstimation{Timeline: Batch{Processing: 3600}}})
	tl.Insert(Event{Step: "B", Position: 3600, Reservation: Reservation{Resource: "r1"}, Estimation: StepEstimation{Timeline: Batch{Processing: 1}}})

	// 3601 total seconds on r1 rounds up to 2 hours.
	assert.Equal(t, 2.0, tl.ResourceCost(cat))
}

func TestDataTransmissionCostTreatsEntryPointAsFreeIngress(t *testing.T) {
	cat := resources.NewCatalog()
	require.NoError(t, cat.Add(resources.Resource{Name: "r1", Zone: "us-east-1a"}))
	model := resources.NewAWSPriceModel()

	tl := New()
	tl.Insert(Event{
		Step:        "Source",
		Reservation: Reservation{Resource: "r1"},
		Estimation:  StepEstimation{InputVolumeMB: 1024, Timeline: Source{Provisioning: 1}},
	})
	assert.Zero(t, tl.DataTransmissionCost(cat, model))
}
