package estimation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymousuni/cats/internal/dryrun"
	"github.com/anonymousuni/cats/internal/pipeline"
	"github.com/anonymousuni/cats/internal/resources"
)

func corpusWithBatchSamples() *dryrun.Corpus {
	run1 := dryrun.NewRun([]string{"Source"})
	_ = run1.AddStepResult(dryrun.StepResult{Step: "Source", Resource: "r1", InputVolumeMB: 100})
	_ = run1.AddStepResult(dryrun.StepResult{Step: "Work", Resource: "r1", InputVolumeMB: 50, ProvisioningSeconds: 5, ProcessingSeconds: 10, AvgCPUPercent: 40, MaxCPUPercent: 50, MaxMemoryMB: 512})

	run2 := dryrun.NewRun([]string{"Source"})
	_ = run2.AddStepResult(dryrun.StepResult{Step: "Source", Resource: "r1", InputVolumeMB: 1000})
	_ = run2.AddStepResult(dryrun.StepResult{Step: "Work", Resource: "r1", InputVolumeMB: 500, ProvisioningSeconds: 8, ProcessingSeconds: 60, AvgCPUPercent: 70, MaxCPUPercent: 80, MaxMemoryMB: 2048})

	run3 := dryrun.NewRun([]string{"Source"})
	_ = run3.AddStepResult(dryrun.StepResult{Step: "Source", Resource: "r1", InputVolumeMB: 2000})
	_ = run3.AddStepResult(dryrun.StepResult{Step: "Work", Resource: "r1", InputVolumeMB: 1000, ProvisioningSeconds: 9, ProcessingSeconds: 110, AvgCPUPercent: 85, MaxCPUPercent: 90, MaxMemoryMB: 3072})

	return &dryrun.Corpus{Runs: []*dryrun.Run{run1, run2, run3}}
}

func TestEstimateBatchStepProducesNonNegativeBatchTimeline(t *testing.T) {
	corpus := corpusWithBatchSamples()
	cat := resources.NewCatalog()
	require.NoError(t, cat.Add(resources.Resource{Name: "r1", CPUCount: 4, RAMGiB: 8}))
	network := resources.NewNetworkGraph()

	est := New(corpus, cat, network)
	step := pipeline.NewStep("Work", pipeline.KindBatch)

	result, err := est.Estimate(step, resources.Resource{Name: "r1"}, "", 1500)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Timeline.ProvisioningSeconds(), 0.0)
	assert.GreaterOrEqual(t, result.Timeline.TotalTime(), 0.0)
	assert.GreaterOrEqual(t, result.CPUPercent, 0.0)
	assert.GreaterOrEqual(t, result.MemoryMB, 0.0)
}

func TestEstimateUnknownStepResourcePairErrors(t *testing.T) {
	corpus := &dryrun.Corpus{}
	cat := resources.NewCatalog()
	require.NoError(t, cat.Add(resources.Resource{Name: "r1"}))
	network := resources.NewNetworkGraph()

	est := New(corpus, cat, network)
	step := pipeline.NewStep("Ghost", pipeline.KindBatch)

	_, err := est.Estimate(step, resources.Resource{Name: "r1"}, "", 100)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestEstimateContextAwareTransmissionErrorsOnMissingBandwidth(t *testing.T) {
	corpus := corpusWithBatchSamples()
	cat := resources.NewCatalog()
	require.NoError(t, cat.Add(resources.Resource{Name: "r1"}))
	require.NoError(t, cat.Add(resources.Resource{Name: "r2"}))
	network := resources.NewNetworkGraph() // no edges at all

	est := New(corpus, cat, network)
	step := pipeline.NewStep("Work", pipeline.KindBatch)

	_, err := est.Estimate(step, resources.Resource{Name: "r1"}, "r2", 500)
	assert.ErrorIs(t, err, ErrNoBandwidth)
}

func TestEstimateContextAwareTransmissionUsesBandwidthWhenPresent(t *testing.T) {
	corpus := corpusWithBatchSamples()
	cat := resources.NewCatalog()
	require.NoError(t, cat.Add(resources.Resource{Name: "r1"}))
	require.NoError(t, cat.Add(resources.Resource{Name: "r2"}))
	network := resources.NewNetworkGraph()
	network.Connect("r2", "r1", 1000)

	est := New(corpus, cat, network)
	step := pipeline.NewStep("Work", pipeline.KindBatch)

	result, err := est.Estimate(step, resources.Resource{Name: "r1"}, "r2", 1000)
	require.NoError(t, err)

	// Transmission must be driven by the step's own estimated input volume,
	// not the raw pipeline input volume passed to Estimate.
	samples := corpus.ForStepResource("Work", "r1")
	stepModel, err := fitStepInputVolume(samples)
	require.NoError(t, err)
	wantSeconds := stepModel.Predict(1000) * 8 / 1000
	assert.InDelta(t, wantSeconds, result.Timeline.TransmissionSeconds(), 1e-9)
}

func TestAvgProcessingPerOutputIgnoresZeroOutputSamples(t *testing.T) {
	samples := []dryrun.StepResult{
		{ProcessingSeconds: 10, NumOutputs: 2},
		{ProcessingSeconds: 0, NumOutputs: 0},
	}
	assert.Equal(t, 5.0, avgProcessingPerOutput(samples))
}
