package dryrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBackfillsPipelineInputVolume(t *testing.T) {
	run := NewRun([]string{"Source"})

	require.NoError(t, run.AddStepResult(StepResult{Step: "Source", Resource: "r1", InputVolumeMB: 100}))
	require.NoError(t, run.AddStepResult(StepResult{Step: "A", Resource: "r1", InputVolumeMB: 100}))

	for _, sr := range run.StepResults {
		assert.Equal(t, 100.0, sr.PipelineInputVolumeMB)
	}
}

func TestCorpusForStepResource(t *testing.T) {
	run1 := NewRun([]string{"Source"})
	require.NoError(t, run1.AddStepResult(StepResult{Step: "Source", Resource: "r1", InputVolumeMB: 100}))
	require.NoError(t, run1.AddStepResult(StepResult{Step: "A", Resource: "r1", ProcessingSeconds: 10}))

	run2 := NewRun([]string{"Source"})
	require.NoError(t, run2.AddStepResult(StepResult{Step: "Source", Resource: "r1", InputVolumeMB: 200}))
	require.NoError(t, run2.AddStepResult(StepResult{Step: "A", Resource: "r1", ProcessingSeconds: 20}))

	c := &Corpus{Runs: []*Run{run1, run2}}
	samples := c.ForStepResource("A", "r1")
	require.Len(t, samples, 2)
	assert.Equal(t, 10.0, samples[0].ProcessingSeconds)
	assert.Equal(t, 20.0, samples[1].ProcessingSeconds)
}
