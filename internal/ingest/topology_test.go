package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymousuni/cats/internal/pipeline"
)

func TestParsePipelineYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "pipeline.yaml", `
steps:
  - name: Source
    kind: data_source
  - name: Retrieve
    kind: batch
  - name: Slice
    kind: producer
  - name: Process
    kind: consumer
connections:
  - source: Source
    target: Retrieve
  - source: Retrieve
    target: Slice
  - source: Slice
    target: Process
dependencies:
  - prerequisite: Slice
    dependent: Process
    kind: asynchronous
`)

	p, err := ParsePipelineYAML(path)
	require.NoError(t, err)

	_, ok := p.Step("Process")
	require.True(t, ok)
	assert.True(t, p.IsScalable("Process"))
}

func TestParsePipelineYAML_UnknownKindRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "pipeline.yaml", "steps:\n  - name: X\n    kind: bogus\n")

	_, err := ParsePipelineYAML(path)
	assert.Error(t, err)
}
