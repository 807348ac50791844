package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anonymousuni/cats/internal/pipeline"
)

// The Python original hardcodes its worked pipeline directly in main.py
// (steps, connections, and dependencies are Go-equivalent function calls in
// source). A CLI needs that topology as data instead of source code, so this
// file adds a small YAML pipeline definition format — a direct, data-driven
// equivalent of the same add_connection/add_dependency calls, not named in
// the distilled spec but required for `cats schedule` to run against
// anything other than a hardcoded fixture.

type pipelineDoc struct {
	Steps []struct {
		Name string `yaml:"name"`
		Kind string `yaml:"kind"`
	} `yaml:"steps"`
	Connections []struct {
		Source string `yaml:"source"`
		Target string `yaml:"target"`
	} `yaml:"connections"`
	Dependencies []struct {
		Prerequisite string `yaml:"prerequisite"`
		Dependent    string `yaml:"dependent"`
		Kind         string `yaml:"kind"`
	} `yaml:"dependencies"`
}

var stepKinds = map[string]pipeline.Kind{
	"data_source": pipeline.KindDataSource,
	"data_sink":   pipeline.KindDataSink,
	"batch":       pipeline.KindBatch,
	"producer":    pipeline.KindProducer,
	"consumer":    pipeline.KindConsumer,
}

var dependencyKinds = map[string]pipeline.DependencyKind{
	"synchronous":  pipeline.Synchronous,
	"asynchronous": pipeline.Asynchronous,
	"simultaneous": pipeline.Simultaneous,
}

// ParsePipelineYAML reads a pipeline topology definition: a list of steps
// (name, kind), data-transmission connections (source, target), and any
// additional explicit dependencies (prerequisite, dependent, kind) beyond
// the Synchronous ones a Connection already implies.
func ParsePipelineYAML(path string) (*pipeline.Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read pipeline yaml: %w", err)
	}

	var doc pipelineDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("ingest: parse pipeline yaml: %w", err)
	}

	p := pipeline.New()
	for _, s := range doc.Steps {
		kind, ok := stepKinds[s.Kind]
		if !ok {
			return nil, fmt.Errorf("ingest: pipeline yaml: step %q has unknown kind %q", s.Name, s.Kind)
		}
		if err := p.AddStep(pipeline.NewStep(s.Name, kind)); err != nil {
			return nil, fmt.Errorf("ingest: pipeline yaml: %w", err)
		}
	}

	for _, c := range doc.Connections {
		if err := p.AddConnection(pipeline.Connection{Source: c.Source, Target: c.Target}); err != nil {
			return nil, fmt.Errorf("ingest: pipeline yaml: connection %s->%s: %w", c.Source, c.Target, err)
		}
	}

	for _, d := range doc.Dependencies {
		kind, ok := dependencyKinds[d.Kind]
		if !ok {
			return nil, fmt.Errorf("ingest: pipeline yaml: dependency %s->%s has unknown kind %q", d.Prerequisite, d.Dependent, d.Kind)
		}
		if err := p.AddDependency(pipeline.Dependency{Prerequisite: d.Prerequisite, Dependent: d.Dependent, Kind: kind}); err != nil {
			return nil, fmt.Errorf("ingest: pipeline yaml: dependency %s->%s: %w", d.Prerequisite, d.Dependent, err)
		}
	}

	return p, nil
}
