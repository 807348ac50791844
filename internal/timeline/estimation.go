package timeline

// Estimate is the closed set of StepExecutionTimeline variants named in §3.
// Each variant computes TotalTime and TimeToFirstResult according to its own
// streaming semantics; callers switch on the concrete type rather than
// relying on a deep class hierarchy (§9, "polymorphic step and timeline
// kinds").
type Estimate interface {
	TotalTime() float64
	TimeToFirstResult() float64
	ProvisioningSeconds() float64
	TransmissionSeconds() float64
}

// Batch is a single input batch -> single output batch timeline: one
// processing duration, no streaming.
type Batch struct {
	Provisioning float64
	Transmission float64
	Processing   float64
}

func (b Batch) TotalTime() float64            { return b.Provisioning + b.Transmission + b.Processing }
func (b Batch) TimeToFirstResult() float64    { return b.TotalTime() }
func (b Batch) ProvisioningSeconds() float64  { return b.Provisioning }
func (b Batch) TransmissionSeconds() float64  { return b.Transmission }

// Producer emits NumOutputs outputs incrementally, each taking
// AvgTimePerOutput seconds, after its input is provisioned and transmitted.
type Producer struct {
	Provisioning     float64
	Transmission     float64
	NumOutputs       int
	AvgTimePerOutput float64
}

func (p Producer) TotalTime() float64 {
	return p.Provisioning + p.Transmission + p.AvgTimePerOutput*float64(p.NumOutputs)
}
func (p Producer) TimeToFirstResult() float64 {
	return p.Provisioning + p.Transmission + p.AvgTimePerOutput
}
func (p Producer) ProvisioningSeconds() float64 { return p.Provisioning }
func (p Producer) TransmissionSeconds() float64 { return p.Transmission }

// Consumer reads NumInputs inputs from an upstream producer, transmitting
// and processing each incrementally, and produces NumOutputs outputs.
type Consumer struct {
	Provisioning            float64
	NumInputs               int
	AvgTransmissionPerInput float64
	NumOutputs              int
	AvgProcessingPerOutput  float64
}

func (c Consumer) TotalTime() float64 {
	return c.Provisioning + c.AvgTransmissionPerInput*float64(c.NumInputs) + c.AvgProcessingPerOutput*float64(c.NumOutputs)
}
func (c Consumer) TimeToFirstResult() float64 {
	return c.Provisioning + c.AvgTransmissionPerInput + c.AvgProcessingPerOutput
}
func (c Consumer) ProvisioningSeconds() float64 { return c.Provisioning }
func (c Consumer) TransmissionSeconds() float64 { return c.AvgTransmissionPerInput * float64(c.NumInputs) }

// Source only provisions; it has no inputs to transmit.
type Source struct {
	Provisioning float64
}

func (s Source) TotalTime() float64           { return s.Provisioning }
func (s Source) TimeToFirstResult() float64   { return s.Provisioning }
func (s Source) ProvisioningSeconds() float64 { return s.Provisioning }
func (s Source) TransmissionSeconds() float64 { return 0 }

// Sink only provisions and transmits each of its NumInputs inputs; it
// produces no outputs of its own.
type Sink struct {
	Provisioning         float64
	NumInputs            int
	TransmissionPerInput float64
}

func (s Sink) TotalTime() float64 {
	return s.Provisioning + s.TransmissionPerInput*float64(s.NumInputs)
}
func (s Sink) TimeToFirstResult() float64   { return s.TotalTime() }
func (s Sink) ProvisioningSeconds() float64 { return s.Provisioning }
func (s Sink) TransmissionSeconds() float64 { return s.TransmissionPerInput * float64(s.NumInputs) }

// StepEstimation is the typed output of the estimators (§4.2): the
// predicted timeline for a step at a target input volume, keyed by the
// (step, resource, previous-resource) triple named in §9.
type StepEstimation struct {
	Step             string
	Resource         string
	PreviousResource string // "" if this is the first step on its branch
	InputVolumeMB    float64
	Timeline         Estimate

	// CPUPercent and MemoryMB are the predicted reservation sizes for this
	// placement, estimated independently of the timeline components (§4.2)
	// and consumed by the candidate search's earliest-slot query.
	CPUPercent float64
	MemoryMB   float64
}
