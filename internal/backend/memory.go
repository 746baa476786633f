package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InMemory is a minimal, concurrency-safe SimulationBackend reference
// implementation. It lets cmd/spicesharp-mcp-server run standalone
// end-to-end (JSON-RPC in, tool results out) without a real circuit
// simulator wired in; it performs no SPICE-grade analysis math. A
// production deployment is expected to supply its own SimulationBackend
// to dispatcher.Context in place of this one.
type InMemory struct {
	mu         sync.Mutex
	nextID     int
	circuits   map[string]CircuitSummary
	components map[string]map[string]Component
	models     map[string]map[string]struct {
		Type       string
		Parameters map[string]float64
	}
}

// NewInMemory builds an empty InMemory backend.
func NewInMemory() *InMemory {
	return &InMemory{
		circuits:   map[string]CircuitSummary{},
		components: map[string]map[string]Component{},
		models: map[string]map[string]struct {
			Type       string
			Parameters map[string]float64
		}{},
	}
}

func (b *InMemory) CreateCircuit(_ context.Context, name string) (CircuitSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := fmt.Sprintf("circuit-%d", b.nextID)
	summary := CircuitSummary{ID: id, Name: name}
	b.circuits[id] = summary
	b.components[id] = map[string]Component{}
	b.models[id] = map[string]struct {
		Type       string
		Parameters map[string]float64
	}{}
	return summary, nil
}

func (b *InMemory) ListCircuits(_ context.Context) ([]CircuitSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]CircuitSummary, 0, len(b.circuits))
	for _, c := range b.circuits {
		out = append(out, b.summaryLocked(c.ID))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *InMemory) summaryLocked(id string) CircuitSummary {
	s := b.circuits[id]
	s.Components = len(b.components[id])
	return s
}

func (b *InMemory) DeleteCircuit(_ context.Context, circuitID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.circuits[circuitID]; !ok {
		return b.notFoundLocked("circuit", circuitID)
	}
	delete(b.circuits, circuitID)
	delete(b.components, circuitID)
	delete(b.models, circuitID)
	return nil
}

func (b *InMemory) GetCircuitInfo(_ context.Context, circuitID string) (CircuitSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.circuits[circuitID]; !ok {
		return CircuitSummary{}, b.notFoundLocked("circuit", circuitID)
	}
	return b.summaryLocked(circuitID), nil
}

func (b *InMemory) notFoundLocked(kind, id string) error {
	ids := make([]string, 0, len(b.circuits))
	for cid := range b.circuits {
		ids = append(ids, cid)
	}
	sort.Strings(ids)
	return &NotFoundError{Kind: kind, ID: id, Alternatives: ids}
}

func (b *InMemory) AddComponent(_ context.Context, circuitID string, c Component) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	comps, ok := b.components[circuitID]
	if !ok {
		return b.notFoundLocked("circuit", circuitID)
	}
	comps[c.ReferenceDesignator] = c
	return nil
}

func (b *InMemory) ModifyComponent(_ context.Context, circuitID, referenceDesignator string, c Component) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	comps, ok := b.components[circuitID]
	if !ok {
		return b.notFoundLocked("circuit", circuitID)
	}
	existing, ok := comps[referenceDesignator]
	if !ok {
		return &NotFoundError{Kind: "component", ID: referenceDesignator, Alternatives: componentNames(comps)}
	}
	if c.Type != "" {
		existing.Type = c.Type
	}
	if len(c.Nodes) > 0 {
		existing.Nodes = c.Nodes
	}
	if len(c.Parameters) > 0 {
		existing.Parameters = c.Parameters
	}
	if c.Model != "" {
		existing.Model = c.Model
	}
	comps[referenceDesignator] = existing
	return nil
}

func (b *InMemory) ComponentInfo(_ context.Context, circuitID, referenceDesignator string) (Component, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	comps, ok := b.components[circuitID]
	if !ok {
		return Component{}, b.notFoundLocked("circuit", circuitID)
	}
	c, ok := comps[referenceDesignator]
	if !ok {
		return Component{}, &NotFoundError{Kind: "component", ID: referenceDesignator, Alternatives: componentNames(comps)}
	}
	return c, nil
}

func componentNames(comps map[string]Component) []string {
	out := make([]string, 0, len(comps))
	for name := range comps {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (b *InMemory) DefineModel(_ context.Context, circuitID, modelName, modelType string, parameters map[string]float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	models, ok := b.models[circuitID]
	if !ok {
		return b.notFoundLocked("circuit", circuitID)
	}
	models[modelName] = struct {
		Type       string
		Parameters map[string]float64
	}{Type: modelType, Parameters: parameters}
	return nil
}

func (b *InMemory) ImportNetlist(_ context.Context, circuitID, netlist string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.circuits[circuitID]; !ok {
		return b.notFoundLocked("circuit", circuitID)
	}
	// A full netlist parser is out of scope; this reference backend only
	// checks that the circuit exists and leaves its component state as is.
	return nil
}

func (b *InMemory) ExportNetlist(_ context.Context, circuitID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	comps, ok := b.components[circuitID]
	if !ok {
		return "", b.notFoundLocked("circuit", circuitID)
	}
	netlist := fmt.Sprintf("* circuit %s\n", circuitID)
	names := componentNames(comps)
	for _, name := range names {
		c := comps[name]
		netlist += fmt.Sprintf("%s %s %v\n", name, c.Type, c.Nodes)
	}
	return netlist, nil
}

func (b *InMemory) ValidateCircuit(_ context.Context, circuitID string) ([]ValidationIssue, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	comps, ok := b.components[circuitID]
	if !ok {
		return nil, b.notFoundLocked("circuit", circuitID)
	}
	if len(comps) == 0 {
		return []ValidationIssue{{Severity: "warning", Message: "circuit has no components"}}, nil
	}
	return nil, nil
}

func linspace(start, stop, step float64) []float64 {
	if step <= 0 {
		return []float64{start}
	}
	var out []float64
	for v := start; v <= stop+step/2; v += step {
		out = append(out, v)
	}
	return out
}

func (b *InMemory) RunDCSweep(_ context.Context, circuitID, source string, start, stop, step float64) (CachedAnalysisResult, error) {
	if err := b.requireCircuit(circuitID); err != nil {
		return CachedAnalysisResult{}, err
	}
	x := linspace(start, stop, step)
	return CachedAnalysisResult{
		AnalysisType: AnalysisDCSweep,
		XData:        x,
		XLabel:       source,
		Signals:      map[string][]float64{"out": x},
	}, nil
}

func (b *InMemory) RunTransient(_ context.Context, circuitID string, stopTime, stepTime float64) (CachedAnalysisResult, error) {
	if err := b.requireCircuit(circuitID); err != nil {
		return CachedAnalysisResult{}, err
	}
	x := linspace(0, stopTime, stepTime)
	return CachedAnalysisResult{
		AnalysisType: AnalysisTransient,
		XData:        x,
		XLabel:       "time",
		Signals:      map[string][]float64{"out": x},
	}, nil
}

func (b *InMemory) RunAC(_ context.Context, circuitID, sweepType string, points int, startFreq, stopFreq float64) (CachedAnalysisResult, error) {
	if err := b.requireCircuit(circuitID); err != nil {
		return CachedAnalysisResult{}, err
	}
	if points <= 0 {
		points = 1
	}
	step := (stopFreq - startFreq) / float64(points)
	x := linspace(startFreq, stopFreq, step)
	imag := make([]float64, len(x))
	return CachedAnalysisResult{
		AnalysisType:     AnalysisAC,
		XData:            x,
		XLabel:           "frequency",
		Signals:          map[string][]float64{"out": x},
		ImaginarySignals: map[string][]float64{"out": imag},
	}, nil
}

func (b *InMemory) RunOperatingPoint(_ context.Context, circuitID string) (CachedAnalysisResult, error) {
	if err := b.requireCircuit(circuitID); err != nil {
		return CachedAnalysisResult{}, err
	}
	return CachedAnalysisResult{
		AnalysisType:       AnalysisOperatingPoint,
		OperatingPointData: map[string]float64{},
	}, nil
}

func (b *InMemory) RunParameterSweep(_ context.Context, circuitID, parameter string, start, stop, step float64) (CachedAnalysisResult, error) {
	if err := b.requireCircuit(circuitID); err != nil {
		return CachedAnalysisResult{}, err
	}
	x := linspace(start, stop, step)
	return CachedAnalysisResult{
		AnalysisType: AnalysisParameterSweep,
		XData:        x,
		XLabel:       parameter,
		Signals:      map[string][]float64{"out": x},
	}, nil
}

func (b *InMemory) RunTemperatureSweep(_ context.Context, circuitID string, start, stop, step float64) (CachedAnalysisResult, error) {
	if err := b.requireCircuit(circuitID); err != nil {
		return CachedAnalysisResult{}, err
	}
	x := linspace(start, stop, step)
	return CachedAnalysisResult{
		AnalysisType: AnalysisTemperatureSweep,
		XData:        x,
		XLabel:       "temperature",
		Signals:      map[string][]float64{"out": x},
	}, nil
}

func (b *InMemory) requireCircuit(circuitID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.circuits[circuitID]; !ok {
		return b.notFoundLocked("circuit", circuitID)
	}
	return nil
}

func (b *InMemory) ComputeImpedance(_ context.Context, circuitID string, cached CachedAnalysisResult, nodeA, nodeB string) (MeasurementResult, error) {
	return MeasurementResult{Name: fmt.Sprintf("Z(%s,%s)", nodeA, nodeB), Value: 0, Unit: "ohm"}, nil
}

func (b *InMemory) ExtractMeasurement(_ context.Context, circuitID string, cached CachedAnalysisResult, measurement string) (MeasurementResult, error) {
	return MeasurementResult{Name: measurement, Value: 0}, nil
}

func (b *InMemory) ComputeGroupDelay(_ context.Context, circuitID string, cached CachedAnalysisResult, signal string) (MeasurementResult, error) {
	if _, ok := cached.Signals[signal]; !ok {
		return MeasurementResult{}, &NotFoundError{Kind: "signal", ID: signal, Alternatives: signalNames(cached.Signals)}
	}
	return MeasurementResult{Name: "group_delay", Value: 0, Unit: "s"}, nil
}

func signalNames(signals map[string][]float64) []string {
	out := make([]string, 0, len(signals))
	for name := range signals {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (b *InMemory) RenderSchematic(_ context.Context, circuitID string) (ContentItem, error) {
	if err := b.requireCircuit(circuitID); err != nil {
		return ContentItem{}, err
	}
	return ImageContent("", "image/svg+xml"), nil
}

func (b *InMemory) RenderPlot(_ context.Context, circuitID string, cached CachedAnalysisResult, signals []string) (ContentItem, error) {
	return ImageContent("", "image/png"), nil
}

func (b *InMemory) LookupComponent(_ context.Context, query string) ([]Component, error) {
	return nil, nil
}
