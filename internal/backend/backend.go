// Package backend declares the abstract SimulationBackend collaborator
// and the domain value types that cross the JSON-RPC boundary. The
// circuit-simulation engine itself (analysis math, device models,
// netlist parsing, schematic rendering, plotting) is explicitly out of
// scope for this repository; this package only names the
// interface the ToolDispatcher calls into.
package backend

import (
	"context"
	"fmt"
)

// AnalysisType enumerates the analyses a SimulationBackend can run.
// "ac" is the only type that may populate CachedAnalysisResult's
// ImaginarySignals; "operating_point" is the only type that populates
// OperatingPointData.
type AnalysisType string

const (
	AnalysisDCSweep           AnalysisType = "dc_sweep"
	AnalysisTransient         AnalysisType = "transient"
	AnalysisAC                AnalysisType = "ac"
	AnalysisOperatingPoint    AnalysisType = "operating_point"
	AnalysisParameterSweep    AnalysisType = "parameter_sweep"
	AnalysisTemperatureSweep  AnalysisType = "temperature_sweep"
)

// ContentType tags a ToolResult content item's variant.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

// ContentItem is one element of a ToolResult's content list.
// Exactly one of Text or Data is populated, selected by Type.
type ContentItem struct {
	Type     ContentType `json:"type"`
	Text     string      `json:"text,omitempty"`
	Data     string      `json:"data,omitempty"` // base64, present when Type == ContentImage
	MimeType string      `json:"mimeType,omitempty"`
}

// TextContent builds a ContentItem of type "text".
func TextContent(text string) ContentItem {
	return ContentItem{Type: ContentText, Text: text}
}

// ImageContent builds a ContentItem of type "image". data is already
// base64-encoded; mimeType is required.
func ImageContent(data, mimeType string) ContentItem {
	return ContentItem{Type: ContentImage, Data: data, MimeType: mimeType}
}

// ToolResult is the structured result of a tools/call invocation
//: an ordered list of content items, constructed fresh per
// call and never retained by the dispatcher itself.
type ToolResult struct {
	Content []ContentItem `json:"content"`
}

// NewToolResult builds a ToolResult from one or more content items.
func NewToolResult(items ...ContentItem) ToolResult {
	return ToolResult{Content: items}
}

// CachedAnalysisResult is the value ResultsCache stores per circuit
//.
type CachedAnalysisResult struct {
	AnalysisType        AnalysisType         `json:"analysisType"`
	XData               []float64            `json:"xData"`
	XLabel              string               `json:"xLabel"`
	Signals             map[string][]float64 `json:"signals"`
	ImaginarySignals    map[string][]float64 `json:"imaginarySignals,omitempty"`
	OperatingPointData  map[string]float64   `json:"operatingPointData,omitempty"`
}

// Component describes a single circuit element for add/modify/info
// operations.
type Component struct {
	ReferenceDesignator string             `json:"referenceDesignator"`
	Type                string             `json:"type"`
	Nodes               []string           `json:"nodes"`
	Parameters          map[string]float64 `json:"parameters,omitempty"`
	Model               string             `json:"model,omitempty"`
}

// CircuitSummary is the minimal description returned by list/create
// circuit operations.
type CircuitSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Components int    `json:"componentCount"`
}

// ValidationIssue is one problem reported by ValidateCircuit.
type ValidationIssue struct {
	Severity string `json:"severity"` // "error" | "warning"
	Message  string `json:"message"`
}

// MeasurementResult is the output of a derived-analysis measurement
// extraction.
type MeasurementResult struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// NotFoundError is returned by a SimulationBackend method when a
// referenced entity (circuit, component, signal, model) does not exist.
// ToolDispatcher maps it to InvalidParams and, when Alternatives is
// non-empty, lists them in the error message.
type NotFoundError struct {
	Kind         string // "circuit", "component", "signal", "model", "cached analysis"
	ID           string
	Alternatives []string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("no such %s", e.Kind)
	}
	return fmt.Sprintf("no such %s: %s", e.Kind, e.ID)
}

// SimulationBackend is the abstract collaborator the ToolDispatcher
// calls into for every tool. Implementations own netlist parsing,
// device models, the analysis engine, schematic rendering, and the
// library/database lookups — all explicitly out of scope here
//. The context passed to every method carries cancellation
// for long-running analyses; the dispatcher never holds a lock across
// these calls.
type SimulationBackend interface {
	// Circuit lifecycle
	CreateCircuit(ctx context.Context, name string) (CircuitSummary, error)
	ListCircuits(ctx context.Context) ([]CircuitSummary, error)
	DeleteCircuit(ctx context.Context, circuitID string) error
	GetCircuitInfo(ctx context.Context, circuitID string) (CircuitSummary, error)

	// Components and models
	AddComponent(ctx context.Context, circuitID string, c Component) error
	ModifyComponent(ctx context.Context, circuitID, referenceDesignator string, c Component) error
	ComponentInfo(ctx context.Context, circuitID, referenceDesignator string) (Component, error)
	DefineModel(ctx context.Context, circuitID, modelName, modelType string, parameters map[string]float64) error

	// Netlist
	ImportNetlist(ctx context.Context, circuitID, netlist string) error
	ExportNetlist(ctx context.Context, circuitID string) (string, error)

	// Validation
	ValidateCircuit(ctx context.Context, circuitID string) ([]ValidationIssue, error)

	// Analyses — each returns the result that the dispatcher stores in
	// ResultsCache under circuitID.
	RunDCSweep(ctx context.Context, circuitID string, source string, start, stop, step float64) (CachedAnalysisResult, error)
	RunTransient(ctx context.Context, circuitID string, stopTime, stepTime float64) (CachedAnalysisResult, error)
	RunAC(ctx context.Context, circuitID string, sweepType string, points int, startFreq, stopFreq float64) (CachedAnalysisResult, error)
	RunOperatingPoint(ctx context.Context, circuitID string) (CachedAnalysisResult, error)
	RunParameterSweep(ctx context.Context, circuitID, parameter string, start, stop, step float64) (CachedAnalysisResult, error)
	RunTemperatureSweep(ctx context.Context, circuitID string, start, stop, step float64) (CachedAnalysisResult, error)

	// Derived analyses, read the cached result for circuitID.
	ComputeImpedance(ctx context.Context, circuitID string, cached CachedAnalysisResult, nodeA, nodeB string) (MeasurementResult, error)
	ExtractMeasurement(ctx context.Context, circuitID string, cached CachedAnalysisResult, measurement string) (MeasurementResult, error)
	ComputeGroupDelay(ctx context.Context, circuitID string, cached CachedAnalysisResult, signal string) (MeasurementResult, error)

	// Rendering
	RenderSchematic(ctx context.Context, circuitID string) (ContentItem, error)
	RenderPlot(ctx context.Context, circuitID string, cached CachedAnalysisResult, signals []string) (ContentItem, error)

	// Library / database lookups
	LookupComponent(ctx context.Context, query string) ([]Component, error)
}
