package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pipettekit/region-tools-mcp/internal/detection"
	"github.com/pipettekit/region-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "region_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Detection failures (no region, region too small, uniform image) travel
// this path too: the client is expected to present them as "no region
// detected, try adjusting the threshold" and retry with new parameters.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_threshold_range":
		return s.handleThresholdRange(args)
	case "region_detect":
		return s.handleRegionDetect(args)
	case "region_detect_absolute":
		return s.handleRegionDetectAbsolute(args)
	case "region_finalize":
		return s.handleRegionFinalize(args)
	case "region_render_overlay":
		return s.handleRenderOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Detection store ===

// storedDetection pairs a detection result with the context needed to
// finalize or render it later: the source path and original dimensions.
type storedDetection struct {
	result *detection.Result
	path   string
	origW  int
	origH  int
	smooth float64
}

// detectionStore holds detections across tool calls, keyed by generated
// IDs, so a client can run the preview/finalize workflow statefully over
// a stateless protocol.
type detectionStore struct {
	mu     sync.Mutex
	nextID int
	items  map[string]*storedDetection
}

func newDetectionStore() *detectionStore {
	return &detectionStore{items: make(map[string]*storedDetection)}
}

func (ds *detectionStore) put(d *storedDetection) string {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.nextID++
	id := fmt.Sprintf("det-%d", ds.nextID)
	ds.items[id] = d
	return id
}

func (ds *detectionStore) get(id string) (*storedDetection, bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	d, ok := ds.items[id]
	return d, ok
}

// === Image information handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// ThresholdRangeResult reports the intensity extremes of an image.
type ThresholdRangeResult struct {
	MinIntensity float64 `json:"min_intensity"`
	MaxIntensity float64 `json:"max_intensity"`
}

func (s *Server) handleThresholdRange(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, grid, err := s.cache.Load(a.Path, 0)
	if err != nil {
		return nil, err
	}
	min, max := detection.ThresholdRange(grid)
	return &ThresholdRangeResult{MinIntensity: min, MaxIntensity: max}, nil
}

// === Detection handlers ===

type regionDetectArgs struct {
	Path   string  `json:"path"`
	ClickX float64 `json:"click_x"`
	ClickY float64 `json:"click_y"`

	// Tolerance is a pointer so an omitted field (use the detector
	// default) stays distinguishable from an explicit 0.0, which is a
	// valid tolerance that makes detection fail everywhere.
	Tolerance *float64 `json:"tolerance"`

	Threshold     float64 `json:"threshold"`
	MaxWorkingDim int     `json:"max_working_dim"`
	SmoothRadius  float64 `json:"smooth_radius"`
}

// DetectionResponse is the wire form of a detection: the preview polygon
// and summary statistics, plus the ID under which the full result
// (including the working-resolution mask) is stored.
type DetectionResponse struct {
	DetectionID  string            `json:"detection_id"`
	Vertices     []detection.Point `json:"vertices"`
	VertexCount  int               `json:"vertex_count"`
	AreaPx       float64           `json:"area_px"`
	Centroid     detection.Point   `json:"centroid"`
	ClickedValue float64           `json:"clicked_value"`
	Threshold    float64           `json:"threshold"`
}

func (s *Server) handleRegionDetect(args json.RawMessage) (interface{}, error) {
	var a regionDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, grid, err := s.cache.Load(a.Path, a.SmoothRadius)
	if err != nil {
		return nil, err
	}

	tolerance := -1.0
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}

	result, err := s.detector.DetectRegion(grid, a.ClickX, a.ClickY, tolerance, a.MaxWorkingDim)
	if err != nil {
		return nil, err
	}

	return s.storeAndRespond(result, a, img.Bounds().Dx(), img.Bounds().Dy()), nil
}

func (s *Server) handleRegionDetectAbsolute(args json.RawMessage) (interface{}, error) {
	var a regionDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, grid, err := s.cache.Load(a.Path, a.SmoothRadius)
	if err != nil {
		return nil, err
	}

	result, err := s.detector.DetectAbsolute(grid, a.ClickX, a.ClickY, a.Threshold, a.MaxWorkingDim)
	if err != nil {
		return nil, err
	}

	return s.storeAndRespond(result, a, img.Bounds().Dx(), img.Bounds().Dy()), nil
}

func (s *Server) storeAndRespond(result *detection.Result, a regionDetectArgs, origW, origH int) *DetectionResponse {
	id := s.detections.put(&storedDetection{
		result: result,
		path:   a.Path,
		origW:  origW,
		origH:  origH,
		smooth: a.SmoothRadius,
	})

	return &DetectionResponse{
		DetectionID:  id,
		Vertices:     result.Vertices,
		VertexCount:  len(result.Vertices),
		AreaPx:       result.AreaPx,
		Centroid:     result.Centroid,
		ClickedValue: result.ClickedValue,
		Threshold:    result.Threshold,
	}
}

// === Finalize and overlay handlers ===

type detectionIDArgs struct {
	DetectionID string `json:"detection_id"`
	Color       string `json:"color"`
}

// FinalizeResponse carries the high-fidelity polygon for a stored
// detection.
type FinalizeResponse struct {
	DetectionID string            `json:"detection_id"`
	Vertices    []detection.Point `json:"vertices"`
	VertexCount int               `json:"vertex_count"`
}

func (s *Server) handleRegionFinalize(args json.RawMessage) (interface{}, error) {
	var a detectionIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	stored, ok := s.detections.get(a.DetectionID)
	if !ok {
		return nil, fmt.Errorf("unknown detection_id: %s", a.DetectionID)
	}

	vertices, err := s.detector.FinalizePolygon(stored.result, stored.origW, stored.origH)
	if err != nil {
		return nil, err
	}

	return &FinalizeResponse{
		DetectionID: a.DetectionID,
		Vertices:    vertices,
		VertexCount: len(vertices),
	}, nil
}

func (s *Server) handleRenderOverlay(args json.RawMessage) (interface{}, error) {
	var a detectionIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#00FFFF"
	}

	stored, ok := s.detections.get(a.DetectionID)
	if !ok {
		return nil, fmt.Errorf("unknown detection_id: %s", a.DetectionID)
	}

	img, _, err := s.cache.Load(stored.path, stored.smooth)
	if err != nil {
		return nil, err
	}

	// Render the finalized polygon rather than the preview: anyone asking
	// for a committed overlay wants the high-fidelity boundary.
	vertices, err := s.detector.FinalizePolygon(stored.result, stored.origW, stored.origH)
	if err != nil {
		return nil, err
	}

	pairs := make([][2]float64, len(vertices))
	for i, v := range vertices {
		pairs[i] = [2]float64{v.X, v.Y}
	}

	mask := stored.result.Mask
	return imaging.RenderOverlay(img, mask.Bits, mask.W, mask.H, pairs, a.Color)
}
