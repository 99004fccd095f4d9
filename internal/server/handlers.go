package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"certforge/internal/dataset"
	"certforge/internal/detection"
	"certforge/internal/imaging"
	"certforge/internal/region"
	"certforge/internal/render"
	"certforge/internal/textfit"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "template_load", "region_bind").
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Reads or mutates the session (template + region store)
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "template_load":
		return s.handleTemplateLoad(args)
	case "regions_detect":
		return s.handleRegionsDetect(args)

	// Region Editing
	case "region_add":
		return s.handleRegionAdd(args)
	case "region_update":
		return s.handleRegionUpdate(args)
	case "region_move":
		return s.handleRegionMove(args)
	case "region_resize":
		return s.handleRegionResize(args)
	case "region_rotate":
		return s.handleRegionRotate(args)
	case "region_remove":
		return s.handleRegionRemove(args)
	case "region_bind":
		return s.handleRegionBind(args)
	case "region_list":
		return s.handleRegionList(args)

	// Layout Persistence
	case "layout_export":
		return s.handleLayoutExport(args)
	case "layout_import":
		return s.handleLayoutImport(args)

	// Fonts
	case "font_load":
		return s.handleFontLoad(args)

	// Generation
	case "dataset_validate":
		return s.handleDatasetValidate(args)
	case "certificates_generate":
		return s.handleCertificatesGenerate(args)

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

// requireSession returns the loaded template's store, or an error when no
// template has been loaded yet.
func (s *Server) requireSession() (*region.Store, error) {
	if s.template == nil || s.store == nil {
		return nil, fmt.Errorf("no template loaded; call template_load first")
	}
	return s.store, nil
}

// regionEntry flattens a region for tool results, in the same shape layout
// files use.
func regionEntry(r region.Region) region.LayoutRegion {
	return region.LayoutRegion{
		ID:       r.ID,
		X:        r.Rect.X,
		Y:        r.Rect.Y,
		W:        r.Rect.W,
		H:        r.Rect.H,
		Rotation: r.Rotation,
		Origin:   r.Origin,
		Binding:  r.Binding,
		Style:    r.Style,
	}
}

func regionEntries(regions []region.Region) []region.LayoutRegion {
	out := make([]region.LayoutRegion, len(regions))
	for i, r := range regions {
		out[i] = regionEntry(r)
	}
	return out
}

// === Session Handlers ===

// previewMaxWidth bounds the base64 preview returned by template_load.
const previewMaxWidth = 320

type templateLoadArgs struct {
	Path string `json:"path"`
}

// handleTemplateLoad decodes a template and resets the session: a fresh
// region store sized to the new template replaces any previous state.
func (s *Server) handleTemplateLoad(args json.RawMessage) (interface{}, error) {
	var a templateLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tpl, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	s.template = tpl
	s.store = region.NewStore(tpl.Width(), tpl.Height())

	// Scaled-down preview for clients that want to show the template.
	preview := imaging.Thumbnail(tpl.Image(), previewMaxWidth)
	var buf bytes.Buffer
	if err := imaging.EncodeJPEG(&buf, preview); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"path":          tpl.Path(),
		"width":         tpl.Width(),
		"height":        tpl.Height(),
		"format":        tpl.Format(),
		"preview":       base64.StdEncoding.EncodeToString(buf.Bytes()),
		"previewWidth":  preview.Bounds().Dx(),
		"previewHeight": preview.Bounds().Dy(),
	}, nil
}

type regionsDetectArgs struct {
	MaxRegions int `json:"max_regions"`
}

// handleRegionsDetect proposes blank regions on the loaded template and adds
// them to the store with auto origin. Manually added regions are kept.
func (s *Server) handleRegionsDetect(args json.RawMessage) (interface{}, error) {
	var a regionsDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	opts := detection.DefaultOptions()
	if a.MaxRegions > 0 {
		opts.MaxRegions = a.MaxRegions
	}
	rects, err := detection.Detect(s.template.Image(), opts)
	if err != nil {
		return nil, err
	}

	added := make([]region.LayoutRegion, 0, len(rects))
	for _, r := range rects {
		stored := store.Add(region.Region{Rect: r, Origin: region.OriginAuto})
		added = append(added, regionEntry(stored))
	}
	return map[string]interface{}{
		"regions": added,
		"count":   len(added),
	}, nil
}

// === Region Editing Handlers ===

type regionAddArgs struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	W        int     `json:"w"`
	H        int     `json:"h"`
	Rotation float64 `json:"rotation"`
}

func (s *Server) handleRegionAdd(args json.RawMessage) (interface{}, error) {
	var a regionAddArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if a.W == 0 {
		a.W = 200
	}
	if a.H == 0 {
		a.H = 60
	}
	stored := store.Add(region.Region{
		Rect:     region.Rect{X: a.X, Y: a.Y, W: a.W, H: a.H},
		Rotation: a.Rotation,
		Origin:   region.OriginManual,
	})
	return regionEntry(stored), nil
}

type regionUpdateArgs struct {
	ID       string        `json:"id"`
	X        *int          `json:"x,omitempty"`
	Y        *int          `json:"y,omitempty"`
	W        *int          `json:"w,omitempty"`
	H        *int          `json:"h,omitempty"`
	Rotation *float64      `json:"rotation,omitempty"`
	Style    *region.Style `json:"style,omitempty"`
}

func (s *Server) handleRegionUpdate(args json.RawMessage) (interface{}, error) {
	var a regionUpdateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	updated, err := store.Update(a.ID, region.Patch{
		X:        a.X,
		Y:        a.Y,
		W:        a.W,
		H:        a.H,
		Rotation: a.Rotation,
		Style:    a.Style,
	})
	if err != nil {
		return nil, err
	}
	return regionEntry(updated), nil
}

type regionMoveArgs struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

func (s *Server) handleRegionMove(args json.RawMessage) (interface{}, error) {
	var a regionMoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	moved, err := store.MoveTo(a.ID, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return regionEntry(moved), nil
}

type regionResizeArgs struct {
	ID string `json:"id"`
	W  int    `json:"w"`
	H  int    `json:"h"`
}

func (s *Server) handleRegionResize(args json.RawMessage) (interface{}, error) {
	var a regionResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	resized, err := store.ResizeTo(a.ID, a.W, a.H)
	if err != nil {
		return nil, err
	}
	return regionEntry(resized), nil
}

type regionRotateArgs struct {
	ID      string  `json:"id"`
	Degrees float64 `json:"degrees"`
}

func (s *Server) handleRegionRotate(args json.RawMessage) (interface{}, error) {
	var a regionRotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	rotated, err := store.RotateTo(a.ID, a.Degrees)
	if err != nil {
		return nil, err
	}
	return regionEntry(rotated), nil
}

type regionRemoveArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleRegionRemove(args json.RawMessage) (interface{}, error) {
	var a regionRemoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := store.Remove(a.ID); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"removed": a.ID,
		"count":   store.Len(),
	}, nil
}

type regionBindArgs struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// handleRegionBind binds a region to a dataset variable name. An empty name
// clears the binding.
func (s *Server) handleRegionBind(args json.RawMessage) (interface{}, error) {
	var a regionBindArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if err := store.Bind(a.ID, a.Name); err != nil {
		return nil, err
	}
	bound, _ := store.Get(a.ID)
	return regionEntry(bound), nil
}

func (s *Server) handleRegionList(args json.RawMessage) (interface{}, error) {
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"regions": regionEntries(store.List()),
		"count":   store.Len(),
	}, nil
}

// === Layout Persistence Handlers ===

type layoutExportArgs struct {
	Path string `json:"path"`
}

// handleLayoutExport returns the session layout, writing it to a file when a
// path is given.
func (s *Server) handleLayoutExport(args json.RawMessage) (interface{}, error) {
	var a layoutExportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	layout := store.ExportLayout()
	if a.Path != "" {
		if err := layout.WriteFile(a.Path); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"path":  a.Path,
			"count": len(layout.Regions),
		}, nil
	}
	return layout, nil
}

type layoutImportArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLayoutImport(args json.RawMessage) (interface{}, error) {
	var a layoutImportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	layout, err := region.ReadLayoutFile(a.Path)
	if err != nil {
		return nil, err
	}
	if err := store.ImportLayout(layout); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"regions": regionEntries(store.List()),
		"count":   store.Len(),
	}, nil
}

// === Font Handlers ===

type fontLoadArgs struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (s *Server) handleFontLoad(args json.RawMessage) (interface{}, error) {
	var a fontLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Name == "" {
		return nil, fmt.Errorf("font family name is required")
	}
	family, err := textfit.LoadFamilyFile(a.Name, a.Path)
	if err != nil {
		return nil, err
	}
	s.fitter.Registry().Register(family)
	return map[string]interface{}{
		"family": a.Name,
	}, nil
}

// === Generation Handlers ===

type datasetValidateArgs struct {
	Path string `json:"path"`
}

// handleDatasetValidate checks a dataset file against the session's bound
// variable names. A mismatch is an expected outcome and is reported in the
// result, not as a tool error; only an unreadable file fails the call.
func (s *Server) handleDatasetValidate(args json.RawMessage) (interface{}, error) {
	var a datasetValidateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.ReadFile(a.Path)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"columns": ds.Columns,
		"rows":    ds.Len(),
	}
	if err := dataset.Validate(ds, store.BoundNames()); err != nil {
		result["valid"] = false
		result["problems"] = err.Error()
	} else {
		result["valid"] = true
	}
	return result, nil
}

type certificatesGenerateArgs struct {
	DataPath   string `json:"data_path"`
	OutputDir  string `json:"output_dir"`
	Workers    int    `json:"workers"`
	SampleOnly bool   `json:"sample_only"`
}

// handleCertificatesGenerate validates the dataset against the session's
// bindings and renders one certificate per row into the output directory.
// Validation failure aborts the attempt; per-row render failures do not.
func (s *Server) handleCertificatesGenerate(args json.RawMessage) (interface{}, error) {
	var a certificatesGenerateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	store, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		a.OutputDir = "."
	}

	ds, err := dataset.ReadFile(a.DataPath)
	if err != nil {
		return nil, err
	}
	if err := dataset.Validate(ds, store.BoundNames()); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(a.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	report, err := s.renderer.RenderBatch(context.Background(), s.template, store.List(), ds, a.OutputDir, render.BatchOptions{
		Workers:    a.Workers,
		SampleOnly: a.SampleOnly,
	})
	if err != nil {
		return nil, err
	}

	files := make([]string, len(report.Generated))
	for i, out := range report.Generated {
		files[i] = out.Path
	}
	skipped := make([]map[string]interface{}, len(report.Skipped))
	for i, f := range report.Skipped {
		skipped[i] = map[string]interface{}{
			"row":   f.Row,
			"error": f.Err.Error(),
		}
	}
	overflows := make([]map[string]interface{}, len(report.Overflows))
	for i, o := range report.Overflows {
		overflows[i] = map[string]interface{}{
			"row":     o.Row,
			"region":  o.Warning.RegionID,
			"binding": o.Warning.Binding,
			"text":    o.Warning.Text,
		}
	}
	return map[string]interface{}{
		"generated": len(report.Generated),
		"files":     files,
		"skipped":   skipped,
		"overflows": overflows,
	}, nil
}
