package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "template_load",
			Description: "Load a certificate template image (PNG, JPEG, BMP or TIFF) and start a fresh editing session. Any previous regions are discarded. Returns the template dimensions and a base64 JPEG preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the template image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "regions_detect",
			Description: "Scan the loaded template for blank areas suitable for text and add them to the session as auto-origin regions, in reading order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"max_regions": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of proposals. Default 8",
						"default":     8,
					},
				},
			},
		},

		// Region Editing
		{
			Name:        "region_add",
			Description: "Add a text region manually. Geometry is clamped into template bounds; the region id continues the letter sequence (a, b, .., z, aa).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge in template pixels",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge in template pixels",
					},
					"w": map[string]interface{}{
						"type":        "integer",
						"description": "Width in pixels. Default 200",
						"default":     200,
					},
					"h": map[string]interface{}{
						"type":        "integer",
						"description": "Height in pixels. Default 60",
						"default":     60,
					},
					"rotation": map[string]interface{}{
						"type":        "number",
						"description": "Rotation in degrees, normalized to [0,360)",
					},
				},
			},
		},
		{
			Name:        "region_update",
			Description: "Apply a partial update to a region: any of position, size, rotation and style. Omitted fields are left unchanged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Region id",
					},
					"x": map[string]interface{}{"type": "integer"},
					"y": map[string]interface{}{"type": "integer"},
					"w": map[string]interface{}{"type": "integer"},
					"h": map[string]interface{}{"type": "integer"},
					"rotation": map[string]interface{}{
						"type": "number",
					},
					"style": map[string]interface{}{
						"type":        "object",
						"description": "Full replacement style: bold, italic, underline, color (#RRGGBB), fontFamily, fontSize (0 = auto-fit)",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "region_move",
			Description: "Move a region's top-left corner, clamped into template bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{"type": "string"},
					"x":  map[string]interface{}{"type": "integer"},
					"y":  map[string]interface{}{"type": "integer"},
				},
				"required": []string{"id", "x", "y"},
			},
		},
		{
			Name:        "region_resize",
			Description: "Resize a region, clamped into template bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{"type": "string"},
					"w":  map[string]interface{}{"type": "integer"},
					"h":  map[string]interface{}{"type": "integer"},
				},
				"required": []string{"id", "w", "h"},
			},
		},
		{
			Name:        "region_rotate",
			Description: "Set a region's rotation in degrees; the angle is normalized to [0,360).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":      map[string]interface{}{"type": "string"},
					"degrees": map[string]interface{}{"type": "number"},
				},
				"required": []string{"id", "degrees"},
			},
		},
		{
			Name:        "region_remove",
			Description: "Remove a region and any binding it held. Surviving region ids are never renumbered.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{"type": "string"},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "region_bind",
			Description: "Bind a region to a dataset column name (case-sensitive, unique across regions). An empty name clears the binding.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{"type": "string"},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Dataset column name, or empty to unbind",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "region_list",
			Description: "List all regions in the session, in insertion order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Layout Persistence
		{
			Name:        "layout_export",
			Description: "Export the session's regions as a layout. With a path the layout is written as JSON to that file; without one it is returned inline.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path for the layout JSON",
					},
				},
			},
		},
		{
			Name:        "layout_import",
			Description: "Replace the session's regions with a saved layout. The layout's template dimensions must match the loaded template exactly.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the layout JSON file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Fonts
		{
			Name:        "font_load",
			Description: "Register a TTF/OTF font file as a named family for region styles. The bundled Go family is always available.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Family name to register the font under",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the font file",
					},
				},
				"required": []string{"name", "path"},
			},
		},

		// Generation
		{
			Name:        "dataset_validate",
			Description: "Read a CSV/TSV dataset and check it against the session's bound variable names. Mismatches are reported in the result, not as errors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the dataset file (.csv or .tsv, first row is the header)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "certificates_generate",
			Description: "Validate the dataset and render one certificate JPEG per row into the output directory, named certificate_001.jpg onward in row order. Failed rows are skipped and reported; text overflow is a warning.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"data_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the dataset file (.csv or .tsv)",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the generated files. Default current directory",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Rows rendered concurrently. Default: number of CPUs",
					},
					"sample_only": map[string]interface{}{
						"type":        "boolean",
						"description": "Render only the first row, as a preview",
					},
				},
				"required": []string{"data_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
