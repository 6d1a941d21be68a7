package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Shared schema fragments. Every detection tool takes the image by path
// plus a click point in original-image pixel coordinates.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func clickProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"click_x": map[string]interface{}{
			"type":        "number",
			"description": "Clicked X coordinate in original-image pixels",
		},
		"click_y": map[string]interface{}{
			"type":        "number",
			"description": "Clicked Y coordinate in original-image pixels",
		},
		"max_working_dim": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum working dimension; larger images are downsampled for speed. Default 1024",
			"default":     1024,
		},
		"smooth_radius": map[string]interface{}{
			"type":        "number",
			"description": "Optional Gaussian blur radius applied before detection to suppress noise. Default 0 (off)",
			"default":     0,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, and intensity range. Subsequent tools reuse the cached decode.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_threshold_range",
			Description: "Get the minimum and maximum intensity of an image, for populating threshold slider bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Region Detection
		{
			Name: "region_detect",
			Description: "Detect the connected dark region containing a clicked pixel, using a relative threshold: " +
				"clicked intensity plus tolerance times the image's dynamic range. Returns a fast preview polygon, " +
				"area, centroid, and a detection_id for region_finalize / region_render_overlay.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(clickProperties(), map[string]interface{}{
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Tolerance as a fraction of the intensity range (0.0-1.0). Higher includes more pixels. Default 0.10",
						"default":     0.10,
					},
				}),
				"required": []string{"path", "click_x", "click_y"},
			},
		},
		{
			Name: "region_detect_absolute",
			Description: "Detect the connected dark region containing a clicked pixel using an absolute intensity threshold " +
				"(0-255 scale). Pixels strictly below the threshold count as dark.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(clickProperties(), map[string]interface{}{
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Absolute intensity threshold; pixels strictly below it are dark",
					},
				}),
				"required": []string{"path", "click_x", "click_y", "threshold"},
			},
		},
		{
			Name: "region_finalize",
			Description: "Re-derive a high-fidelity polygon from a stored detection's mask using adaptive error-bounded " +
				"simplification, without re-running detection. Use after a region_detect preview looks right.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"detection_id": map[string]interface{}{
						"type":        "string",
						"description": "ID returned by region_detect or region_detect_absolute",
					},
				},
				"required": []string{"detection_id"},
			},
		},
		{
			Name:        "region_render_overlay",
			Description: "Render a stored detection over its source image (mask tint plus polygon outline) as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"detection_id": map[string]interface{}{
						"type":        "string",
						"description": "ID returned by region_detect or region_detect_absolute",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Overlay color as #RRGGBB. Default #00FFFF",
						"default":     "#00FFFF",
					},
				},
				"required": []string{"detection_id"},
			},
		},
	}
}

// mergeProperties combines schema property maps; later maps win on key
// collisions.
func mergeProperties(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
