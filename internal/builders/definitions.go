package builders

// GetBuilderDefinitions returns the builders in JSON schema form, the shape
// toolbar clients and tool-calling integrations consume.
func GetBuilderDefinitions() []map[string]interface{} {
	num := func(description string) map[string]interface{} {
		return map[string]interface{}{"type": "number", "description": description}
	}
	text := func(description string) map[string]interface{} {
		return map[string]interface{}{"type": "string", "description": description}
	}

	return []map[string]interface{}{
		{
			"name":        "createStickyNote",
			"description": "Creates a sticky note with its top-left corner at (x, y).",
			"input_schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x":      num("Board x coordinate of the top-left corner"),
					"y":      num("Board y coordinate of the top-left corner"),
					"width":  num("Width, defaults to 200"),
					"height": num("Height, defaults to 150"),
					"text":   text("Note content"),
					"color":  text("Fill color (e.g., '#fff59d')"),
				},
				"required": []string{"x", "y"},
			},
		},
		{
			"name":        "createShape",
			"description": "Creates a rect, circle, diamond or triangle. Circles are positioned by their center.",
			"input_schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"shape": map[string]interface{}{
						"type": "string",
						"enum": []string{"rect", "circle", "diamond", "triangle"},
					},
					"x":           num("Board x coordinate"),
					"y":           num("Board y coordinate"),
					"width":       num("Width for rect, diamond and triangle"),
					"height":      num("Height for rect, diamond and triangle"),
					"radius":      num("Radius for circle, defaults to 50"),
					"color":       text("Fill color"),
					"strokeColor": text("Stroke color"),
					"strokeWidth": num("Stroke width"),
				},
				"required": []string{"shape", "x", "y"},
			},
		},
		{
			"name":        "createFrame",
			"description": "Creates a titled frame. Objects placed on top of it move with it.",
			"input_schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x":      num("Board x coordinate of the top-left corner"),
					"y":      num("Board y coordinate of the top-left corner"),
					"width":  num("Width, defaults to 600, at least 80"),
					"height": num("Height, defaults to 400, at least 80"),
					"title":  text("Frame title"),
				},
				"required": []string{"x", "y"},
			},
		},
		{
			"name":        "createText",
			"description": "Creates a text box. Blank text is rejected.",
			"input_schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x":          num("Board x coordinate of the top-left corner"),
					"y":          num("Board y coordinate of the top-left corner"),
					"text":       text("Content"),
					"fontSize":   num("Font size, defaults to 16"),
					"fontFamily": text("Font family"),
					"color":      text("Text color"),
				},
				"required": []string{"x", "y", "text"},
			},
		},
		{
			"name":        "createLine",
			"description": "Creates a free line between two board points.",
			"input_schema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x1":          num("Start x"),
					"y1":          num("Start y"),
					"x2":          num("End x"),
					"y2":          num("End y"),
					"strokeColor": text("Stroke color"),
					"arrowEnd":    map[string]interface{}{"type": "boolean"},
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},
	}
}
