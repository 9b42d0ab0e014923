package present

import (
	"encoding/json"
	"fmt"
	"html/template"
)

const fontColor = "#ffffff"

// Renderable is any go-echarts chart.
type Renderable interface {
	Validate()
	JSON() map[string]any
}

// ChartOptions returns the ECharts option object for c with the dashboard
// theme applied: transparent background and white text throughout.
func ChartOptions(c Renderable) (template.JS, error) {
	c.Validate()

	// go-echarts option structs carry v1 omitempty tags, so they are
	// flattened with encoding/json before patching.
	raw, err := json.Marshal(c.JSON())
	if err != nil {
		return "", fmt.Errorf("marshal chart options: %w", err)
	}
	var options map[string]any
	if err := json.Unmarshal(raw, &options); err != nil {
		return "", fmt.Errorf("decode chart options: %w", err)
	}

	applyTheme(options)

	out, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("marshal themed options: %w", err)
	}
	return template.JS(out), nil //#nosec G203 -- produced by json.Marshal
}

func applyTheme(options map[string]any) {
	options["backgroundColor"] = "transparent"
	options["textStyle"] = map[string]any{"color": fontColor}

	for _, key := range []string{"title", "legend", "visualMap"} {
		for _, component := range components(options[key]) {
			style := object(component, "textStyle")
			style["color"] = fontColor
		}
	}
	for _, key := range []string{"xAxis", "yAxis"} {
		for _, axis := range components(options[key]) {
			object(axis, "nameTextStyle")["color"] = fontColor
			object(axis, "axisLabel")["color"] = fontColor
		}
	}
	for _, series := range components(options["series"]) {
		if label, ok := series["label"].(map[string]any); ok {
			label["color"] = fontColor
		}
	}
}

// components normalizes an option value that ECharts accepts either as one
// object or a list of objects.
func components(v any) []map[string]any {
	switch v := v.(type) {
	case map[string]any:
		return []map[string]any{v}
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func object(parent map[string]any, key string) map[string]any {
	if m, ok := parent[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	parent[key] = m
	return m
}
