package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nomagicln/arbitrary/pkg/check"
	"github.com/nomagicln/arbitrary/pkg/property"
	"github.com/nomagicln/arbitrary/pkg/session"
)

// Tool names.
const (
	ToolGenerateValues = "GenerateValues"
	ToolShrinkValue    = "ShrinkValue"
	ToolCheckProperty  = "CheckProperty"
)

// DefaultCount is the number of values GenerateValues returns when unset.
const DefaultCount = 10

const generateDescTemplate = `Generate random values from a named generator.
Available generators:{{range .Generators}}
  - {{.Name}} ({{.Kind}}, domain {{.Domain}}){{if .Description}}: {{.Description}}{{end}}{{end}}
The same seed always yields the same values.`

const shrinkDescTemplate = `List the simpler candidates a generator proposes for a value, simplest first.
Integer values are given as numbers, int-slice values as arrays (e.g. [1, 2, 3]).
Values outside the generator's domain are rejected.`

const checkDescTemplate = `Check a property against values drawn from a named generator.
On failure the counterexample is minimized and both the original and the shrunk value are returned.
Number functions: {{join .Number ", "}}
Sequence functions: {{join .Sequence ", "}}
Combine with &&, || and !. Example: AtLeast(0) && Below(50)`

// Handler serves the generator tools.
type Handler struct {
	session *session.Session
}

// NewHandler creates a handler backed by s.
func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

// Register adds the tools to the server.
func (h *Handler) Register(s *mcp.Server) {
	generateTool := h.buildGenerateToolDefinition()
	s.AddTool(&generateTool, h.handleGenerateValues)

	shrinkTool := h.buildShrinkToolDefinition()
	s.AddTool(&shrinkTool, h.handleShrinkValue)

	checkTool := h.buildCheckToolDefinition()
	s.AddTool(&checkTool, h.handleCheckProperty)
}

func (h *Handler) buildGenerateToolDefinition() mcp.Tool {
	data := map[string]any{}
	if infos, err := h.session.Generators(); err == nil {
		data["Generators"] = infos
	}

	return mcp.Tool{
		Name:        ToolGenerateValues,
		Description: render("generateDesc", generateDescTemplate, data, "Generate random values from a named generator."),
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"generator": map[string]any{
					"type":        "string",
					"description": "Name of the generator.",
				},
				"count": map[string]any{
					"type":        "integer",
					"description": "Number of values to generate (default 10).",
					"minimum":     1,
					"maximum":     session.MaxSamples,
				},
				"seed": map[string]any{
					"type":        "integer",
					"description": "Seed for the random source. Omit for the configured or a time-based seed.",
					"minimum":     0,
				},
			},
			"required": []string{"generator"},
		},
	}
}

func (h *Handler) buildShrinkToolDefinition() mcp.Tool {
	return mcp.Tool{
		Name:        ToolShrinkValue,
		Description: shrinkDescTemplate,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"generator": map[string]any{
					"type":        "string",
					"description": "Name of the generator.",
				},
				"value": map[string]any{
					"description": "The value to shrink: a number, or an array of integers.",
				},
			},
			"required": []string{"generator", "value"},
		},
	}
}

func (h *Handler) buildCheckToolDefinition() mcp.Tool {
	data := map[string]any{
		"Number":   property.Functions(property.Number),
		"Sequence": property.Functions(property.Sequence),
	}

	return mcp.Tool{
		Name:        ToolCheckProperty,
		Description: render("checkDesc", checkDescTemplate, data, "Check a property against values drawn from a named generator."),
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"generator": map[string]any{
					"type":        "string",
					"description": "Name of the generator.",
				},
				"property": map[string]any{
					"type":        "string",
					"description": "Property expression every value must satisfy.",
				},
				"trials": map[string]any{
					"type":        "integer",
					"description": "Number of values to test.",
					"minimum":     1,
				},
				"seed": map[string]any{
					"type":        "integer",
					"description": "Seed for the random source.",
					"minimum":     0,
				},
			},
			"required": []string{"generator", "property"},
		},
	}
}

func (h *Handler) handleGenerateValues(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Generator string  `json:"generator"`
		Count     int     `json:"count"`
		Seed      *uint64 `json:"seed"`
	}
	if err := decodeArgs(req.Params.Arguments, &args); err != nil {
		return errorResult("Invalid arguments: %v", err), nil
	}
	if args.Generator == "" {
		return errorResult("generator is required"), nil
	}
	if args.Count == 0 {
		args.Count = DefaultCount
	}

	seed := h.session.CheckDefaults(check.DefaultConfig()).Seed
	if args.Seed != nil {
		seed = *args.Seed
	}

	samples, err := h.session.Generate(args.Generator, args.Count, seed)
	if err != nil {
		return errorResult("Generate failed: %v", err), nil
	}
	return jsonResult(samples, false), nil
}

func (h *Handler) handleShrinkValue(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Generator string          `json:"generator"`
		Value     json.RawMessage `json:"value"`
	}
	if err := decodeArgs(req.Params.Arguments, &args); err != nil {
		return errorResult("Invalid arguments: %v", err), nil
	}
	if args.Generator == "" {
		return errorResult("generator is required"), nil
	}
	if len(args.Value) == 0 {
		return errorResult("value is required"), nil
	}

	// Accept values quoted as strings as well as raw JSON numbers and arrays.
	// JSON null falls through and is rejected by the parser.
	text := string(args.Value)
	if args.Value[0] == '"' {
		var quoted string
		if err := json.Unmarshal(args.Value, &quoted); err != nil {
			return errorResult("Invalid arguments: %v", err), nil
		}
		text = quoted
	}

	list, err := h.session.Shrink(args.Generator, text)
	if err != nil {
		return errorResult("Shrink failed: %v", err), nil
	}
	return jsonResult(list, false), nil
}

func (h *Handler) handleCheckProperty(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Generator string  `json:"generator"`
		Property  string  `json:"property"`
		Trials    int     `json:"trials"`
		Seed      *uint64 `json:"seed"`
	}
	if err := decodeArgs(req.Params.Arguments, &args); err != nil {
		return errorResult("Invalid arguments: %v", err), nil
	}
	if args.Generator == "" || args.Property == "" {
		return errorResult("generator and property are required"), nil
	}

	cfg := h.session.CheckDefaults(check.DefaultConfig())
	if args.Trials > 0 {
		cfg.Trials = args.Trials
	}
	if args.Seed != nil {
		cfg.Seed = *args.Seed
	}

	result, err := h.session.Check(ctx, args.Generator, args.Property, cfg)
	if err != nil {
		return errorResult("Check failed: %v", err), nil
	}
	return jsonResult(result, !result.Passed), nil
}

// render executes a description template, returning fallback on failure.
func render(name, text string, data any, fallback string) string {
	tpl, err := template.New(name).Funcs(template.FuncMap{"join": strings.Join}).Parse(text)
	if err != nil {
		return fallback
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return fallback
	}
	return buf.String()
}
