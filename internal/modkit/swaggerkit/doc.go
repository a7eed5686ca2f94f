package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"bottlescan/internal/platform/config"
	perr "bottlescan/internal/platform/errors"
)

// Param is one documented path or query parameter
type Param struct {
	Name        string
	In          string // path or query
	Type        string // string, integer, number
	Required    bool
	Description string
}

// Op documents a single route relative to the doc's server URL
type Op struct {
	Method    string
	Path      string
	Tag       string
	Summary   string
	Params    []Param
	Multipart []string // form fields, file first
	JSONBody  bool
	Status    int
	Produces  string // defaults to application/json
}

// Doc is the input to the served OpenAPI document
type Doc struct {
	Title     string
	Version   string
	ServerURL string
	Ops       []Op
}

// SpecMutator lets modules tweak the built spec before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// Register adds a spec mutator
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// Build renders doc as an OAS3 document
func Build(doc Doc) map[string]any {
	paths := map[string]any{}
	for _, op := range doc.Ops {
		node, ok := paths[op.Path].(map[string]any)
		if !ok {
			node = map[string]any{}
			paths[op.Path] = node
		}
		node[strings.ToLower(op.Method)] = operation(op)
	}

	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   doc.Title,
			"version": doc.Version,
		},
		"paths": paths,
		"tags":  tags(doc.Ops),
	}
	ensureServers(spec, doc.ServerURL)
	ensureErrorResponseDefinition(spec)
	addDefaultError(spec)
	addDefaultBadRequest(spec)
	return spec
}

func operation(op Op) map[string]any {
	status := op.Status
	if status == 0 {
		status = http.StatusOK
	}
	produces := op.Produces
	if produces == "" {
		produces = "application/json"
	}

	out := map[string]any{
		"summary": op.Summary,
		"responses": map[string]any{
			strconv.Itoa(status): map[string]any{
				"description": http.StatusText(status),
				"content":     map[string]any{produces: map[string]any{}},
			},
		},
	}
	if op.Tag != "" {
		out["tags"] = []any{op.Tag}
	}

	if len(op.Params) > 0 {
		params := make([]any, 0, len(op.Params))
		for _, p := range op.Params {
			typ := p.Type
			if typ == "" {
				typ = "string"
			}
			params = append(params, map[string]any{
				"name":        p.Name,
				"in":          p.In,
				"required":    p.Required || p.In == "path",
				"description": p.Description,
				"schema":      map[string]any{"type": typ},
			})
		}
		out["parameters"] = params
	}

	switch {
	case len(op.Multipart) > 0:
		props := map[string]any{}
		for i, f := range op.Multipart {
			if i == 0 {
				props[f] = map[string]any{"type": "string", "format": "binary"}
				continue
			}
			props[f] = map[string]any{"type": "string"}
		}
		out["requestBody"] = map[string]any{
			"required": true,
			"content": map[string]any{
				"multipart/form-data": map[string]any{
					"schema": map[string]any{
						"type":       "object",
						"properties": props,
						"required":   []any{op.Multipart[0]},
					},
				},
			},
		}
	case op.JSONBody:
		out["requestBody"] = map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{"schema": map[string]any{"type": "object"}},
			},
		}
	}
	return out
}

func tags(ops []Op) []any {
	seen := map[string]bool{}
	var names []string
	for _, op := range ops {
		if op.Tag != "" && !seen[op.Tag] {
			seen[op.Tag] = true
			names = append(names, op.Tag)
		}
	}
	sort.Strings(names)
	out := make([]any, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]any{"name": n})
	}
	return out
}

// serveDocJSON serves the built spec and lets modules adjust details
func serveDocJSON(doc Doc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := Build(doc)

		cfg := config.New().Prefix("CORE_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers sets a servers array when missing
func ensureServers(spec map[string]any, url string) {
	if url == "" {
		url = "/api/v1"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{
			map[string]any{"url": url},
		}
	}
}

// ensureErrorResponseDefinition mirrors the runtime error envelope
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func errorResponse(status int, code perr.ErrorCode, msg string) map[string]any {
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        int(code),
					"error":       msg,
					"request_id":  "579f33bf50b1/abc-000001",
				},
			},
		},
	}
}

// addDefaultError injects a 500 response on every operation
func addDefaultError(spec map[string]any) {
	addDefault(spec, "500", errorResponse(http.StatusInternalServerError, perr.ErrorCodeUnknown, "panic recovered"))
}

// addDefaultBadRequest injects a 400 shaped like the binder's output
func addDefaultBadRequest(spec map[string]any) {
	addDefault(spec, "400", errorResponse(http.StatusBadRequest, perr.ErrorCodeValidation, "brand must be at most 128 characters"))
}

func addDefault(spec map[string]any, status string, resp map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[status]; !exists {
				responses[status] = resp
			}
		}
	}
}
