package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dafibh/fortuna/budget-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec is the subset of an OpenAPI 3.0 document produced from the swag output
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// ServeOpenAPI3Spec serves the generated Swagger 2.0 document converted to OpenAPI 3.0.
// The server entry points at the host the document was requested from.
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read API document")
	}

	out, err := convertSwagger2([]byte(doc))
	if err != nil {
		return NewInternalError(c, "Failed to convert API document")
	}

	basePath := docs.SwaggerInfo.BasePath
	out.Servers = []Server{{
		URL:         fmt.Sprintf("%s://%s%s", c.Scheme(), c.Request().Host, basePath),
		Description: "This server",
	}}
	return c.JSON(http.StatusOK, out)
}

func convertSwagger2(doc []byte) (*OpenAPI3Spec, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal(doc, &swagger2); err != nil {
		return nil, err
	}

	info, _ := swagger2["info"].(map[string]interface{})
	consumes := stringList(swagger2["consumes"], "application/json")

	paths := make(map[string]interface{})
	if raw, ok := swagger2["paths"].(map[string]interface{}); ok {
		for path, item := range raw {
			ops, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			converted := make(map[string]interface{}, len(ops))
			for method, op := range ops {
				if opMap, ok := op.(map[string]interface{}); ok {
					converted[method] = convertOperation(opMap, consumes)
				}
			}
			paths[path] = converted
		}
	}

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = rewriteRefs(definitions)
	}

	return &OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Paths:      paths,
		Components: components,
	}, nil
}

// convertOperation moves the body parameter into requestBody and wraps
// response schemas in a JSON content map
func convertOperation(op map[string]interface{}, defaultConsumes []string) map[string]interface{} {
	out := make(map[string]interface{}, len(op))
	for key, value := range op {
		switch key {
		case "parameters", "responses", "consumes", "produces":
		default:
			out[key] = rewriteRefs(value)
		}
	}

	consumes := stringList(op["consumes"], defaultConsumes...)
	if params, ok := op["parameters"].([]interface{}); ok {
		var converted []interface{}
		for _, p := range params {
			param, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if param["in"] == "body" {
				out["requestBody"] = map[string]interface{}{
					"required": param["required"] == true,
					"content":  contentFor(consumes, param["schema"]),
				}
				continue
			}
			converted = append(converted, convertParameter(param))
		}
		if len(converted) > 0 {
			out["parameters"] = converted
		}
	}

	if responses, ok := op["responses"].(map[string]interface{}); ok {
		converted := make(map[string]interface{}, len(responses))
		for code, r := range responses {
			resp, ok := r.(map[string]interface{})
			if !ok {
				continue
			}
			entry := map[string]interface{}{"description": resp["description"]}
			if schema, ok := resp["schema"]; ok {
				entry["content"] = contentFor(stringList(op["produces"], "application/json"), schema)
			}
			converted[code] = entry
		}
		out["responses"] = converted
	}
	return out
}

func convertParameter(param map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			out[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = rewriteRefs(val)
		}
	}
	if len(schema) > 0 {
		out["schema"] = schema
	}
	return out
}

func contentFor(mediaTypes []string, schema interface{}) map[string]interface{} {
	content := make(map[string]interface{}, len(mediaTypes))
	for _, mt := range mediaTypes {
		content[mt] = map[string]interface{}{"schema": rewriteRefs(schema)}
	}
	return content
}

// rewriteRefs points #/definitions/ references at #/components/schemas/
func rewriteRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				out[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			out[key] = rewriteRefs(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = rewriteRefs(item)
		}
		return out
	default:
		return data
	}
}

func stringList(v interface{}, fallback ...string) []string {
	items, ok := v.([]interface{})
	if !ok || len(items) == 0 {
		return fallback
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
