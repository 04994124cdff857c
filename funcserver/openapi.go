package funcserver

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/readyweaver/jsonutil"
)

const openapiVersion = "3.0.3"

type infoRoute struct {
	path        string
	summary     string
	canFail     bool
	contentType string
}

var infoRoutes = []infoRoute{
	{path: "/status", summary: "Static status payload", contentType: "application/json"},
	{path: "/healthz", summary: "Liveness checks", canFail: true, contentType: "application/json"},
	{path: "/readyz", summary: "Readiness checks", canFail: true, contentType: "application/json"},
	{path: "/version", summary: "Build information", contentType: "application/json"},
	{path: "/openapi.json", summary: "This document", contentType: "application/json"},
}

// buildDocument renders the OpenAPI document for the registered functions and
// loads it back through kin-openapi so it is validated before use.
func buildDocument(version string, names []string) ([]byte, *openapi3.T, error) {
	paths := make(map[string]any, len(names)+len(infoRoutes))

	for _, name := range names {
		paths["/"+name] = map[string]any{
			"get":  functionOperation("get", name),
			"post": functionOperation("post", name),
		}
	}

	for _, route := range infoRoutes {
		responses := map[string]any{
			"200": response("OK", route.contentType),
		}
		if route.canFail {
			responses["503"] = response("Check failed", "application/problem+json")
		}
		paths[route.path] = map[string]any{
			"get": map[string]any{
				"operationId": "get" + route.path,
				"summary":     route.summary,
				"responses":   responses,
			},
		}
	}

	raw, err := jsonutil.Marshal(map[string]any{
		"openapi": openapiVersion,
		"info": map[string]any{
			"title":   "readyweaver function host",
			"version": version,
		},
		"paths": paths,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("funcserver: failed to encode openapi document: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("funcserver: failed to load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, nil, fmt.Errorf("funcserver: invalid openapi document: %w", err)
	}
	return raw, doc, nil
}

func functionOperation(method, name string) map[string]any {
	return map[string]any{
		"operationId": method + "_" + name,
		"summary":     "Invoke " + name,
		"responses": map[string]any{
			"200": response("Function output", "text/plain"),
		},
	}
}

func response(description, contentType string) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			contentType: map[string]any{
				"schema": map[string]any{"type": "string"},
			},
		},
	}
}
