// Package api holds the embedded OpenAPI document served at /openapi.json.
package api

import _ "embed"

// OpenAPISpec is the raw YAML OpenAPI document for the HTTP API.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
