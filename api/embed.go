package api

import _ "embed"

// OpenAPI is the HTTP contract served at /openapi.yml.
//
//go:embed openapi.yml
var OpenAPI []byte
