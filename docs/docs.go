// Package docs registers the Swagger document served at /swagger. Keep it in
// step with the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/detail/{ico}": {
            "get": {
                "description": "Runs the detail query for one ICO and returns the rendered table of the modal display",
                "produces": ["application/json"],
                "tags": ["Tables"],
                "summary": "Entity detail",
                "parameters": [
                    {"type": "string", "description": "Registration number", "name": "ico", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Rendered display", "schema": {"$ref": "#/definitions/models.Display"}},
                    "400": {"description": "Invalid identifier", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Query backend failed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/display/{target}": {
            "get": {
                "description": "Get the table currently shown in the main or modal target of this session",
                "produces": ["application/json"],
                "tags": ["Tables"],
                "summary": "Current display",
                "parameters": [
                    {"enum": ["main", "modal"], "type": "string", "description": "Display target", "name": "target", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Current display", "schema": {"$ref": "#/definitions/models.Display"}},
                    "404": {"description": "Nothing shown yet", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/history": {
            "get": {
                "description": "Get the most recent searches, newest first",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Query history",
                "parameters": [
                    {"type": "integer", "default": 50, "description": "Maximum number of entries", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "History entries", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/models.QueryHistoryEntry"}}}},
                    "400": {"description": "Invalid limit", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to read history", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/history/{id}": {
            "get": {
                "description": "Get one recorded search by id",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "Query history entry",
                "parameters": [
                    {"type": "string", "description": "History entry id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "History entry", "schema": {"$ref": "#/definitions/models.QueryHistoryEntry"}},
                    "404": {"description": "Not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/queries": {
            "get": {
                "description": "Get the fixed set of searches and whether each needs a search term",
                "produces": ["application/json"],
                "tags": ["Tables"],
                "summary": "List query kinds",
                "responses": {
                    "200": {"description": "Query kinds", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/models.QueryKindInfo"}}}}
                }
            }
        },
        "/api/query": {
            "post": {
                "description": "Forwards the query to the Fuseki dataset and returns its SPARQL JSON result unchanged",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Query"],
                "summary": "Run a SPARQL query",
                "parameters": [
                    {"description": "Query text", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.QueryRequest"}}
                ],
                "responses": {
                    "200": {"description": "SPARQL JSON result", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Missing query", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "429": {"description": "Too many requests", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Fuseki unreachable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Fuseki response too large", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/results/export": {
            "post": {
                "description": "Save the table currently shown in the main display as a JSON or CSV file",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Results"],
                "summary": "Export current results",
                "parameters": [
                    {"description": "Export format (json or csv)", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/models.ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Saved file name", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Unsupported format", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Nothing to export", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Failed to save file", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/results/file/{filename}": {
            "get": {
                "description": "Get the complete content of a specific result file by filename",
                "produces": ["application/json"],
                "tags": ["Results"],
                "summary": "Get result file",
                "parameters": [
                    {"type": "string", "description": "Result file name", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Result file content", "schema": {"$ref": "#/definitions/models.ResultFile"}},
                    "400": {"description": "Filename required", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "File not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/results/files": {
            "get": {
                "description": "Get a list of all exported result files (JSON/CSV)",
                "produces": ["application/json"],
                "tags": ["Results"],
                "summary": "List result files",
                "responses": {
                    "200": {"description": "List of result files", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/models.ResultFileInfo"}}}},
                    "500": {"description": "Failed to list files", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/table/{kind}": {
            "get": {
                "description": "Runs one of the fixed searches and returns the rendered table of the main display",
                "produces": ["application/json"],
                "tags": ["Tables"],
                "summary": "Run a search",
                "parameters": [
                    {"enum": ["name", "field", "municipality", "top-municipalities", "top-fields"], "type": "string", "description": "Query kind", "name": "kind", "in": "path", "required": true},
                    {"type": "string", "description": "Search term", "name": "term", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Rendered display", "schema": {"$ref": "#/definitions/models.Display"}},
                    "400": {"description": "Invalid search", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Superseded by a newer request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Query backend failed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check the health status of the history database and the Fuseki endpoint",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Service health status", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Database or Fuseki unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "models.CellSpec": {
            "type": "object",
            "properties": {
                "action_key": {"type": "string"},
                "kind": {"type": "string", "enum": ["text", "action"]},
                "text": {"type": "string"}
            }
        },
        "models.ColumnSpec": {
            "type": "object",
            "properties": {
                "action": {"type": "boolean"},
                "label": {"type": "string"}
            }
        },
        "models.Display": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "integer"},
                "row_count": {"type": "integer"},
                "table": {"$ref": "#/definitions/models.TableSpec"},
                "target": {"type": "string"},
                "term": {"type": "string"}
            }
        },
        "models.ExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["json", "csv"]}
            }
        },
        "models.QueryHistoryEntry": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "id": {"type": "string"},
                "kind": {"type": "string"},
                "row_count": {"type": "integer"},
                "session": {"type": "string"},
                "target": {"type": "string"},
                "term": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.QueryKindInfo": {
            "type": "object",
            "properties": {
                "caption": {"type": "string"},
                "field": {"type": "string"},
                "kind": {"type": "string"},
                "needs_term": {"type": "boolean"}
            }
        },
        "models.QueryRequest": {
            "type": "object",
            "properties": {
                "query": {"type": "string"}
            }
        },
        "models.ResultFile": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "kind": {"type": "string"},
                "row_count": {"type": "integer"},
                "table": {"$ref": "#/definitions/models.TableSpec"},
                "term": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.ResultFileInfo": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "format": {"type": "string"},
                "modified": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "models.TableSpec": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"$ref": "#/definitions/models.ColumnSpec"}},
                "rows": {"type": "array", "items": {"type": "array", "items": {"$ref": "#/definitions/models.CellSpec"}}},
                "show_row_numbers": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "RSSZ School Registry Explorer API",
	Description:      "Search the Czech school registry stored in Fuseki and render the results as tables.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
