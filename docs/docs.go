// Package docs holds the Swagger document served at /swagger/index.html.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness and load state",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a user",
                "parameters": [
                    {"description": "Credentials", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.signInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue a bearer token",
                "parameters": [
                    {"description": "Credentials", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.signInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/query": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["query"],
                "summary": "Run a query",
                "parameters": [
                    {"description": "Query text", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.QueryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.QueryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["query"],
                "summary": "Ingest status",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Summary counters for a time range",
                "parameters": [
                    {"type": "string", "description": "Exclusive lower bound", "name": "after", "in": "query"},
                    {"type": "string", "description": "Exclusive upper bound", "name": "before", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Stats"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/users/{user}/ips": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "IPs used by a user",
                "parameters": [
                    {"type": "string", "description": "User name", "name": "user", "in": "path", "required": true},
                    {"type": "string", "description": "Exclusive lower bound", "name": "after", "in": "query"},
                    {"type": "string", "description": "Exclusive upper bound", "name": "before", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/tasks/solved": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "SOLVE_TASK counts per task",
                "parameters": [
                    {"type": "string", "description": "Exclusive lower bound", "name": "after", "in": "query"},
                    {"type": "string", "description": "Exclusive upper bound", "name": "before", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/tasks/done": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "DONE_TASK counts per task",
                "parameters": [
                    {"type": "string", "description": "Exclusive lower bound", "name": "after", "in": "query"},
                    {"type": "string", "description": "Exclusive upper bound", "name": "before", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["query"],
                "summary": "Query console",
                "description": "WebSocket. Every text frame is one query; each gets a result or error envelope. The upgrade needs a bearer token in the Authorization header or the token parameter.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "description": "JWT, for clients that cannot set headers", "name": "token", "in": "query"},
                    {"type": "string", "description": "Status push interval (Go duration)", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Status push interval in milliseconds", "name": "interval_ms", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.QueryRequest": {
            "type": "object",
            "required": ["query"],
            "properties": {
                "query": {"type": "string", "example": "get ip for user = \"Amigo\""}
            }
        },
        "handlers.QueryResponse": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "count": {"type": "integer"},
                "values": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.signInput": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "kind": {"type": "string"}
            }
        },
        "service.Stats": {
            "type": "object",
            "properties": {
                "unique_ips": {"type": "integer"},
                "users": {"type": "integer"},
                "event_kinds": {"type": "integer"},
                "logged_users": {"type": "array", "items": {"type": "string"}},
                "failed_events": {"type": "array", "items": {"type": "string"}},
                "error_events": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "eventlog API",
	Description:      "Query language over a directory of event logs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
