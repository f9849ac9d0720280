// Package docs registers the swagger document served under /docs.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
    "paths": {
        "/users": {
            "post": {
                "tags": ["users"],
                "summary": "Create an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "name, email, password, age", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.Registration"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.authResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.APIError"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/http.APIError"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "tags": ["users"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "email, password", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.loginReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.authResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.APIError"}}
                }
            }
        },
        "/users/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Revoke the presented token",
                "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.APIError"}}}
            }
        },
        "/users/logoutAll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Revoke every token of the current user",
                "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.APIError"}}}
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Current user",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update profile",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "fields to change", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UserPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.APIError"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Delete account and all owned tasks",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}}}
            }
        },
        "/users/me/avatar": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["avatar"],
                "summary": "Upload avatar",
                "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "description": "jpg, jpeg or png, up to 1MB", "name": "avatar", "in": "formData", "required": true}],
                "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.APIError"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["avatar"],
                "summary": "Remove avatar",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/users/{id}/avatar": {
            "get": {
                "tags": ["avatar"],
                "summary": "Avatar of any user",
                "produces": ["image/png"],
                "parameters": [{"type": "string", "description": "user id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.APIError"}}}
            }
        },
        "/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "List own tasks",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "boolean", "description": "filter by state", "name": "completed", "in": "query"},
                    {"type": "integer", "description": "page size (default 50, max 200)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "offset", "name": "skip", "in": "query"},
                    {"type": "string", "description": "field:asc|desc", "name": "sortBy", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Task"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Create task",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "description, completed", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.NewTask"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Task"}}}
            }
        },
        "/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Get own task",
                "parameters": [{"type": "string", "description": "task id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Update own task",
                "parameters": [
                    {"type": "string", "description": "task id", "name": "id", "in": "path", "required": true},
                    {"description": "description, completed", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.TaskPatch"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Delete own task",
                "parameters": [{"type": "string", "description": "task id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}}}
            }
        },
        "/healthz": {
            "get": {"tags": ["ops"], "summary": "Liveness and store reachability", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/.well-known/jwks.json": {
            "get": {"tags": ["auth"], "summary": "Public signing keys", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/security.JWKS"}}}}
        }
    },
    "definitions": {
        "domain.Registration": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "age": {"type": "integer"}}},
        "domain.UserPatch": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "age": {"type": "integer"}}},
        "domain.User": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "age": {"type": "integer"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "domain.NewTask": {"type": "object", "properties": {"description": {"type": "string"}, "completed": {"type": "boolean"}}},
        "domain.TaskPatch": {"type": "object", "properties": {"description": {"type": "string"}, "completed": {"type": "boolean"}}},
        "domain.Task": {"type": "object", "properties": {"id": {"type": "string"}, "description": {"type": "string"}, "completed": {"type": "boolean"}, "owner": {"type": "string"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "http.APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "details": {}}},
        "http.authResp": {"type": "object", "properties": {"user": {"$ref": "#/definitions/domain.User"}, "token": {"type": "string"}}},
        "http.loginReq": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "security.JWKS": {"type": "object", "properties": {"keys": {"type": "array", "items": {"type": "object"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Task Manager API",
	Description:      "Accounts, session tokens, avatars and per-user tasks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
