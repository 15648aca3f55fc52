// Package docs registers the OpenAPI description of the portal with swag so
// echo-swagger can serve it under /swagger.
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
        "/login": {
            "get": {"produces": ["application/json"], "tags": ["auth"], "summary": "Sign-in screen", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}, "302": {"description": "already signed in"}}},
            "post": {"consumes": ["application/json", "application/x-www-form-urlencoded"], "tags": ["auth"], "summary": "Sign in", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}], "responses": {"303": {"description": "redirect to the user's home"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.Page"}}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/register": {
            "get": {"produces": ["application/json"], "tags": ["auth"], "summary": "Sign-up screen", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}},
            "post": {"consumes": ["application/json", "application/x-www-form-urlencoded"], "tags": ["auth"], "summary": "Create an account", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}], "responses": {"303": {"description": "redirect to the user's home"}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/forgot-password": {
            "get": {"produces": ["application/json"], "tags": ["auth"], "summary": "Password reset screen", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}},
            "post": {"consumes": ["application/json", "application/x-www-form-urlencoded"], "tags": ["auth"], "summary": "Request a password reset link", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.forgotPasswordRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}}
        },
        "/logout": {
            "post": {"tags": ["auth"], "summary": "Sign out", "responses": {"303": {"description": "redirect to /login"}}}
        },
        "/state": {
            "get": {"produces": ["application/json"], "tags": ["auth"], "summary": "Session state snapshot", "responses": {"200": {"description": "OK"}}}
        },
        "/admin": {
            "get": {"produces": ["application/json"], "tags": ["dashboard"], "summary": "Admin dashboard", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.Page"}}}}
        },
        "/admin/clients": {
            "get": {"produces": ["application/json"], "tags": ["clients"], "summary": "Client list", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}}
        },
        "/admin/clients/{id}": {
            "get": {"produces": ["application/json"], "tags": ["clients"], "summary": "Client form", "parameters": [{"type": "string", "description": "Client id or \"new\"", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.Page"}}}},
            "post": {"consumes": ["application/json", "application/x-www-form-urlencoded"], "tags": ["clients"], "summary": "Create or update a client", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.clientRequest"}}], "responses": {"303": {"description": "redirect to /admin/clients"}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}},
            "delete": {"tags": ["clients"], "summary": "Delete a client", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "boolean", "name": "confirm", "in": "query", "required": true}], "responses": {"303": {"description": "redirect to /admin/clients"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/admin/tasks": {
            "get": {"produces": ["application/json"], "tags": ["tasks"], "summary": "Task list (admin)", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}},
            "post": {"consumes": ["application/json", "application/x-www-form-urlencoded"], "tags": ["tasks"], "summary": "Create a task", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createTaskRequest"}}], "responses": {"303": {"description": "redirect to /admin/tasks"}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/admin/tasks/{id}": {
            "post": {"consumes": ["application/json", "application/x-www-form-urlencoded"], "tags": ["tasks"], "summary": "Edit a task", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateTaskRequest"}}], "responses": {"303": {"description": "redirect to /admin/tasks"}}},
            "delete": {"tags": ["tasks"], "summary": "Delete a task", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "boolean", "name": "confirm", "in": "query", "required": true}], "responses": {"303": {"description": "redirect to /admin/tasks"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/admin/documents": {
            "get": {"produces": ["application/json"], "tags": ["documents"], "summary": "Document list (admin)", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}},
            "post": {"consumes": ["multipart/form-data"], "tags": ["documents"], "summary": "Upload a document", "parameters": [{"type": "string", "name": "name", "in": "formData", "required": true}, {"type": "string", "name": "description", "in": "formData"}, {"type": "string", "name": "clientId", "in": "formData", "required": true}, {"type": "string", "name": "taskId", "in": "formData"}, {"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"303": {"description": "redirect to /admin/documents"}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/admin/documents/{id}": {
            "delete": {"tags": ["documents"], "summary": "Delete a document", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "boolean", "name": "confirm", "in": "query", "required": true}], "responses": {"303": {"description": "redirect to /admin/documents"}}}
        },
        "/admin/documents/{id}/download": {
            "get": {"produces": ["application/octet-stream"], "tags": ["documents"], "summary": "Download a document", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}
        },
        "/client": {
            "get": {"produces": ["application/json"], "tags": ["dashboard"], "summary": "Client dashboard", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}}
        },
        "/client/tasks": {
            "get": {"produces": ["application/json"], "tags": ["tasks"], "summary": "Task list (client)", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}}
        },
        "/client/tasks/{id}/status": {
            "post": {"consumes": ["application/json", "application/x-www-form-urlencoded"], "tags": ["tasks"], "summary": "Change a task's status", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.taskStatusRequest"}}], "responses": {"303": {"description": "redirect to /client/tasks"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}}
        },
        "/client/documents": {
            "get": {"produces": ["application/json"], "tags": ["documents"], "summary": "Document list (client)", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Page"}}}}
        },
        "/client/documents/{id}/download": {
            "get": {"produces": ["application/octet-stream"], "tags": ["documents"], "summary": "Download a document", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}
        },
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Liveness check", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Readiness check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "definitions": {
        "handler.Page": {"type": "object", "properties": {"layout": {"type": "object"}, "data": {"type": "object"}}},
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.loginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.registerRequest": {"type": "object", "required": ["name", "email", "password"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "password": {"type": "string"}}},
        "handler.forgotPasswordRequest": {"type": "object", "required": ["email"], "properties": {"email": {"type": "string"}}},
        "handler.clientRequest": {"type": "object", "required": ["name", "email", "phone"], "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "password": {"type": "string"}}},
        "handler.createTaskRequest": {"type": "object", "required": ["title", "description", "clientId", "deadline"], "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "clientId": {"type": "string"}, "deadline": {"type": "string", "example": "2024-04-01"}}},
        "handler.updateTaskRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "clientId": {"type": "string"}, "deadline": {"type": "string"}, "status": {"type": "string", "enum": ["pending", "in_progress", "completed"]}}},
        "handler.taskStatusRequest": {"type": "object", "required": ["status"], "properties": {"status": {"type": "string", "enum": ["pending", "in_progress", "completed"]}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CA Portal",
	Description:      "Client-services portal: admin and client screens rendered as JSON view models.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
