// Package docs registers the OpenAPI description served under /docs.
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
        "/api/auth/register": {"post": {"tags": ["auth"], "summary": "Register with email and password", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/api/auth/login": {"post": {"tags": ["auth"], "summary": "Login with email and password", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/auth/google": {"post": {"tags": ["auth"], "summary": "Login with a Google credential", "description": "type=access_token, type=code or type=id_token; other types are rejected. Existing accounts are linked only for verified emails.", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/api/auth/me": {"get": {"tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/prescription/upload": {"post": {"tags": ["prescription"], "summary": "Analyze a prescription or medical report", "consumes": ["multipart/form-data"], "parameters": [{"type": "file", "name": "prescription", "in": "formData", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "413": {"description": "Payload Too Large"}}}},
        "/api/prescription/history": {"get": {"tags": ["prescription"], "summary": "Stored prescription analyses of the caller", "responses": {"200": {"description": "OK"}}}},
        "/api/ocr/scan": {"post": {"tags": ["ocr"], "summary": "Read a medicine strip photo", "consumes": ["multipart/form-data"], "parameters": [{"type": "file", "name": "stripImage", "in": "formData", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "503": {"description": "Service Unavailable"}}}},
        "/api/ocr/update": {"post": {"tags": ["ocr"], "summary": "Re-evaluate a corrected strip reading", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/ocr/history": {"get": {"tags": ["ocr"], "summary": "Stored strip scans of the caller", "responses": {"200": {"description": "OK"}}}},
        "/api/otc/recommendations": {"post": {"tags": ["otc"], "summary": "OTC suggestions for symptoms", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/otc/search": {"get": {"tags": ["otc"], "summary": "Search the OTC catalog", "parameters": [{"type": "string", "name": "query", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/otc/categories": {"get": {"tags": ["otc"], "summary": "OTC categories", "responses": {"200": {"description": "OK"}}}},
        "/api/donate-dispose/recommendation": {"post": {"tags": ["donate-dispose"], "summary": "Keep, donate or dispose", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/donate-dispose/donation-centers": {"get": {"tags": ["donate-dispose"], "summary": "Donation centers near a location", "parameters": [{"type": "string", "name": "location", "in": "query"}, {"type": "string", "name": "medicineType", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/api/donate-dispose/disposal-guidelines": {"get": {"tags": ["donate-dispose"], "summary": "Safe disposal guidelines", "responses": {"200": {"description": "OK"}}}},
        "/api/donate-dispose/report-donation": {"post": {"tags": ["donate-dispose"], "summary": "Record a completed donation", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/donate-dispose/my-donations": {"get": {"tags": ["donate-dispose"], "summary": "Donations reported by the current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/chatbot/start": {"post": {"tags": ["chatbot"], "summary": "Start a chat session", "responses": {"200": {"description": "OK"}}}},
        "/api/chatbot/message": {"post": {"tags": ["chatbot"], "summary": "Send a message to the assistant", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/chatbot/history/{sessionId}": {"get": {"tags": ["chatbot"], "summary": "Chat transcript", "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/chatbot/session/{sessionId}": {"delete": {"tags": ["chatbot"], "summary": "End a chat session", "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/chatbot/quick-replies": {"get": {"tags": ["chatbot"], "summary": "Canned conversation starters", "responses": {"200": {"description": "OK"}}}},
        "/api/ping": {"get": {"tags": ["system"], "summary": "Ping", "responses": {"200": {"description": "OK"}}}},
        "/healthz": {"get": {"tags": ["system"], "summary": "Liveness and Mongo connectivity", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MedWise API",
	Description:      "Prescription analysis, strip OCR, OTC suggestions, donate/dispose guidance and chat.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
