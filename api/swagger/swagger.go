package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance Portal API",
        "description": "Two-role attendance tracker over flat-file classroom ledgers",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Administrator session"},
        {"name": "Classrooms", "description": "Classroom lifecycle and ledger inspection"},
        {"name": "Portal", "description": "Attendance gating controls"},
        {"name": "Attendance", "description": "Student self-reporting"},
        {"name": "Audit", "description": "Admin action trail"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/classrooms": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "List classrooms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Self-report attendance",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Marked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "403": {"description": "Portal closed or invalid token"},
                    "404": {"description": "Classroom ledger missing"},
                    "409": {"description": "Already marked or capacity reached"},
                    "422": {"description": "Ledger format error"}
                }
            }
        },
        "/portal/updates": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Long-poll the settings change signal",
                "parameters": [
                    {"name": "since", "in": "query", "type": "string"},
                    {"name": "timeout", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/classrooms": {
            "post": {
                "tags": ["Classrooms"],
                "summary": "Create classroom",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassroomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Classroom exists"}
                }
            }
        },
        "/admin/classrooms/{name}": {
            "delete": {
                "tags": ["Classrooms"],
                "summary": "Delete classroom",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/admin/classrooms/{name}/ledger": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "Inspect classroom ledger",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/classrooms/{name}/export": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "Download classroom ledger",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/admin/classrooms/{name}/settings": {
            "get": {
                "tags": ["Portal"],
                "summary": "Current gating settings",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/classrooms/{name}/gate": {
            "put": {
                "tags": ["Portal"],
                "summary": "Open or close the portal",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/classrooms/{name}/token": {
            "put": {
                "tags": ["Portal"],
                "summary": "Replace the attendance token",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/classrooms/{name}/limit": {
            "put": {
                "tags": ["Portal"],
                "summary": "Replace the daily capacity limit",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLimitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Limit below 1"}
                }
            }
        },
        "/admin/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "Recent admin actions",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitAttendanceRequest": {
            "type": "object",
            "required": ["classroom", "name", "roll", "token"],
            "properties": {
                "classroom": {"type": "string"},
                "name": {"type": "string"},
                "roll": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "CreateClassroomRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"}
            }
        },
        "UpdateGateRequest": {
            "type": "object",
            "properties": {
                "open": {"type": "boolean"}
            }
        },
        "UpdateTokenRequest": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "UpdateLimitRequest": {
            "type": "object",
            "required": ["limit"],
            "properties": {
                "limit": {"type": "integer", "minimum": 1}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
