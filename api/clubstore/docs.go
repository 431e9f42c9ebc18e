// Package clubstore holds the OpenAPI document for the club store API.
// Regenerate with: swag init -g internal/clubstore/http/router.go -o api/clubstore
package clubstore

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/clubhouse"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness Probe",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/clubsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Probe",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/clubsdk.HealthResponse"}},
                    "503": {"description": "service not ready", "schema": {"$ref": "#/definitions/clubsdk.HealthResponse"}}
                }
            }
        },
        "/v1/sessions/password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Sign In With Email",
                "parameters": [
                    {"type": "string", "name": "X-Device-ID", "in": "header"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/clubsdk.PasswordSignInRequest"}}
                ],
                "responses": {
                    "201": {"description": "token, session_id, channel, identity", "schema": {"$ref": "#/definitions/clubsdk.SessionResponse"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/sessions/phone": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Sign In With Phone",
                "parameters": [
                    {"type": "string", "name": "X-Device-ID", "in": "header"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/clubsdk.PhoneSignInRequest"}}
                ],
                "responses": {
                    "201": {"description": "token, session_id, channel, identity", "schema": {"$ref": "#/definitions/clubsdk.SessionResponse"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/sessions/current": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Current Session",
                "responses": {
                    "200": {"description": "session_id, channel, identity", "schema": {"$ref": "#/definitions/clubsdk.SessionResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "Sign Out",
                "responses": {
                    "204": {"description": "Session revoked"},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/me/password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Change Password",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/clubsdk.ChangePasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "Password changed"},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}},
                    "401": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}},
                    "403": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/coaches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Directory"],
                "summary": "Find Coach By Access Code",
                "parameters": [{"type": "string", "name": "access_code", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "coach record", "schema": {"$ref": "#/definitions/clubsdk.Coach"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Administration"],
                "summary": "Provision Coach",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/clubsdk.CreateCoachRequest"}}
                ],
                "responses": {
                    "201": {"description": "coach record with access code", "schema": {"$ref": "#/definitions/clubsdk.Coach"}},
                    "403": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}},
                    "409": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Directory"],
                "summary": "Get User",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "public identity", "schema": {"$ref": "#/definitions/clubsdk.Identity"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/parents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Directory"],
                "summary": "Find Parent By Phone",
                "parameters": [{"type": "string", "name": "phone", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "parent record", "schema": {"$ref": "#/definitions/clubsdk.Parent"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Directory"],
                "summary": "Register Parent",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/clubsdk.CreateParentRequest"}}
                ],
                "responses": {
                    "201": {"description": "parent record", "schema": {"$ref": "#/definitions/clubsdk.Parent"}},
                    "409": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/teams": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Directory"],
                "summary": "Find Team By Access Code",
                "parameters": [{"type": "string", "name": "access_code", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "team record", "schema": {"$ref": "#/definitions/clubsdk.Team"}},
                    "404": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Administration"],
                "summary": "Create Team",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/clubsdk.CreateTeamRequest"}}
                ],
                "responses": {
                    "201": {"description": "team record", "schema": {"$ref": "#/definitions/clubsdk.Team"}},
                    "403": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/teams/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Administration"],
                "summary": "List Teams",
                "responses": {
                    "200": {"description": "teams", "schema": {"$ref": "#/definitions/clubsdk.TeamsResponse"}},
                    "403": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Register Account",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/clubsdk.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "created identity", "schema": {"$ref": "#/definitions/clubsdk.Identity"}},
                    "400": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}},
                    "409": {"description": "error, error_description", "schema": {"$ref": "#/definitions/clubsdk.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "clubsdk.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "error_description": {"type": "string"}}
        },
        "clubsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"type": "object", "properties": {"database": {"type": "string"}, "signer": {"type": "string"}}}
            }
        },
        "clubsdk.PasswordSignInRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "clubsdk.PhoneSignInRequest": {
            "type": "object",
            "properties": {"phone": {"type": "string"}, "password": {"type": "string"}}
        },
        "clubsdk.ChangePasswordRequest": {
            "type": "object",
            "properties": {"current_password": {"type": "string"}, "new_password": {"type": "string"}}
        },
        "clubsdk.Identity": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "picture_url": {"type": "string"}
            }
        },
        "clubsdk.SessionResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "token_type": {"type": "string"},
                "session_id": {"type": "string"},
                "channel": {"type": "string"},
                "expires_at": {"type": "string"},
                "identity": {"$ref": "#/definitions/clubsdk.Identity"}
            }
        },
        "clubsdk.Coach": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "team_id": {"type": "string"},
                "access_code": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "clubsdk.Team": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "club_id": {"type": "string"},
                "name": {"type": "string"},
                "access_code": {"type": "string"}
            }
        },
        "clubsdk.TeamsResponse": {
            "type": "object",
            "properties": {"teams": {"type": "array", "items": {"$ref": "#/definitions/clubsdk.Team"}}}
        },
        "clubsdk.Parent": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string"},
                "team_id": {"type": "string"}
            }
        },
        "clubsdk.CreateParentRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string"},
                "team_id": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "clubsdk.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"},
                "name": {"type": "string"},
                "picture_url": {"type": "string"},
                "club_name": {"type": "string"},
                "club_location": {"type": "string"},
                "club_logo_url": {"type": "string"}
            }
        },
        "clubsdk.CreateTeamRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}}
        },
        "clubsdk.CreateCoachRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "team_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Session token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Clubhouse Club Store API",
	Description:      "Credential, session and directory service for club administrators, coaches and parents.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
