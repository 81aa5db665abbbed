// Package docs is generated by swaggo/swag from the handler annotations.
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
        "/": {
            "post": {
                "description": "Accepts Discord interactions ({\"type\":1|2,...}) and internal actions ({\"action\":\"send_alert\"|\"test_alert\"|\"get_invite_url\",...}).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dispatch"],
                "summary": "Dispatch endpoint",
                "parameters": [
                    {"type": "string", "description": "Interaction signature", "name": "X-Signature-Ed25519", "in": "header"},
                    {"type": "string", "description": "Interaction signature timestamp", "name": "X-Signature-Timestamp", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "interaction ack, success envelope or invite url", "schema": {"$ref": "#/definitions/dispatch.InteractionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dispatch.InviteURLResponse"}}
                }
            }
        },
        "/discord-bot": {
            "post": {
                "description": "Alias of the root dispatch endpoint.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dispatch"],
                "summary": "Dispatch endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dispatch.InteractionResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Dependency health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.Health"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/health.Health"}}
                }
            }
        }
    },
    "definitions": {
        "dispatch.InteractionResponse": {
            "type": "object",
            "properties": {
                "type": {"type": "integer"},
                "data": {"$ref": "#/definitions/dispatch.InteractionResponseData"}
            }
        },
        "dispatch.InteractionResponseData": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "flags": {"type": "integer"}
            }
        },
        "dispatch.InviteURLResponse": {
            "type": "object",
            "properties": {
                "inviteUrl": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "dispatch.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "health.Health": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "service": {"type": "string"},
                "timestamp": {"type": "string"},
                "checks": {"type": "object", "additionalProperties": true}
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
	Title:            "AudioGuard Dispatch API",
	Description:      "Formats copyright-risk alerts and delivers them to Discord channels.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
