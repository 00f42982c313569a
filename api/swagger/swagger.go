package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Event Info API",
        "description": "Events, schedules and booth posts with session, token or identity-provider sign-in",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "SessionCookie": {"type": "apiKey", "name": "Cookie", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Sign-in, sign-out and caller details"},
        {"name": "Events", "description": "Event metadata"},
        {"name": "Schedule", "description": "Per-event programme"},
        {"name": "Posts", "description": "Booth updates"}
    ],
    "paths": {
        "/health": {"get": {"summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"summary": "Readiness", "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unreachable"}}}},
        "/api/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in with booth credentials",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Missing fields or delegated sign-in", "schema": {"$ref": "#/definitions/Error"}},
                    "401": {"description": "Invalid username or password", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OK"}}}
            }
        },
        "/api/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Describe the caller; empty object when anonymous",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Me"}}}
            }
        },
        "/api/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "properties": {"events": {"type": "array", "items": {"$ref": "#/definitions/Event"}}}}}}
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create event (staff)",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EventRequest"}}],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/OK"}},
                    "400": {"description": "Id and name are required", "schema": {"$ref": "#/definitions/Error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get event",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"event": {"$ref": "#/definitions/Event"}}}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "tags": ["Events"],
                "summary": "Replace event fields (staff)",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EventRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/OK"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Delete event (admin); schedule and posts are kept",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/OK"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List an event's schedule by start time",
                "parameters": [{"in": "query", "name": "eventId", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/ScheduleEntry"}}}}},
                    "400": {"description": "eventId is required", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/schedule/{id}": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get schedule entry",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"item": {"$ref": "#/definitions/ScheduleEntry"}}}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/schedule/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Download an event's schedule",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "eventId", "type": "string", "required": true},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}, "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/api/timeline": {
            "get": {
                "tags": ["Posts"],
                "summary": "Latest 15 posts across events",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/BoothPost"}}}}}}
            }
        },
        "/api/posts": {
            "get": {
                "tags": ["Posts"],
                "summary": "List an event's posts, newest first",
                "parameters": [{"in": "query", "name": "eventId", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/BoothPost"}}}}},
                    "400": {"description": "eventId required", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "post": {
                "tags": ["Posts"],
                "summary": "Submit a booth post",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreatePostRequest"}}],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/OK"}},
                    "400": {"description": "missing fields", "schema": {"$ref": "#/definitions/Error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/posts/{id}": {
            "get": {
                "tags": ["Posts"],
                "summary": "Get post",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"item": {"$ref": "#/definitions/BoothPost"}}}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Error": {"type": "object", "properties": {"error": {"type": "string"}}},
        "OK": {"type": "object", "properties": {"ok": {"type": "boolean"}, "id": {"type": "integer"}}},
        "LoginRequest": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "LoginResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "token": {"type": "string"},
                "user": {"type": "object", "properties": {"username": {"type": "string"}, "boothName": {"type": "string"}, "isAdmin": {"type": "boolean"}}}
            }
        },
        "Me": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "boothName": {"type": "string"},
                "eventId": {"type": "string"},
                "isAdmin": {"type": "boolean"},
                "role": {"type": "string", "enum": ["user", "staff", "admin"]}
            }
        },
        "Event": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "subtitle": {"type": "string"}, "date": {"type": "string"}, "location": {"type": "string"}}
        },
        "EventRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "subtitle": {"type": "string"}, "date": {"type": "string"}, "location": {"type": "string"}}
        },
        "ScheduleEntry": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "event_id": {"type": "string"}, "title": {"type": "string"}, "start_time": {"type": "string"}, "end_time": {"type": "string"}}
        },
        "BoothPost": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "event_id": {"type": "string"},
                "booth_id": {"type": "string"},
                "title": {"type": "string"},
                "body": {"type": "string"},
                "posted_at": {"type": "string"},
                "booth_name": {"type": "string"}
            }
        },
        "CreatePostRequest": {
            "type": "object",
            "required": ["title", "body"],
            "properties": {"title": {"type": "string"}, "body": {"type": "string"}, "posted_at": {"type": "string"}, "eventId": {"type": "string"}}
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
