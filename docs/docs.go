// Package docs registers the OpenAPI document served at /swagger/*. The
// document is maintained by hand alongside the handler annotations; keep the
// two in sync when routes change.
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
        "/me": {
            "get": {
                "security": [{"AuthToken": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.PublicUser"}
                    },
                    "401": {"description": "unauthorized"}
                }
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Registration details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.registerRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.PublicUser"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorsResponse"}
                    }
                }
            }
        },
        "/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handler.loginResponse"}
                    },
                    "401": {"description": "unauthorized"}
                }
            },
            "delete": {
                "security": [{"AuthToken": []}],
                "tags": ["users"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "logged out"},
                    "401": {"description": "unauthorized"}
                }
            }
        },
        "/todos": {
            "get": {
                "security": [{"AuthToken": []}],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "List todos",
                "parameters": [
                    {
                        "enum": ["true", "false"],
                        "type": "string",
                        "description": "Filter by completion",
                        "name": "completed",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Substring match on description",
                        "name": "q",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/domain.Todo"}
                        }
                    },
                    "401": {"description": "unauthorized"}
                }
            },
            "post": {
                "security": [{"AuthToken": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Create a todo",
                "parameters": [
                    {
                        "description": "Todo details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.createTodoRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Todo"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorsResponse"}
                    },
                    "401": {"description": "unauthorized"}
                }
            }
        },
        "/todos/{id}": {
            "get": {
                "security": [{"AuthToken": []}],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Get a todo",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Todo id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Todo"}
                    },
                    "401": {"description": "unauthorized"},
                    "404": {"description": "not found"}
                }
            },
            "put": {
                "security": [{"AuthToken": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Update a todo",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Todo id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.updateTodoRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/domain.Todo"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handler.errorsResponse"}
                    },
                    "401": {"description": "unauthorized"},
                    "404": {"description": "not found"}
                }
            },
            "delete": {
                "security": [{"AuthToken": []}],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Delete a todo",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Todo id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {"description": "deleted"},
                    "401": {"description": "unauthorized"},
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/handler.errorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.PublicUser": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.Todo": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "updatedAt": {"type": "string"},
                "userId": {"type": "integer"}
            }
        },
        "handler.createTodoRequest": {
            "type": "object",
            "required": ["description"],
            "properties": {
                "completed": {"type": "boolean"},
                "description": {"type": "string", "maxLength": 255}
            }
        },
        "handler.updateTodoRequest": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "description": {"type": "string", "maxLength": 255}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8, "maxLength": 100}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.PublicUser"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.errorsResponse": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            }
        }
    },
    "securityDefinitions": {
        "AuthToken": {
            "type": "apiKey",
            "name": "Auth",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "Todo API",
	Description:      "A todo-list service with token-based authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
