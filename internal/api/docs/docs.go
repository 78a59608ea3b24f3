// Package docs регистрирует описание HTTP API в формате Swagger 2.0,
// которое отдается по /swagger/doc.json.
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
        "/runs/last": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Отчет последнего запуска",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.runResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Отчет запуска по id",
                "parameters": [
                    {"type": "string", "description": "ID запуска", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.runResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/sync": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Запускает синхронизацию всех включенных целей и ждет ее завершения. Ошибки целей отражаются в поле success и в отчете.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Запуск синхронизации",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.runResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/targets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Цели синхронизации в порядке запуска",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.targetsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.errorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.runMeta": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handlers.runResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/models.RunReport"},
                "meta": {"$ref": "#/definitions/handlers.runMeta"},
                "success": {"type": "boolean"}
            }
        },
        "handlers.targetsResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"type": "string"}},
                "success": {"type": "boolean"}
            }
        },
        "models.RunReport": {
            "type": "object",
            "properties": {
                "dry_run": {"type": "boolean"},
                "finished_at": {"type": "string"},
                "run_id": {"type": "string"},
                "started_at": {"type": "string"},
                "supplier_records": {"type": "integer"},
                "targets": {"type": "array", "items": {"$ref": "#/definitions/models.TargetReport"}}
            }
        },
        "models.StepResult": {
            "type": "object",
            "properties": {
                "duration": {"type": "integer"},
                "error": {"type": "string"},
                "index": {"type": "integer"},
                "kind": {"type": "string", "enum": ["stock", "price"]},
                "size": {"type": "integer"},
                "skipped": {"type": "boolean"}
            }
        },
        "models.StockLevel": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "offer_id": {"type": "string"}
            }
        },
        "models.TargetReport": {
            "type": "object",
            "properties": {
                "duration": {"type": "integer"},
                "error": {"type": "string"},
                "error_kind": {"type": "string"},
                "in_stock": {"type": "array", "items": {"$ref": "#/definitions/models.StockLevel"}},
                "offer_ids": {"type": "integer"},
                "prices": {"type": "integer"},
                "skipped_prices": {"type": "integer"},
                "started_at": {"type": "string"},
                "steps": {"type": "array", "items": {"$ref": "#/definitions/models.StepResult"}},
                "stocks": {"type": "integer"},
                "target": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo метаданные API, host задается сервером при необходимости
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "stocksync API",
	Description:      "Ручной запуск синхронизации остатков и цен timeworld с Ozon и Яндекс Маркетом, отчеты запусков.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
