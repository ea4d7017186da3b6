// Package docs 老虎机模拟接口的 Swagger 文档
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/machine": {
            "get": {
                "produces": ["application/json"],
                "tags": ["slot"],
                "summary": "获取机器配置与理论RTP",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/api.MachineResponse"}
                    }
                }
            }
        },
        "/api/v1/spins": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["slot"],
                "summary": "旋转一次（无状态，不维护余额）",
                "parameters": [
                    {
                        "description": "线数与单线投注",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.SpinRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/api.SpinResponse"}
                    },
                    "400": {
                        "description": "下注参数无效",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    }
                }
            }
        },
        "/api/v1/simulations": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["slot"],
                "summary": "批量模拟并统计RTP",
                "parameters": [
                    {
                        "description": "旋转次数、线数与单线投注",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.SimulationRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/slot.SimulationResult"}
                    },
                    "400": {
                        "description": "参数无效或超过模拟上限",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "api.SymbolInfo": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "weight": {"type": "integer"},
                "value": {"type": "integer"}
            }
        },
        "api.MachineResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "rows": {"type": "integer"},
                "cols": {"type": "integer"},
                "max_lines": {"type": "integer"},
                "min_bet": {"type": "integer"},
                "max_bet": {"type": "integer"},
                "symbols": {"type": "array", "items": {"$ref": "#/definitions/api.SymbolInfo"}},
                "theoretical_rtp": {"type": "number"}
            }
        },
        "api.SpinRequest": {
            "type": "object",
            "required": ["lines", "bet"],
            "properties": {
                "lines": {"type": "integer", "example": 3},
                "bet": {"type": "integer", "example": 1}
            }
        },
        "slot.LineWin": {
            "type": "object",
            "properties": {
                "line": {"type": "integer"},
                "symbol": {"type": "string"},
                "payout": {"type": "integer"}
            }
        },
        "api.SpinResponse": {
            "type": "object",
            "properties": {
                "round_id": {"type": "string"},
                "grid": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}},
                "display": {"type": "string"},
                "winnings": {"type": "integer"},
                "winning_lines": {"type": "array", "items": {"type": "integer"}},
                "line_wins": {"type": "array", "items": {"$ref": "#/definitions/slot.LineWin"}},
                "total_bet": {"type": "integer"},
                "net": {"type": "integer"}
            }
        },
        "api.SimulationRequest": {
            "type": "object",
            "required": ["spins", "lines", "bet"],
            "properties": {
                "spins": {"type": "integer", "example": 100000},
                "lines": {"type": "integer", "example": 3},
                "bet": {"type": "integer", "example": 1}
            }
        },
        "slot.SimulationResult": {
            "type": "object",
            "properties": {
                "total_spins": {"type": "integer"},
                "winning_spins": {"type": "integer"},
                "total_bet": {"type": "integer"},
                "total_win": {"type": "integer"},
                "rtp": {"type": "number"},
                "theoretical_rtp": {"type": "number"},
                "hit_rate": {"type": "number"},
                "max_win": {"type": "integer"},
                "line_hits": {"type": "array", "items": {"type": "integer"}},
                "symbol_hits": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"$ref": "#/definitions/errors.AppError"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo 文档元信息，Host 留空时使用请求所在主机
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Slot Simulator API",
	Description:      "老虎机模拟接口：机器配置、单次旋转与批量RTP模拟",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
