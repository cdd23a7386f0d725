// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Reports liveness, version and request counters",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/v1/archetypes": {
            "get": {
                "description": "Returns the archetype catalogue in priority order",
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "List archetypes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ArchetypesResponse"}}
                }
            }
        },
        "/v1/analyze": {
            "post": {
                "description": "Scores the four dimensions, estimates AI usage and assigns an archetype",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Analyze one developer profile",
                "parameters": [
                    {
                        "description": "Normalized profile signals",
                        "name": "signals",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/analysis.ProfileSignals"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analysis.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/v1/team/analyze": {
            "post": {
                "description": "Analyzes every member and aggregates an anonymous team summary",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Analyze a team",
                "parameters": [
                    {
                        "description": "Between 1 and 50 member profiles",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.TeamAnalyzeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TeamAnalyzeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "analysis.CommitRecord": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "message": {"type": "string"},
                "co_authors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "analysis.ProfileSignals": {
            "type": "object",
            "properties": {
                "commit_count": {"type": "integer"},
                "active_days": {"type": "integer"},
                "streak_days": {"type": "integer"},
                "last_commit_age_days": {"type": "number"},
                "repo_count": {"type": "integer"},
                "pr_opened": {"type": "integer"},
                "pr_merged": {"type": "integer"},
                "issues_opened": {"type": "integer"},
                "reviews_given": {"type": "integer"},
                "forks_received": {"type": "integer"},
                "org_count": {"type": "integer"},
                "account_age_days": {"type": "number"},
                "languages": {"type": "object", "additionalProperties": {"type": "integer"}},
                "topics": {"type": "array", "items": {"type": "string"}},
                "config_files": {"type": "array", "items": {"type": "string"}},
                "commits": {"type": "array", "items": {"$ref": "#/definitions/analysis.CommitRecord"}}
            }
        },
        "analysis.DimensionScores": {
            "type": "object",
            "properties": {
                "activity": {"type": "number"},
                "collaboration": {"type": "number"},
                "stack_diversity": {"type": "number"},
                "ai_savviness": {"type": "number"}
            }
        },
        "analysis.AIAnalysis": {
            "type": "object",
            "properties": {
                "overall_bucket": {"type": "string", "enum": ["none", "light", "moderate", "heavy"]},
                "detected_tools": {"type": "array", "items": {"type": "string"}},
                "confidence": {"type": "string", "enum": ["low", "medium", "high"]},
                "burst_score": {"type": "number"},
                "config_files_detected": {"type": "array", "items": {"type": "string"}},
                "indicator": {"type": "number"},
                "composite": {"type": "number"},
                "commits_analyzed": {"type": "integer"},
                "ai_signal_commits": {"type": "integer"},
                "ai_percentage": {"type": "number"},
                "commits_in_bursts": {"type": "integer"},
                "tool_mentions": {"type": "object", "additionalProperties": {"type": "integer"}},
                "co_author_bots": {"type": "object", "additionalProperties": {"type": "integer"}},
                "co_authors": {"type": "array", "items": {"$ref": "#/definitions/analysis.CoAuthor"}},
                "heuristic_score": {"type": "number"},
                "repetitive_prefix_commits": {"type": "integer"}
            }
        },
        "analysis.CoAuthor": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "analysis.ArchetypeResult": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "confidence": {"type": "number"},
                "alternatives": {"type": "array", "items": {"type": "string"}}
            }
        },
        "analysis.ArchetypeInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "analysis.TechProfile": {
            "type": "object",
            "properties": {
                "languages": {"type": "array", "items": {"type": "string"}},
                "frameworks": {"type": "array", "items": {"type": "string"}},
                "primary_ecosystem": {"type": "string"}
            }
        },
        "analysis.Result": {
            "type": "object",
            "properties": {
                "scores": {"$ref": "#/definitions/analysis.DimensionScores"},
                "ai_analysis": {"$ref": "#/definitions/analysis.AIAnalysis"},
                "archetype": {"$ref": "#/definitions/analysis.ArchetypeResult"},
                "tech_profile": {"$ref": "#/definitions/analysis.TechProfile"}
            }
        },
        "analysis.LanguageCount": {
            "type": "object",
            "properties": {
                "language": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "analysis.TeamSummary": {
            "type": "object",
            "properties": {
                "team_size": {"type": "integer"},
                "average_scores": {"$ref": "#/definitions/analysis.DimensionScores"},
                "archetype_distribution": {"type": "object", "additionalProperties": {"type": "integer"}},
                "ai_adoption_rate": {"type": "number"},
                "ai_tool_usage": {"type": "object", "additionalProperties": {"type": "integer"}},
                "top_languages": {"type": "array", "items": {"$ref": "#/definitions/analysis.LanguageCount"}}
            }
        },
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "field": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "middleware.CompressionSnapshot": {
            "type": "object",
            "properties": {
                "total_responses": {"type": "integer"},
                "compressed_responses": {"type": "integer"},
                "original_bytes": {"type": "integer"},
                "compressed_bytes": {"type": "integer"},
                "ratio": {"type": "number"}
            }
        },
        "monitoring.Stats": {
            "type": "object",
            "properties": {
                "request_count": {"type": "integer"},
                "error_count": {"type": "integer"},
                "error_rate": {"type": "number"},
                "uptime_seconds": {"type": "number"}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "timestamp": {"type": "string"},
                "stats": {"$ref": "#/definitions/monitoring.Stats"},
                "compression": {"$ref": "#/definitions/middleware.CompressionSnapshot"}
            }
        },
        "types.ArchetypesResponse": {
            "type": "object",
            "properties": {
                "archetypes": {"type": "array", "items": {"$ref": "#/definitions/analysis.ArchetypeInfo"}}
            }
        },
        "types.TeamAnalyzeRequest": {
            "type": "object",
            "required": ["members"],
            "properties": {
                "members": {
                    "type": "array",
                    "minItems": 1,
                    "maxItems": 50,
                    "items": {"$ref": "#/definitions/analysis.ProfileSignals"}
                }
            }
        },
        "types.TeamAnalyzeResponse": {
            "type": "object",
            "properties": {
                "members": {"type": "array", "items": {"$ref": "#/definitions/analysis.Result"}},
                "summary": {"$ref": "#/definitions/analysis.TeamSummary"}
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
	Title:            "Phantom Scope API",
	Description:      "Developer behavioral profiles: dimension scores, AI usage estimate and archetype.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
