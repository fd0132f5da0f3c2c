package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EBD API",
        "description": "Sunday-school administration: classes, students, roll calls and attendance reports.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and password changes"},
        {"name": "Users", "description": "Administrator-managed accounts"},
        {"name": "Classes", "description": "Sunday-school classes (turmas)"},
        {"name": "Students", "description": "Class rosters (alunos)"},
        {"name": "Attendance", "description": "Roll calls (presencas)"},
        {"name": "Reports", "description": "Attendance dashboards, ranking and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}],
                "responses": {"200": {"description": "Tokens issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke a refresh token",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}],
                "responses": {"204": {"description": "Revoked"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change own password",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}],
                "responses": {"204": {"description": "Changed"}, "403": {"description": "Old password does not match"}}
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "role", "in": "query", "type": "string", "enum": ["ADMIN", "TEACHER", "MODERATOR"]},
                    {"name": "ativo", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "Users", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UserRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Email already exists"}}
            }
        },
        "/users/{id}": {
            "get": {"tags": ["Users"], "summary": "Get user", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "User"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Users"], "summary": "Update user", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UserRequest"}}], "responses": {"200": {"description": "Updated"}}},
            "delete": {"tags": ["Users"], "summary": "Deactivate user", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deactivated"}}}
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "ativa", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "Classes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Name already exists"}}
            }
        },
        "/classes/{id}": {
            "get": {"tags": ["Classes"], "summary": "Get class", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Class"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Classes"], "summary": "Update class", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRequest"}}], "responses": {"200": {"description": "Updated"}}},
            "delete": {"tags": ["Classes"], "summary": "Deactivate class", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deactivated"}}}
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "turma_id", "in": "query", "type": "string"},
                    {"name": "ativo", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "Students", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Class missing or inactive"}}
            }
        },
        "/students/{id}": {
            "get": {"tags": ["Students"], "summary": "Get student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "Student"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Students"], "summary": "Update student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}], "responses": {"200": {"description": "Updated"}}},
            "delete": {"tags": ["Students"], "summary": "Deactivate student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deactivated"}}}
        },
        "/students/{id}/transfer": {
            "post": {
                "tags": ["Students"],
                "summary": "Move a student to another class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"turma_id": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "Transferred"}}
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance of a class on a date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "turma_id", "in": "query", "required": true, "type": "string"},
                    {"name": "data", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "Records", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Record one student's attendance",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid, duplicate or not a worship day"}, "404": {"description": "Unknown student"}}
            }
        },
        "/attendance/{id}": {
            "put": {"tags": ["Attendance"], "summary": "Update an attendance record", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceItem"}}], "responses": {"200": {"description": "Updated"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["Attendance"], "summary": "Delete an attendance record", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}}
        },
        "/attendance/bulk/{turma_id}": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Replace the roll call of a class on a worship day",
                "description": "Deletes every record of the class on the date and stores the submitted list. An empty list clears the day.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "turma_id", "in": "path", "required": true, "type": "string"},
                    {"name": "data", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/AttendanceItem"}}}
                ],
                "responses": {
                    "200": {"description": "Stored records", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or not a worship day"},
                    "404": {"description": "Unknown class"}
                }
            }
        },
        "/reports/dashboard": {
            "get": {
                "tags": ["Reports"],
                "summary": "Attendance of every active class on a date",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "data", "in": "query", "type": "string", "format": "date", "description": "Defaults to today"}],
                "responses": {"200": {"description": "One report per class; meta carries totals and cache_hit", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/dashboard/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download the dashboard as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "data", "in": "query", "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/reports/ranking": {
            "get": {
                "tags": ["Reports"],
                "summary": "Classes ordered by attendance percentage",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "data", "in": "query", "type": "string", "format": "date"}],
                "responses": {"200": {"description": "Ranking", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/classes/{turma_id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Attendance of one class on a date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "turma_id", "in": "path", "required": true, "type": "string"},
                    {"name": "data", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "Report", "schema": {"$ref": "#/definitions/ClassAttendanceReport"}},
                    "404": {"description": "Unknown class"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {"refresh_token": {"type": "string"}}
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {"old_password": {"type": "string"}, "new_password": {"type": "string", "minLength": 6}}
        },
        "UserRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "TEACHER", "MODERATOR"]},
                "turmas_permitidas": {"type": "array", "items": {"type": "string"}},
                "ativo": {"type": "boolean"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "ClassRequest": {
            "type": "object",
            "properties": {"nome": {"type": "string"}, "descricao": {"type": "string"}, "ativa": {"type": "boolean"}}
        },
        "StudentRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "data_nascimento": {"type": "string", "format": "date"},
                "contato": {"type": "string"},
                "turma_id": {"type": "string"}
            }
        },
        "AttendanceItem": {
            "type": "object",
            "required": ["aluno_id", "status"],
            "properties": {
                "aluno_id": {"type": "string", "format": "uuid"},
                "status": {"type": "string", "enum": ["presente", "ausente", "visitante", "pos_chamada"]},
                "oferta": {"type": "number", "minimum": 0},
                "biblias_entregues": {"type": "integer", "minimum": 0},
                "revistas_entregues": {"type": "integer", "minimum": 0}
            }
        },
        "AttendanceRequest": {
            "type": "object",
            "required": ["aluno_id", "data", "status"],
            "properties": {
                "aluno_id": {"type": "string", "format": "uuid"},
                "data": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["presente", "ausente", "visitante", "pos_chamada"]},
                "oferta": {"type": "number", "minimum": 0},
                "biblias_entregues": {"type": "integer", "minimum": 0},
                "revistas_entregues": {"type": "integer", "minimum": 0}
            }
        },
        "ClassAttendanceReport": {
            "type": "object",
            "properties": {
                "turma_id": {"type": "string"},
                "turma_nome": {"type": "string"},
                "data": {"type": "string", "format": "date"},
                "matriculados": {"type": "integer"},
                "presentes": {"type": "integer"},
                "ausentes": {"type": "integer", "description": "matriculados minus presentes, may be negative"},
                "visitantes": {"type": "integer"},
                "pos_chamada": {"type": "integer"},
                "registros_ausentes": {"type": "integer"},
                "total_ofertas": {"type": "number"},
                "total_biblias": {"type": "integer"},
                "total_revistas": {"type": "integer"},
                "percentual_presenca": {"type": "number"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
