package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the portfolio API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
// apiPrefix is substituted into the documented paths.
func RegisterSwagger(rg *gin.Engine, apiPrefix string) {
	doc := []byte(strings.ReplaceAll(swaggerJSON, "{prefix}", apiPrefix))

	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>portfolio-api · Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "portfolio-api", "version": "v1.0.0" },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } } },
  "paths": {
    "{prefix}/content": {
      "get": { "summary": "Aggregated portfolio content", "responses": { "200": { "description": "about, projects, experience and skills" }, "500": { "description": "store failure" } } }
    },
    "{prefix}/login": {
      "post": {
        "summary": "Administrator login",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password"],"properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "signed session token" }, "401": { "description": "invalid credentials" } }
      }
    },
    "{prefix}/about": {
      "put": { "summary": "Upsert the about section", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"},"text":{"type":"string"}}}}}}, "responses": { "200": { "description": "about record" }, "401": { "description": "unauthorized" } } }
    },
    "{prefix}/skills": {
      "put": { "summary": "Replace the skill set", "security": [{"bearer": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"array","items":{"type":"string"}}}}}, "responses": { "200": { "description": "stored names" }, "500": { "description": "duplicate name or store failure" } } }
    },
    "{prefix}/projects": {
      "post": { "summary": "Create a project (multipart with optional image)", "security": [{"bearer": []}], "responses": { "201": { "description": "created project" } } }
    },
    "{prefix}/projects/{id}": {
      "put": { "summary": "Partially update a project", "security": [{"bearer": []}], "responses": { "200": { "description": "updated project" }, "500": { "description": "unknown id or store failure" } } },
      "delete": { "summary": "Delete a project", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted, also when nothing matched" } } }
    },
    "{prefix}/experience": {
      "post": { "summary": "Create an experience entry", "security": [{"bearer": []}], "responses": { "201": { "description": "created entry" } } }
    },
    "{prefix}/experience/{id}": {
      "put": { "summary": "Partially update an experience entry", "security": [{"bearer": []}], "responses": { "200": { "description": "updated entry" } } },
      "delete": { "summary": "Delete an experience entry", "security": [{"bearer": []}], "responses": { "200": { "description": "deleted" } } }
    },
    "{prefix}/contact/submit": {
      "post": { "summary": "Submit a contact message", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","email","message"],"properties":{"name":{"type":"string"},"email":{"type":"string"},"message":{"type":"string"},"date":{"type":"string","format":"date-time"}}}}}}, "responses": { "201": { "description": "stored submission" } } }
    },
    "{prefix}/contact/submissions": {
      "get": { "summary": "List contact submissions, newest first", "security": [{"bearer": []}], "responses": { "200": { "description": "submissions" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
