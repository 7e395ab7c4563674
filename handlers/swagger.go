package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>bizlink-admin Swagger</title>
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

// Hand-maintained OpenAPI document for the routes clients use most. The
// generic CRUD resources follow the same add/getAll/get/update/delete/count
// pattern shown for /api/myAsk.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "bizlink-admin", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Error": { "type": "object", "properties": { "error": {"type":"string"}, "code": {"type":"string","enum":["VALIDATION_ERROR","NOT_FOUND","CONFLICT","UNAUTHORIZED","FORBIDDEN","SERVER_ERROR","RATE_LIMITED"]} } },
      "AskInput": { "type": "object", "required": ["companyName","dept"], "properties": { "companyName": {"type":"string"}, "dept": {"type":"string"}, "message": {"type":"string"} } },
      "GiveInput": { "type": "object", "required": ["companyName"], "properties": { "companyName": {"type":"string"}, "dept": {"type":"string"}, "email": {"type":"string"}, "phoneNumber": {"type":"string"}, "webURL": {"type":"string"} } }
    }
  },
  "security": [ { "bearer": [] } ],
  "paths": {
    "/api/member/addMember": { "post": { "summary": "Register a member", "security": [], "responses": { "201": { "description": "registered" }, "409": { "description": "email already registered" } } } },
    "/api/member/adminApprove": { "put": { "summary": "Admin approval", "parameters": [ {"name":"id","in":"query","required":true,"schema":{"type":"string"}} ], "responses": { "200": { "description": "approved" }, "403": { "description": "not an admin" } } } },
    "/api/member/memberApprove": { "put": { "summary": "Sponsor confirmation", "parameters": [ {"name":"id","in":"query","required":true,"schema":{"type":"string"}} ], "responses": { "200": { "description": "confirmed" } } } },
    "/api/member/getPendingMembers": { "get": { "summary": "Members awaiting admin approval", "responses": { "200": { "description": "page of members" } } } },
    "/api/myAsk/addMyAsk": { "post": { "summary": "Create an Ask", "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/AskInput" } } } }, "responses": { "201": { "description": "created" }, "400": { "description": "validation error" } } } },
    "/api/myAsk/getMyAsks": { "get": { "summary": "List own Asks", "parameters": [ {"name":"page","in":"query","schema":{"type":"integer"}}, {"name":"limit","in":"query","schema":{"type":"integer"}} ], "responses": { "200": { "description": "page of asks" } } } },
    "/api/myAsk/getMyAskById": { "get": { "summary": "Get one Ask", "parameters": [ {"name":"id","in":"query","required":true,"schema":{"type":"string"}} ], "responses": { "200": { "description": "ask" }, "404": { "description": "not found" } } } },
    "/api/myAsk/updateMyAsk": { "put": { "summary": "Update an Ask", "responses": { "200": { "description": "updated" } } } },
    "/api/myAsk/deleteMyAskById": { "delete": { "summary": "Delete an Ask", "responses": { "200": { "description": "deleted" } } } },
    "/api/myAsk/countMyAsks": { "get": { "summary": "Count own Asks", "responses": { "200": { "description": "count" } } } },
    "/api/myGives/addMyGives": { "post": { "summary": "Create a Give", "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/GiveInput" } } } }, "responses": { "201": { "description": "created" } } } },
    "/api/myGives/getMyGivesBasedOnMyAsks": { "get": { "summary": "Matches grouped by company", "parameters": [ {"name":"userId","in":"query","schema":{"type":"string"}}, {"name":"page","in":"query","schema":{"type":"integer"}}, {"name":"pageSize","in":"query","schema":{"type":"integer"}} ], "responses": { "200": { "description": "matches, total, page, pageSize, hasNextPage" }, "404": { "description": "no asks found / no match found" } } } },
    "/api/match2/myMatchesByCompanyAndDept": { "get": { "summary": "Matches by company and department", "parameters": [ {"name":"userId","in":"query","schema":{"type":"string"}}, {"name":"companyName","in":"query","schema":{"type":"string"}}, {"name":"dept","in":"query","schema":{"type":"string"}}, {"name":"page","in":"query","schema":{"type":"integer"}}, {"name":"pageSize","in":"query","schema":{"type":"integer"}} ], "responses": { "200": { "description": "gives, total, page, pageSize, hasNextPage" }, "404": { "description": "no asks found / no match found" } } } },
    "/api/company/updateCompany": { "put": { "summary": "Update a company; renames propagate to Asks and Gives", "responses": { "200": { "description": "updated with propagated counts" } } } },
    "/api/upload/image": { "post": { "summary": "Upload an image (field image)", "responses": { "201": { "description": "filename" }, "400": { "description": "unsupported type or too large" } } } },
    "/api/upload/pdf": { "post": { "summary": "Upload a PDF (field pdf)", "responses": { "201": { "description": "filename" } } } },
    "/api/upload/url": { "get": { "summary": "Resolve a stored filename", "parameters": [ {"name":"filename","in":"query","required":true,"schema":{"type":"string"}} ], "responses": { "200": { "description": "url" } } } },
    "/api/auth/me": { "get": { "summary": "Current member", "responses": { "200": { "description": "member" }, "401": { "description": "unauthenticated" } } } },
    "/api/auth/logout": { "post": { "summary": "Revoke the presented token", "responses": { "200": { "description": "logged out" } } } },
    "/health": { "get": { "summary": "Liveness check", "security": [], "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "security": [], "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "security": [], "responses": { "200": { "description": "metrics" } } } }
  }
}`
