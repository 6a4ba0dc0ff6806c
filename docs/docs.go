// Package docs registers the OpenAPI description served at /swagger.
// It is maintained by hand in the layout swag emits; keep it in step with the
// handler annotations when routes change.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"tags": ["system"], "summary": "Liveness check", "responses": {"200": {"description": "OK"}}}},
        "/create-payment-intent": {"post": {"tags": ["payments"], "summary": "Create a card payment intent",
            "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/service.PaymentIntentInput"}}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "503": {"description": "Service Unavailable"}}}},
        "/api/user/register": {"post": {"tags": ["users"], "summary": "Register a customer account",
            "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/service.RegisterInput"}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/api/user/login": {"post": {"tags": ["users"], "summary": "Log in",
            "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/service.LoginInput"}}],
            "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/order": {"get": {"tags": ["orders"], "summary": "List all orders", "responses": {"200": {"description": "OK"}}}},
        "/api/order/create": {"post": {"tags": ["orders"], "summary": "Create order", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/service.CreateOrderInput"}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/api/order/my": {"get": {"tags": ["orders"], "summary": "List the caller's orders", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/order/garage": {"get": {"tags": ["orders"], "summary": "List the garage's orders", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "boolean", "name": "customerOnly", "in": "query"}],
            "responses": {"200": {"description": "OK"}}}},
        "/api/order/{id}": {"get": {"tags": ["orders"], "summary": "Get order by id",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/order/update/{id}": {"put": {"tags": ["orders"], "summary": "Update order status", "security": [{"BearerAuth": []}],
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/dashboard/admin/dashboard/stats": {"get": {"tags": ["dashboard"], "summary": "Admin dashboard statistics", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AdminStats"}}}}},
        "/api/dashboard/garage/dashboard/stats": {"get": {"tags": ["dashboard"], "summary": "Garage dashboard statistics", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.GarageStats"}}}}},
        "/api/admin/products": {
            "get": {"tags": ["products"], "summary": "List products", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["products"], "summary": "Create product", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/api/admin/products/{id}": {
            "get": {"tags": ["products"], "summary": "Get product by id", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["products"], "summary": "Update product", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["products"], "summary": "Delete product", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/garage/products": {
            "get": {"tags": ["products"], "summary": "List the caller's products", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["products"], "summary": "Create product", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/api/garage/products/{id}": {
            "get": {"tags": ["products"], "summary": "Get product by id", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["products"], "summary": "Update product", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["products"], "summary": "Delete product", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/api/brand": {
            "get": {"tags": ["brands"], "summary": "List brands", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["brands"], "summary": "Create brand", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/api/brand/{id}": {
            "get": {"tags": ["brands"], "summary": "Get brand by id", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["brands"], "summary": "Update brand", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["brands"], "summary": "Delete brand", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/api/admin/users": {
            "get": {"tags": ["admin"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["admin"], "summary": "Create user", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/api/admin/users/{id}": {
            "get": {"tags": ["admin"], "summary": "Get user", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["admin"], "summary": "Update user", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["admin"], "summary": "Delete user", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/api/garage/user/get": {"get": {"tags": ["garage"], "summary": "List the garage's customers", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/garage/user/create": {"post": {"tags": ["garage"], "summary": "Create a customer managed by the garage", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/api/garage/user/{id}": {
            "get": {"tags": ["garage"], "summary": "Get a managed customer", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["garage"], "summary": "Update a managed customer", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["garage"], "summary": "Delete a managed customer", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}}
    },
    "definitions": {
        "service.PaymentIntentInput": {"type": "object", "properties": {"amount": {"type": "integer"}, "currency": {"type": "string"}}},
        "service.RegisterInput": {"type": "object", "properties": {"fullName": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "service.LoginInput": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "domain.LineItem": {"type": "object", "properties": {
            "productId": {"type": "string"}, "name": {"type": "string"}, "category": {"type": "string"},
            "price": {"type": "number"}, "totalPrice": {"type": "number"}, "quantity": {"type": "integer"},
            "selectedColor": {"type": "string"}, "selectedSize": {"type": "string"}}},
        "service.CreateOrderInput": {"type": "object", "properties": {
            "items": {"type": "array", "items": {"$ref": "#/definitions/domain.LineItem"}},
            "totalPrice": {"type": "number"}, "country": {"type": "string"}, "city": {"type": "string"},
            "address": {"type": "string"}, "customerId": {"type": "string"}, "paymentMethod": {"type": "string"},
            "status": {"type": "string"}}},
        "domain.AdminStats": {"type": "object", "properties": {
            "monthlyRevenue": {"type": "array", "items": {"type": "object"}},
            "orderStatusDistribution": {"type": "array", "items": {"type": "object"}},
            "mostSellingProducts": {"type": "array", "items": {"type": "object"}},
            "averageSalesPerItem": {"type": "number"}, "totalRevenue": {"type": "number"}, "profit": {"type": "number"},
            "totalQuantity": {"type": "integer"}, "distinctProductsCount": {"type": "integer"}, "skippedOrders": {"type": "integer"}}},
        "domain.GarageStats": {"type": "object", "properties": {
            "monthlyOrders": {"type": "array", "items": {"type": "object"}},
            "mostBoughtProducts": {"type": "array", "items": {"type": "object"}},
            "customerDistribution": {"type": "array", "items": {"type": "object"}},
            "skippedOrders": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Partshop API",
	Description:      "Auto parts marketplace: catalog, orders, dashboards and payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
