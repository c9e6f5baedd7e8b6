// Package openapi serves a machine-readable description of the clinic REST
// API as an OpenAPI 3.0 document.
package openapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// resource describes one REST collection exposed under /api/v1.
type resource struct {
	name       string // path segment, e.g. "appointments"
	schemaName string // component schema, e.g. "Appointment"
	filters    []param
}

type param struct {
	name    string
	typ     string
	format  string
	example string
}

// Generator builds the OpenAPI document for the clinic API.
type Generator struct {
	version string
	baseURL string
}

// NewGenerator creates a Generator for the given server version and base URL.
func NewGenerator(version, baseURL string) *Generator {
	return &Generator{version: version, baseURL: baseURL}
}

var resources = []resource{
	{
		name:       "patients",
		schemaName: "Patient",
		filters: []param{
			{name: "email", typ: "string"},
			{name: "national_id", typ: "string"},
			{name: "name", typ: "string"},
		},
	},
	{
		name:       "staff",
		schemaName: "MedicalStaff",
		filters: []param{
			{name: "email", typ: "string"},
			{name: "license_number", typ: "string"},
			{name: "role", typ: "string", example: "DOCTOR"},
			{name: "specialization", typ: "string"},
		},
	},
	{
		name:       "departments",
		schemaName: "Department",
		filters: []param{
			{name: "name", typ: "string"},
		},
	},
	{
		name:       "medical-records",
		schemaName: "MedicalRecord",
		filters: []param{
			{name: "patient_id", typ: "string", format: "uuid"},
			{name: "diagnosis", typ: "string"},
			{name: "from", typ: "string", format: "date-time"},
			{name: "to", typ: "string", format: "date-time"},
		},
	},
	{
		name:       "appointments",
		schemaName: "Appointment",
		filters: []param{
			{name: "patient_id", typ: "string", format: "uuid"},
			{name: "staff_id", typ: "string", format: "uuid"},
			{name: "department_id", typ: "string", format: "uuid"},
			{name: "status", typ: "string", example: "SCHEDULED"},
			{name: "reason", typ: "string"},
			{name: "from", typ: "string", format: "date-time"},
			{name: "to", typ: "string", format: "date-time"},
		},
	},
}

// GenerateSpec produces the OpenAPI 3.0 document as a map ready for JSON
// serialization.
func (g *Generator) GenerateSpec() map[string]interface{} {
	paths := make(map[string]interface{})
	for _, res := range resources {
		collection := "/api/v1/" + res.name
		paths[collection] = map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "List " + res.schemaName + " resources",
				"operationId": "list" + res.schemaName,
				"tags":        []string{res.schemaName},
				"parameters":  g.listParameters(res),
				"responses": map[string]interface{}{
					"200": response("Paginated result set", "#/components/schemas/PaginatedResponse"),
				},
			},
			"post": map[string]interface{}{
				"summary":     "Create a " + res.schemaName,
				"operationId": "create" + res.schemaName,
				"tags":        []string{res.schemaName},
				"requestBody": requestBody(res.schemaName),
				"responses": map[string]interface{}{
					"201": response("Created", "#/components/schemas/"+res.schemaName),
					"400": response("Invalid input", "#/components/schemas/Error"),
					"404": response("Referenced resource not found", "#/components/schemas/Error"),
					"409": response("Conflict with an existing resource", "#/components/schemas/Error"),
				},
			},
		}
		paths[collection+"/{id}"] = map[string]interface{}{
			"get": map[string]interface{}{
				"summary":     "Read a " + res.schemaName,
				"operationId": "get" + res.schemaName,
				"tags":        []string{res.schemaName},
				"parameters":  []interface{}{idParam()},
				"responses": map[string]interface{}{
					"200": response("The resource", "#/components/schemas/"+res.schemaName),
					"404": response("Not found", "#/components/schemas/Error"),
				},
			},
			"put": map[string]interface{}{
				"summary":     "Update a " + res.schemaName,
				"operationId": "update" + res.schemaName,
				"tags":        []string{res.schemaName},
				"parameters":  []interface{}{idParam()},
				"requestBody": requestBody(res.schemaName),
				"responses": map[string]interface{}{
					"200": response("Updated", "#/components/schemas/"+res.schemaName),
					"400": response("Invalid input", "#/components/schemas/Error"),
					"404": response("Not found", "#/components/schemas/Error"),
					"409": response("Scheduling conflict", "#/components/schemas/Error"),
				},
			},
			"delete": map[string]interface{}{
				"summary":     "Delete a " + res.schemaName,
				"operationId": "delete" + res.schemaName,
				"tags":        []string{res.schemaName},
				"parameters":  []interface{}{idParam()},
				"responses": map[string]interface{}{
					"204": map[string]interface{}{"description": "Deleted"},
					"403": response("Caller not authorized", "#/components/schemas/Error"),
					"404": response("Not found", "#/components/schemas/Error"),
				},
			},
		}
	}

	// The status patch is specific to appointments.
	paths["/api/v1/appointments/{id}/status"] = map[string]interface{}{
		"patch": map[string]interface{}{
			"summary":     "Set the appointment status",
			"operationId": "updateAppointmentStatus",
			"tags":        []string{"Appointment"},
			"parameters":  []interface{}{idParam()},
			"requestBody": map[string]interface{}{
				"required": true,
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"schema": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"status": map[string]interface{}{
									"type": "string",
									"enum": []string{"SCHEDULED", "COMPLETED", "CANCELLED", "NO_SHOW"},
								},
							},
							"required": []string{"status"},
						},
					},
				},
			},
			"responses": map[string]interface{}{
				"200": response("Updated", "#/components/schemas/Appointment"),
				"400": response("Unknown status value", "#/components/schemas/Error"),
				"404": response("Not found", "#/components/schemas/Error"),
			},
		},
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "Clinic Administration API",
			"description": "REST API for patients, medical staff, departments, medical records, and appointment scheduling.",
			"version":     g.version,
		},
		"servers": []map[string]interface{}{
			{"url": g.baseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": schemas(),
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]interface{}{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"security": []map[string]interface{}{
			{"bearerAuth": []string{}},
		},
	}
}

func (g *Generator) listParameters(res resource) []interface{} {
	params := []interface{}{
		queryParam(param{name: "limit", typ: "integer"}),
		queryParam(param{name: "offset", typ: "integer"}),
	}
	for _, f := range res.filters {
		params = append(params, queryParam(f))
	}
	return params
}

func queryParam(p param) map[string]interface{} {
	schema := map[string]interface{}{"type": p.typ}
	if p.format != "" {
		schema["format"] = p.format
	}
	if p.example != "" {
		schema["example"] = p.example
	}
	return map[string]interface{}{
		"name":   p.name,
		"in":     "query",
		"schema": schema,
	}
}

func idParam() map[string]interface{} {
	return map[string]interface{}{
		"name":     "id",
		"in":       "path",
		"required": true,
		"schema":   map[string]interface{}{"type": "string", "format": "uuid"},
	}
}

func response(description, ref string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": ref},
			},
		},
	}
}

func requestBody(schemaName string) map[string]interface{} {
	return map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": "#/components/schemas/" + schemaName},
			},
		},
	}
}

func schemas() map[string]interface{} {
	uuidField := map[string]interface{}{"type": "string", "format": "uuid"}
	timeField := map[string]interface{}{"type": "string", "format": "date-time"}

	return map[string]interface{}{
		"Error": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"message": map[string]interface{}{"type": "string"},
			},
		},
		"PaginatedResponse": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"data":     map[string]interface{}{"type": "array", "items": map[string]interface{}{}},
				"total":    map[string]interface{}{"type": "integer"},
				"limit":    map[string]interface{}{"type": "integer"},
				"offset":   map[string]interface{}{"type": "integer"},
				"has_more": map[string]interface{}{"type": "boolean"},
			},
		},
		"Patient": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":          uuidField,
				"first_name":  map[string]interface{}{"type": "string"},
				"last_name":   map[string]interface{}{"type": "string"},
				"email":       map[string]interface{}{"type": "string", "format": "email"},
				"national_id": map[string]interface{}{"type": "string"},
				"phone":       map[string]interface{}{"type": "string"},
				"birth_date":  timeField,
				"gender":      map[string]interface{}{"type": "string"},
				"address":     map[string]interface{}{"type": "string"},
			},
			"required": []string{"first_name", "last_name", "email", "national_id"},
		},
		"MedicalStaff": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":             uuidField,
				"first_name":     map[string]interface{}{"type": "string"},
				"last_name":      map[string]interface{}{"type": "string"},
				"email":          map[string]interface{}{"type": "string", "format": "email"},
				"license_number": map[string]interface{}{"type": "string"},
				"role": map[string]interface{}{
					"type": "string",
					"enum": []string{"DOCTOR", "NURSE", "TECHNICIAN", "ADMINISTRATOR"},
				},
				"specialization": map[string]interface{}{"type": "string"},
				"phone":          map[string]interface{}{"type": "string"},
				"department_id":  uuidField,
			},
			"required": []string{"first_name", "last_name", "email", "license_number", "role"},
		},
		"Department": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":          uuidField,
				"name":        map[string]interface{}{"type": "string"},
				"description": map[string]interface{}{"type": "string"},
				"location":    map[string]interface{}{"type": "string"},
			},
			"required": []string{"name"},
		},
		"MedicalRecord": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":          uuidField,
				"patient_id":  uuidField,
				"staff_id":    uuidField,
				"record_date": timeField,
				"diagnosis":   map[string]interface{}{"type": "string"},
				"treatment":   map[string]interface{}{"type": "string"},
				"notes":       map[string]interface{}{"type": "string"},
			},
			"required": []string{"patient_id", "staff_id", "record_date", "diagnosis"},
		},
		"Appointment": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":            uuidField,
				"patient_id":    uuidField,
				"staff_id":      uuidField,
				"department_id": uuidField,
				"date_time":     timeField,
				"duration_minutes": map[string]interface{}{
					"type": "integer", "minimum": 15, "maximum": 240,
				},
				"reason": map[string]interface{}{"type": "string", "maxLength": 500},
				"notes":  map[string]interface{}{"type": "string", "maxLength": 1500},
				"status": map[string]interface{}{
					"type": "string",
					"enum": []string{"SCHEDULED", "COMPLETED", "CANCELLED", "NO_SHOW"},
				},
			},
			"required": []string{"patient_id", "staff_id", "date_time", "reason"},
		},
	}
}

// Handler serves the generated document.
func (g *Generator) Handler() echo.HandlerFunc {
	spec := g.GenerateSpec()
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, spec)
	}
}
