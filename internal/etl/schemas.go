// Package etl loads the offline reference datasets (service directory,
// SEIFA, labour force) into Postgres and Elasticsearch. Every CSV row is
// validated against a JSON Schema before it is written anywhere, and a
// provenance manifest records what was loaded from where.
package etl

// Row schemas. Numeric fields are validated post-conversion, so the
// schemas see numbers, not CSV strings.

const serviceRowSchema = `{
	"type": "object",
	"required": ["name", "agency", "suburb", "state", "latitude", "longitude", "category"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"agency": {"type": "string", "minLength": 1},
		"address": {"type": "string"},
		"suburb": {"type": "string", "minLength": 1},
		"state": {"type": "string", "enum": ["NSW", "VIC", "QLD", "SA", "WA", "TAS", "NT", "ACT"]},
		"latitude": {"type": "number", "minimum": -44.0, "maximum": -9.0},
		"longitude": {"type": "number", "minimum": 112.0, "maximum": 154.0},
		"phone": {"type": "string"},
		"website": {"type": "string"},
		"category": {"type": "string", "minLength": 1}
	}
}`

const seifaRowSchema = `{
	"type": "object",
	"required": ["suburb", "state", "irsd_score", "irsd_decile"],
	"properties": {
		"suburb": {"type": "string", "minLength": 1},
		"state": {"type": "string", "enum": ["NSW", "VIC", "QLD", "SA", "WA", "TAS", "NT", "ACT"]},
		"irsd_score": {"type": "number", "minimum": 0},
		"irsd_decile": {"type": "integer", "minimum": 1, "maximum": 10}
	}
}`

const labourRowSchema = `{
	"type": "object",
	"required": ["state", "unemployment_rate", "participation_rate", "reference_period"],
	"properties": {
		"state": {"type": "string", "enum": ["NSW", "VIC", "QLD", "SA", "WA", "TAS", "NT", "ACT"]},
		"unemployment_rate": {"type": "number", "minimum": 0, "maximum": 100},
		"participation_rate": {"type": "number", "minimum": 0, "maximum": 100},
		"reference_period": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}$"}
	}
}`
