package report

// Schema is the JSON Schema (Draft 2020-12) for the trace JSON
// output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/spindle/trace-report.schema.json",
  "title": "Spindle Trace Report",
  "description": "Output schema for spindle trace --format=json",
  "type": "object",
  "required": ["version", "trace"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Schema version (semver)"
    },
    "trace": { "$ref": "#/$defs/Result" }
  },
  "$defs": {
    "Result": {
      "type": "object",
      "required": ["start", "steps", "count"],
      "properties": {
        "start": {
          "type": "integer",
          "description": "Starting dial position"
        },
        "steps": {
          "type": "array",
          "items": { "$ref": "#/$defs/Step" }
        },
        "count": {
          "type": "integer",
          "minimum": 0,
          "description": "Number of steps that landed exactly on zero"
        }
      }
    },
    "Step": {
      "type": "object",
      "required": ["index", "token", "direction", "distance", "position", "zero"],
      "properties": {
        "index": {
          "type": "integer",
          "minimum": 1,
          "description": "1-based instruction index"
        },
        "token": {
          "type": "string",
          "description": "Raw instruction text"
        },
        "direction": {
          "type": "string",
          "description": "First character of the token, empty for an empty token"
        },
        "distance": {
          "type": "string",
          "pattern": "^(NaN|[+-]?[0-9]+)$",
          "description": "Parsed distance, or the literal 'NaN'"
        },
        "position": {
          "type": "string",
          "pattern": "^(NaN|[+-]?[0-9]+)$",
          "description": "Dial position after this step, or the literal 'NaN'"
        },
        "zero": {
          "type": "boolean",
          "description": "Whether this step landed exactly on zero"
        }
      }
    }
  }
}`
