// Package main generates a JSON schema skeleton from the report structs.
// The committed pkg/report/report.schema.json adds bounds on top of it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/Sumatoshi-tech/lockcov/pkg/report"
)

// Schema represents a JSON Schema.
type Schema struct {
	Schema               string             `json:"$schema,omitempty"`
	Title                string             `json:"title,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
}

func main() {
	var output string

	flag.StringVar(&output, "o", "", "Output file (default: stdout)")
	flag.Parse()

	data, err := json.MarshalIndent(generateSchema("lockcov report", report.Report{}), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: marshal schema: %v\n", err)
		os.Exit(1)
	}

	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
	} else {
		err = os.WriteFile(output, data, 0o644)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func generateSchema(title string, v any) *Schema {
	schema := typeToSchema(reflect.TypeOf(v))
	schema.Schema = "http://json-schema.org/draft-07/schema#"
	schema.Title = title

	return schema
}

func structToSchema(t reflect.Type) *Schema {
	closed := false
	schema := &Schema{
		Type:                 "object",
		Properties:           make(map[string]*Schema),
		AdditionalProperties: &closed,
	}

	for i := range t.NumField() {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")

		if jsonTag == "-" || jsonTag == "" {
			continue
		}

		parts := strings.Split(jsonTag, ",")
		jsonName := parts[0]
		isOmitempty := len(parts) > 1 && parts[1] == "omitempty"

		schema.Properties[jsonName] = typeToSchema(field.Type)

		if !isOmitempty {
			schema.Required = append(schema.Required, jsonName)
		}
	}

	return schema
}

func typeToSchema(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Slice:
		return &Schema{Type: "array", Items: typeToSchema(t.Elem())}
	case reflect.Struct:
		return structToSchema(t)
	case reflect.Ptr:
		return typeToSchema(t.Elem())
	default:
		return &Schema{Type: "object"}
	}
}
