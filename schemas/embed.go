// Package schemas holds the JSON Schemas for files the CLI reads.
package schemas

import "embed"

// Schema file names.
const (
	Catalog = "catalog.schema.json"
	Answers = "answers.schema.json"
)

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
