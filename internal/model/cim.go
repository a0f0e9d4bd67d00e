package model

import "sort"

// CIMField is one standard field of a common-information-model event category.
type CIMField struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CIMFields maps a CIM model name to its target field vocabulary. Static,
// read-only after process start.
var CIMFields = map[string][]CIMField{
	"authentication": {
		{Name: "user", Description: "Username or user identifier"},
		{Name: "src_ip", Description: "Source IP address"},
		{Name: "dest_ip", Description: "Destination IP address"},
		{Name: "action", Description: "Authentication action (success, failure)"},
		{Name: "app", Description: "Application name"},
		{Name: "session_id", Description: "Session identifier"},
	},
	"network_traffic": {
		{Name: "src_ip", Description: "Source IP address"},
		{Name: "dest_ip", Description: "Destination IP address"},
		{Name: "src_port", Description: "Source port number"},
		{Name: "dest_port", Description: "Destination port number"},
		{Name: "protocol", Description: "Network protocol"},
		{Name: "bytes_in", Description: "Bytes received"},
		{Name: "bytes_out", Description: "Bytes sent"},
	},
	"web": {
		{Name: "clientip", Description: "Client IP address"},
		{Name: "uri_path", Description: "URI path requested"},
		{Name: "status", Description: "HTTP status code"},
		{Name: "method", Description: "HTTP method"},
		{Name: "user_agent", Description: "User agent string"},
		{Name: "referer", Description: "HTTP referer"},
	},
}

// CIMModels returns the known model names, sorted.
func CIMModels() []string {
	names := make([]string, 0, len(CIMFields))
	for name := range CIMFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractedField pairs an already-extracted field name with an optional
// sample value, as input to CIM mapping.
type ExtractedField struct {
	Name   string `json:"name"`
	Sample string `json:"sample,omitempty"`
}

// CIMMapping is one confidence-scored suggestion mapping an extracted field
// onto a standard CIM field.
type CIMMapping struct {
	Field      string  `json:"field"`
	CIMField   string  `json:"cimField"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}
