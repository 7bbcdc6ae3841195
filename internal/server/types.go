package server

import (
	"github.com/rezonia/cii-invoice/internal/cii"
	"github.com/rezonia/cii-invoice/internal/schema"
)

// ValidationResponse is the response for the invoice validate endpoint
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Invoice  string   `json:"invoice"`
	Messages []string `json:"messages,omitempty"`
}

// CheckResponse is the response for the document check endpoint
type CheckResponse struct {
	Profile string `json:"profile"`
	*schema.Report
}

// InfoResponse is the response for the document info endpoint
type InfoResponse struct {
	Format string `json:"format"`
	Size   int    `json:"size"`
	*cii.DocumentInfo
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Messages []string `json:"messages,omitempty"`
}
