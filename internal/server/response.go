package server

import (
	"github.com/ginjaninja78/receipt-field-extractor/internal/table"
	"github.com/ginjaninja78/receipt-field-extractor/internal/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// FailureResponse describes a document that could not be read
type FailureResponse struct {
	Document string `json:"document"`
	Error    string `json:"error"`
}

// ExtractResponse is the normalized table of an upload batch
type ExtractResponse struct {
	Columns  []string          `json:"columns"`
	Rows     [][]string        `json:"rows"`
	Failures []FailureResponse `json:"failures"`
}

func newExtractResponse(t table.Table, failures []types.Failure) ExtractResponse {
	resp := ExtractResponse{
		Columns:  t.Columns,
		Rows:     t.Rows,
		Failures: make([]FailureResponse, 0, len(failures)),
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	if resp.Rows == nil {
		resp.Rows = [][]string{}
	}
	for _, f := range failures {
		resp.Failures = append(resp.Failures, FailureResponse{
			Document: f.Document,
			Error:    f.Err.Error(),
		})
	}
	return resp
}
