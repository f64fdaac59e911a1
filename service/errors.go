package service

import "fmt"

// TransportError is a failed request to the query backend: either no response
// (Err set) or a non-2xx status (StatusCode and Body set).
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		if e.StatusCode != 0 {
			return fmt.Sprintf("query backend (status %d): %v", e.StatusCode, e.Err)
		}
		return fmt.Sprintf("query backend unreachable: %v", e.Err)
	}
	return fmt.Sprintf("query backend returned status %d: %s", e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is a backend response body that is not a SPARQL JSON result.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed query result: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
