package crawler

import "fmt"

// FetchError is a network failure or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the body could not be turned into a node tree.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConversionError means price text was not an integer. It never leaves the extractor.
type ConversionError struct {
	Text string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert price %q: %v", e.Text, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
