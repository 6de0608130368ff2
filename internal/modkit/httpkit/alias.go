// Package httpkit is the handler and routing surface modules import instead of
// internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "linkmap/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is the HTTP response type
	Response = phttp.Response

	// File is a raw download body
	File = phttp.File

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Download returns raw bytes as an attachment named name
func Download(contentType, name string, data []byte) Response {
	return phttp.Download(contentType, name, data)
}

// JSON adapts a handler taking a decoded and validated JSON body
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler { return phttp.JSONHandler(fn) }

// Call adapts a handler that reads the request itself. Returning a Response
// (e.g. Download) bypasses the envelope
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.JSONHandlerNoBody(fn) }

// Handle adapts a Response-returning function directly
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }
