// Package web defines common components for a web application.
package web

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into json frinedly response.
func Error(err error) Response {
	return Response{Error: err.Error()}
}
