package types

import (
	"github.com/tliron/glsp"
)

// RequestContext carries everything one LSP method call needs: the
// server-wide context, the GLSP protocol context and request-scoped
// warnings.
type RequestContext struct {
	Server   ServerContext
	GLSP     *glsp.Context
	warnings []error
}

// NewRequestContext creates a new request context
func NewRequestContext(server ServerContext, glsp *glsp.Context) *RequestContext {
	return &RequestContext{
		Server: server,
		GLSP:   glsp,
	}
}

// AddWarning records a non-fatal problem. The middleware logs warnings after
// the handler returns.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns the warnings collected during this request
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

// HasWarnings reports whether any warnings were collected
func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}
