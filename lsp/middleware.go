package lsp

import (
	"fmt"
	"runtime/debug"

	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/lsp/methods/workspace"
	"bennypowers.dev/gtf/lsp/types"
	"github.com/tliron/glsp"
)

// method wraps a request handler with panic recovery, logging and error
// wrapping. It returns the function type protocol.Handler fields expect.
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recoverPanic(ctx, methodName, r)
				var zero R
				result = zero
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		result, err = handler(req, params)
		logWarnings(methodName, req)

		if err != nil {
			return result, failed(ctx, methodName, err)
		}

		log.Debug("%s completed", methodName)
		return result, nil
	}
}

// notify wraps a notification handler
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recoverPanic(ctx, methodName, r)
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		err = handler(req, params)
		logWarnings(methodName, req)

		if err != nil {
			return failed(ctx, methodName, err)
		}

		log.Debug("%s completed", methodName)
		return nil
	}
}

// noParam wraps a handler that takes no params, like shutdown
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recoverPanic(ctx, methodName, r)
			}
		}()

		log.Debug("%s started", methodName)
		req := types.NewRequestContext(s, ctx)
		err = handler(req)
		logWarnings(methodName, req)

		if err != nil {
			return failed(ctx, methodName, err)
		}

		log.Debug("%s completed", methodName)
		return nil
	}
}

func recoverPanic(ctx *glsp.Context, methodName string, r any) error {
	log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
	workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
	return fmt.Errorf("internal error in %s", methodName)
}

func failed(ctx *glsp.Context, methodName string, err error) error {
	workspace.LogError(ctx, "%s: %v", methodName, err)
	return fmt.Errorf("%s: %w", methodName, err)
}

// logWarnings reports the non-fatal problems a handler collected to the log
// and the client. They never fail the request.
func logWarnings(methodName string, req *types.RequestContext) {
	for _, w := range req.Warnings() {
		workspace.LogWarning(req.GLSP, "%s: %v", methodName, w)
	}
}
