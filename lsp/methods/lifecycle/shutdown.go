package lifecycle

import (
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/parser"
	"bennypowers.dev/gtf/lsp/types"
)

// Shutdown handles the LSP shutdown request by releasing the parser pools
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	parser.ClosePools()
	return nil
}
