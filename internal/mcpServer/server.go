package mcpServer

import (
	"context"
	"errors"

	"github.com/akolanti/ContractAPI/internal/rag"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

var (
	ErrMissingService  = errors.New("mcp: analysis service is required")
	ErrMissingDocument = errors.New("document_path is required")
	ErrMissingQuery    = errors.New("query is required")
)

// Server exposes the analysis service as MCP tools.
type Server struct {
	service rag.Service
	server  *mcp.Server
	logger  *logger_i.Logger
}

func NewServer(service rag.Service) (*Server, error) {
	if service == nil {
		return nil, ErrMissingService
	}
	s := &Server{
		service: service,
		server:  mcp.NewServer(&mcp.Implementation{Name: "contract-analysis", Version: Version}, nil),
		logger:  logger_i.NewLogger("mcp"),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
