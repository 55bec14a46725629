package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewParlintMCPServer creates a new MCP server with all parlint tools and
// resources registered. The projectPath is the root directory the tools
// lint; paths passed by clients are resolved below it.
func NewParlintMCPServer(projectPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"parlint",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}
