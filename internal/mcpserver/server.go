// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the documentation catalog as read-only tools for LLM integration
// via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/docservice"
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List every documentation category with its display name and URL slug."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List the documents of a category with their titles, dates, and subcategories. "+
			"Accepts on-disk (Tech_Learning) and URL (tech-learning) category forms."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category name")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the full Markdown content of a document. The slug may be the exact "+
			"file-name stem or an approximation; lookup falls back to prefix and substring matching. "+
			"See the ansuz://corpus-layout resource for naming conventions."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category name")),
		mcp.WithString("subcategory", mcp.Required(), mcp.Description("Subcategory name")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Document slug")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("get_outline",
		mcp.WithDescription("Get the heading outline of a document: id, text, and level for every "+
			"heading of level 1-3, in document order."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category name")),
		mcp.WithString("subcategory", mcp.Required(), mcp.Description("Subcategory name")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Document slug")),
	), s.getOutline)

	// Resource: corpus layout conventions.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://corpus-layout", "Corpus Layout",
			mcp.WithResourceDescription("How the documentation tree is organized and how slugs resolve."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCorpusLayoutResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats := s.svc.ListCategories(ctx)
	if len(cats) == 0 {
		return mcp.NewToolResultText("no categories found"), nil
	}
	out, _ := json.MarshalIndent(cats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docs := s.svc.ListDocuments(ctx, category, false)
	if len(docs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no documents in category: %s", category)), nil
	}
	out, _ := json.MarshalIndent(docs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, subcategory, slug, errResult := documentArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	detail, err := s.svc.GetDocument(ctx, category, subcategory, slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%s/%s", category, subcategory, slug)), nil
	}

	var sb strings.Builder
	sb.WriteString("# " + detail.Title + "\n")
	if detail.Date != "" {
		sb.WriteString("Date: " + detail.Date + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(detail.Content)
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) getOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, subcategory, slug, errResult := documentArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	detail, err := s.svc.GetDocument(ctx, category, subcategory, slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%s/%s", category, subcategory, slug)), nil
	}
	if len(detail.Headings) == 0 {
		return mcp.NewToolResultText("document has no headings"), nil
	}
	out, _ := json.MarshalIndent(detail.Headings, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readCorpusLayoutResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://corpus-layout",
			MIMEType: "text/markdown",
			Text:     CorpusLayout,
		},
	}, nil
}

// documentArgs extracts the three required document coordinates.
func documentArgs(req mcp.CallToolRequest) (category, subcategory, slug string, errResult *mcp.CallToolResult) {
	var err error
	if category, err = req.RequireString("category"); err != nil {
		return "", "", "", mcp.NewToolResultError(err.Error())
	}
	if subcategory, err = req.RequireString("subcategory"); err != nil {
		return "", "", "", mcp.NewToolResultError(err.Error())
	}
	if slug, err = req.RequireString("slug"); err != nil {
		return "", "", "", mcp.NewToolResultError(err.Error())
	}
	return category, subcategory, slug, nil
}
