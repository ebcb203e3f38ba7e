// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Memora tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/soren/memora/internal/memoservice"
	"github.com/soren/memora/internal/store"
)

// Server wraps the MCP server with Memora tools.
type Server struct {
	mcp *server.MCPServer
	svc *memoservice.Service
}

// New creates a new MCP server with all Memora tools registered.
func New(svc *memoservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Memora",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_memos",
		mcp.WithDescription("Full-text search through memo content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchMemos)

	s.mcp.AddTool(mcp.NewTool("read_memo",
		mcp.WithDescription("Read a memo with all its fields."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memo id (UUID)")),
	), s.readMemo)

	s.mcp.AddTool(mcp.NewTool("create_memo",
		mcp.WithDescription("Create a new memo. Content is Markdown; inline #hashtags are "+
			"merged into the tag set automatically. Read the contract first via the "+
			"get_memo_contract tool or the memora://memo-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Memo title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown memo content")),
		mcp.WithString("category", mcp.Required(), mcp.Description("One of: personal, work, study, idea, other")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tags")),
	), s.createMemo)

	s.mcp.AddTool(mcp.NewTool("get_memo_contract",
		mcp.WithDescription("Returns the canonical Memora memo format contract. "+
			"Call this before creating memos to ensure correct structure."),
	), s.getMemoContract)

	s.mcp.AddTool(mcp.NewTool("list_memos",
		mcp.WithDescription("List memos, optionally filtered by category."),
		mcp.WithString("category", mcp.Description("Optional category filter (empty for all)")),
	), s.listMemos)

	s.mcp.AddTool(mcp.NewTool("summarize_memo",
		mcp.WithDescription("Generate a short AI summary of a memo's content. "+
			"The summary is ephemeral and never stored."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memo id to summarize")),
	), s.summarizeMemo)

	// Resource: memo format contract.
	s.mcp.AddResource(
		mcp.NewResource("memora://memo-format", "Memo Format Contract",
			mcp.WithResourceDescription("Canonical memo shape that all memos must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMemoFormatResource,
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

func (s *Server) searchMemos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	memo, err := s.svc.GetMemo(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(memo, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var tags []string
	if raw, tagErr := req.RequireString("tags"); tagErr == nil {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	memo, err := s.svc.CreateMemo(ctx, memoservice.CreateMemoInput{
		Title:    title,
		Content:  content,
		Category: category,
		Tags:     tags,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", memo.ID)), nil
}

func (s *Server) listMemos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}

	items, _, err := s.svc.ListMemos(ctx, store.ListOptions{Category: category})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no memos found"), nil
	}

	var lines []string
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s\t[%s]\t%s", it.ID, it.Category, it.Title))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) summarizeMemo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	memo, err := s.svc.GetMemo(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	summary, err := s.svc.Summarize(ctx, memo.Content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(summary), nil
}

func (s *Server) getMemoContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MemoFormatContract), nil
}

func (s *Server) readMemoFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "memora://memo-format",
			MIMEType: "text/markdown",
			Text:     MemoFormatContract,
		},
	}, nil
}
