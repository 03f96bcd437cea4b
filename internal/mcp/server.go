package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/arturoeanton/knowledge-chat/internal/port"
	"github.com/arturoeanton/knowledge-chat/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server exposes the knowledge base to external agents over the Model Context
// Protocol, served as streamable HTTP on its own port.
type Server struct {
	chat *service.ChatService
	docs *service.DocumentService
	port string
	mcp  *mcpserver.MCPServer
	http *mcpserver.StreamableHTTPServer
}

// NewServer creates a new MCP server and registers its tools.
func NewServer(chat *service.ChatService, docs *service.DocumentService, name, version, port string) *Server {
	s := &Server{
		chat: chat,
		docs: docs,
		port: port,
		mcp:  mcpserver.NewMCPServer(name, version),
	}
	s.registerTools()
	s.http = mcpserver.NewStreamableHTTPServer(s.mcp)
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.Tool{
		Name:        "ask_knowledge_base",
		Description: "Answer a question using only the passages stored in the knowledge base.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
			},
			Required: []string{"question"},
		},
	}, s.AskKnowledgeBase)

	s.mcp.AddTool(mcp.Tool{
		Name:        "add_document",
		Description: "Embed a passage and add it to the knowledge base.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Passage text",
				},
			},
			Required: []string{"content"},
		},
	}, s.AddDocument)
}

// Start serves MCP at /mcp on the configured port. It blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("MCP server starting", "port", s.port)
	return s.http.Start(":" + s.port)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// AskKnowledgeBase handles the ask_knowledge_base tool.
func (s *Server) AskKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	reply := s.chat.Respond(ctx, question)
	switch reply.Outcome {
	case domain.OutcomeNoMessage:
		return mcp.NewToolResultError("question must not be blank"), nil
	case domain.OutcomeDegraded:
		return mcp.NewToolResultError(reply.Answer.Content), nil
	}
	return mcp.NewToolResultText(reply.Answer.Content), nil
}

// AddDocument handles the add_document tool.
func (s *Server) AddDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	if err := s.docs.Ingest(ctx, content); err != nil {
		if errors.Is(err, port.ErrEmptyContent) {
			return mcp.NewToolResultError("content must not be blank"), nil
		}
		slog.Error("mcp add_document failed", "error", err)
		return mcp.NewToolResultError("failed to add document: " + err.Error()), nil
	}
	return mcp.NewToolResultText("document added"), nil
}
