package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"noteful/internal/auth"
	"noteful/internal/store"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Server exposes read-only note tools to MCP clients. Every tool acts on
// behalf of the caller identified by the bearer token on the HTTP request.
type Server struct {
	store store.Store
	log   zerolog.Logger
}

func NewMCPServer(s store.Store, log zerolog.Logger) *Server {
	return &Server{store: s, log: log}
}

// internalError logs the cause and gives the client a result without it.
func (s *Server) internalError(tool string, err error) *mcp.CallToolResult {
	s.log.Error().Err(err).Str("tool", tool).Msg("tool failed")
	return mcp.NewToolResultError("internal error")
}

func (s *Server) searchNotesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caller, ok := auth.IdentityFromContext(ctx)
	if !ok || caller.ID == "" {
		return mcp.NewToolResultError("unauthorized"), nil
	}

	filter := store.NoteFilter{SearchTerm: request.GetString("searchTerm", "")}
	for key, dst := range map[string]*string{"folderId": &filter.FolderID, "tagId": &filter.TagID} {
		raw := request.GetString(key, "")
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid %s: %v", key, err)), nil
		}
		*dst = id.String()
	}

	notes, err := s.store.ListNotes(ctx, caller.ID, filter)
	if err != nil {
		return s.internalError("search_notes", err), nil
	}

	if len(notes) == 0 {
		return mcp.NewToolResultText("No notes found."), nil
	}

	var noteStrings []string
	for _, n := range notes {
		line := fmt.Sprintf("[%s] %s (%s)", n.UpdatedAt.Format(time.RFC3339), n.Title, n.ID)
		if n.Content != "" {
			line += ": " + n.Content
		}
		noteStrings = append(noteStrings, line)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Found %d notes:\n%s", len(notes), strings.Join(noteStrings, "\n"))), nil
}

func (s *Server) listFoldersHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caller, ok := auth.IdentityFromContext(ctx)
	if !ok || caller.ID == "" {
		return mcp.NewToolResultError("unauthorized"), nil
	}

	folders, err := s.store.ListFolders(ctx, caller.ID)
	if err != nil {
		return s.internalError("list_folders", err), nil
	}
	if len(folders) == 0 {
		return mcp.NewToolResultText("No folders found."), nil
	}

	lines := make([]string, 0, len(folders))
	for _, f := range folders {
		lines = append(lines, fmt.Sprintf("%s (%s)", f.Name, f.ID))
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d folders:\n%s", len(folders), strings.Join(lines, "\n"))), nil
}

// HTTPHandler returns the streamable HTTP transport for the tools. It must be
// mounted behind the auth middleware.
func (s *Server) HTTPHandler() *server.StreamableHTTPServer {
	mcpServer := server.NewMCPServer("Noteful", "1.0.0")

	searchNotes := mcp.NewTool("search_notes",
		mcp.WithDescription("Search the caller's notes by text, folder or tag. Results are newest first."),
		mcp.WithString("searchTerm", mcp.Description("Case-insensitive substring matched against title and content")),
		mcp.WithString("folderId", mcp.Description("Only notes filed in this folder")),
		mcp.WithString("tagId", mcp.Description("Only notes carrying this tag")),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	listFolders := mcp.NewTool("list_folders",
		mcp.WithDescription("List the caller's folders sorted by name."),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	mcpServer.AddTool(searchNotes, s.searchNotesHandler)
	mcpServer.AddTool(listFolders, s.listFoldersHandler)

	return server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id, ok := auth.IdentityFromContext(r.Context()); ok {
				return auth.WithIdentity(ctx, id)
			}
			return ctx
		}),
	)
}
