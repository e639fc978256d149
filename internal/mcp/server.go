package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/A7rium/pdfwebsign/internal/config"
	"github.com/A7rium/pdfwebsign/internal/descriptions"
	"github.com/A7rium/pdfwebsign/internal/document"
	"github.com/A7rium/pdfwebsign/internal/esign"
)

// Server represents the MCP server instance
type Server struct {
	config      *config.Config
	signService *esign.Service
	mcpServer   *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, signService *esign.Service) (*Server, error) {
	if signService == nil {
		return nil, fmt.Errorf("signService cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:      cfg,
		signService: signService,
		mcpServer:   mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	loadDocumentTool := mcp.NewTool(
		"sign_load_document",
		mcp.WithDescription("Load a PDF file as the working document of the signing session"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file inside the working directory"),
		),
	)
	s.mcpServer.AddTool(loadDocumentTool, s.handleLoadDocument)

	documentInfoTool := mcp.NewTool(
		"sign_document_info",
		mcp.WithDescription("Get a snapshot of the current session: document, pages, fields, signees and completion"),
	)
	s.mcpServer.AddTool(documentInfoTool, s.handleDocumentInfo)

	setTitleTool := mcp.NewTool(
		"sign_set_title",
		mcp.WithDescription("Rename the working document"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("New document title"),
		),
	)
	s.mcpServer.AddTool(setTitleTool, s.handleSetTitle)

	reorderPagesTool := mcp.NewTool(
		"sign_reorder_pages",
		mcp.WithDescription("Move a page of the working document to a new display position"),
		mcp.WithNumber("from",
			mcp.Required(),
			mcp.Description("Zero-based position of the page to move"),
		),
		mcp.WithNumber("to",
			mcp.Required(),
			mcp.Description("Zero-based destination position"),
		),
	)
	s.mcpServer.AddTool(reorderPagesTool, s.handleReorderPages)

	deletePageTool := mcp.NewTool(
		"sign_delete_page",
		mcp.WithDescription("Remove the page at a display position, along with any fields placed on it"),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Zero-based position of the page to remove"),
		),
	)
	s.mcpServer.AddTool(deletePageTool, s.handleDeletePage)

	pageLayoutsTool := mcp.NewTool(
		"sign_page_layouts",
		mcp.WithDescription("Get per-page layout geometry scaled to a render width, in display order"),
		mcp.WithNumber("width",
			mcp.Required(),
			mcp.Description("Render width in points"),
		),
	)
	s.mcpServer.AddTool(pageLayoutsTool, s.handlePageLayouts)

	placeFieldTool := mcp.NewTool(
		"sign_place_field",
		mcp.WithDescription("Place an annotation field on a page of the working document"),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Field type: signature, initials, text, name, date or checkbox"),
		),
		mcp.WithString("value",
			mcp.Description("Field value; date and checkbox fields receive defaults when empty"),
		),
		mcp.WithNumber("page",
			mcp.Required(),
			mcp.Description("Page number the field belongs to"),
		),
		mcp.WithNumber("x",
			mcp.Description("Horizontal position on the page"),
		),
		mcp.WithNumber("y",
			mcp.Description("Vertical position on the page"),
		),
		mcp.WithString("owner",
			mcp.Description("Email of the signee this field is attributed to"),
		),
	)
	s.mcpServer.AddTool(placeFieldTool, s.handlePlaceField)

	moveFieldTool := mcp.NewTool(
		"sign_move_field",
		mcp.WithDescription("Move a placed field to a new position on its page"),
		mcp.WithNumber("field_id",
			mcp.Required(),
			mcp.Description("Identifier of the field to move"),
		),
		mcp.WithNumber("x",
			mcp.Required(),
			mcp.Description("New horizontal position"),
		),
		mcp.WithNumber("y",
			mcp.Required(),
			mcp.Description("New vertical position"),
		),
	)
	s.mcpServer.AddTool(moveFieldTool, s.handleMoveField)

	removeFieldTool := mcp.NewTool(
		"sign_remove_field",
		mcp.WithDescription("Remove a placed field by identifier"),
		mcp.WithNumber("field_id",
			mcp.Required(),
			mcp.Description("Identifier of the field to remove"),
		),
	)
	s.mcpServer.AddTool(removeFieldTool, s.handleRemoveField)

	listFieldsTool := mcp.NewTool(
		"sign_list_fields",
		mcp.WithDescription("List all placed fields in insertion order"),
	)
	s.mcpServer.AddTool(listFieldsTool, s.handleListFields)

	inviteSigneeTool := mcp.NewTool(
		"sign_invite_signee",
		mcp.WithDescription("Invite a signee by name and email"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Display name of the signee"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the signee"),
		),
	)
	s.mcpServer.AddTool(inviteSigneeTool, s.handleInviteSignee)

	removeSigneeTool := mcp.NewTool(
		"sign_remove_signee",
		mcp.WithDescription("Remove a signee by list position, cascading to their fields"),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Zero-based position of the signee to remove"),
		),
	)
	s.mcpServer.AddTool(removeSigneeTool, s.handleRemoveSignee)

	listSigneesTool := mcp.NewTool(
		"sign_list_signees",
		mcp.WithDescription("List the invited signees in invitation order"),
	)
	s.mcpServer.AddTool(listSigneesTool, s.handleListSignees)

	completionStatusTool := mcp.NewTool(
		"sign_completion_status",
		mcp.WithDescription("Evaluate whether the document is fully signed and what each signee is missing"),
	)
	s.mcpServer.AddTool(completionStatusTool, s.handleCompletionStatus)

	captureSignatureTool := mcp.NewTool(
		"sign_capture_signature",
		mcp.WithDescription("Store a drawn signature image and get back an opaque reference"),
		mcp.WithString("image_base64",
			mcp.Required(),
			mcp.Description("Base64-encoded PNG or JPEG signature image"),
		),
	)
	s.mcpServer.AddTool(captureSignatureTool, s.handleCaptureSignature)

	exportDocumentTool := mcp.NewTool(
		"sign_export_document",
		mcp.WithDescription("Produce the output PDF honoring page edits, with an optional signature summary page"),
		mcp.WithString("output_path",
			mcp.Description("Output file name inside the working directory (derived from the title if empty)"),
		),
		mcp.WithBoolean("include_signature_page",
			mcp.Description("Append the signature summary page; requires the document to be fully signed"),
		),
	)
	s.mcpServer.AddTool(exportDocumentTool, s.handleExportDocument)

	mergeDocumentTool := mcp.NewTool(
		"sign_merge_document",
		mcp.WithDescription("Append every page of another PDF after the working document"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file to merge, inside the working directory"),
		),
	)
	s.mcpServer.AddTool(mergeDocumentTool, s.handleMergeDocument)

	serverInfoTool := mcp.NewTool(
		"sign_server_info",
		mcp.WithDescription("Get server configuration, available tools and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleLoadDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signService.LoadDocument(esign.LoadDocumentRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Loaded document: %s\n", result.Title)
	responseText += fmt.Sprintf("Path: %s\n", result.Path)
	responseText += fmt.Sprintf("Pages: %d\n", result.Pages)
	responseText += fmt.Sprintf("Size: %d bytes\n", result.Size)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleDocumentInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.signService.DocumentInfo()
	return mcp.NewToolResultText(s.formatDocumentInfoResult(result)), nil
}

func (s *Server) handleSetTitle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.signService.SetTitle(esign.SetTitleRequest{Title: title}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Document title set to: %s", strings.TrimSpace(title))), nil
}

func (s *Server) handleReorderPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	from, err := intArg(args, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := intArg(args, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signService.ReorderPages(esign.ReorderPagesRequest{From: from, To: to})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Page order: %v", result.PageOrder)), nil
}

func (s *Server) handleDeletePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := intArg(request.GetArguments(), "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signService.DeletePage(esign.DeletePageRequest{Index: index})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Page deleted. Page order: %v", result.PageOrder)), nil
}

func (s *Server) handlePageLayouts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	width, err := floatArg(request.GetArguments(), "width")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signService.PageLayouts(esign.PageLayoutsRequest{Width: width})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Page layouts at width %.1f (%d pages):\n", width, len(result.Layouts))
	for i, layout := range result.Layouts {
		text += fmt.Sprintf("%d. page %d: %.1f x %.1f (scale %.3f)\n",
			i+1, layout.Page, layout.Width, layout.Height, layout.Scale)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handlePlaceField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldType, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()
	page, err := intArg(args, "page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := esign.PlaceFieldRequest{
		Type: fieldType,
		Page: page,
	}
	if value, ok := args["value"].(string); ok {
		req.Value = value
	}
	if owner, ok := args["owner"].(string); ok {
		req.Owner = owner
	}
	if x, ok := args["x"].(float64); ok {
		req.X = x
	}
	if y, ok := args["y"].(float64); ok {
		req.Y = y
	}

	result, err := s.signService.PlaceField(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Placed %s field %d on page %d\n\n", fieldType, result.FieldID, page)
	responseText += s.formatCompletionStatus(&result.Completion)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleMoveField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	fieldID, err := intArg(args, "field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := floatArg(args, "x")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := floatArg(args, "y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.signService.MoveField(esign.MoveFieldRequest{FieldID: fieldID, X: x, Y: y}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Field %d moved to (%.1f, %.1f)", fieldID, x, y)), nil
}

func (s *Server) handleRemoveField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldID, err := intArg(request.GetArguments(), "field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.signService.RemoveField(esign.RemoveFieldRequest{FieldID: fieldID})
	responseText := fmt.Sprintf("Field %d removed\n\n", fieldID)
	responseText += s.formatCompletionStatus(&result.Completion)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleListFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.signService.ListFields()

	if len(result.Fields) == 0 {
		return mcp.NewToolResultText("No fields placed"), nil
	}

	text := fmt.Sprintf("Placed fields (%d):\n", len(result.Fields))
	for _, field := range result.Fields {
		text += fmt.Sprintf("%d. %s on page %d at (%.1f, %.1f)",
			field.ID, field.Type, field.Page, field.Position.X, field.Position.Y)
		if field.Owner != "" {
			text += fmt.Sprintf(", owner: %s", field.Owner)
		}
		if field.Value != "" {
			text += fmt.Sprintf(", value: %s", field.Value)
		}
		text += "\n"
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleInviteSignee(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signService.InviteSignee(esign.InviteSigneeRequest{Name: name, Email: email})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Signee registered at position %d\n\n", result.Index)
	responseText += s.formatCompletionStatus(&result.Completion)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRemoveSignee(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := intArg(request.GetArguments(), "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signService.RemoveSignee(esign.RemoveSigneeRequest{Index: index})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Removed signee %s <%s>, dropping %d field(s)\n\n",
		result.Removed.Name, result.Removed.Email, result.FieldsRemoved)
	responseText += s.formatCompletionStatus(&result.Completion)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleListSignees(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.signService.ListSignees()

	if len(result.Signees) == 0 {
		return mcp.NewToolResultText("No signees invited"), nil
	}

	text := fmt.Sprintf("Signees (%d):\n", len(result.Signees))
	for i, signee := range result.Signees {
		text += fmt.Sprintf("%d. %s <%s>\n", i, signee.Name, signee.Email)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleCompletionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := s.signService.CompletionStatus()
	return mcp.NewToolResultText(s.formatCompletionStatus(status)), nil
}

func (s *Server) handleCaptureSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	encoded, err := request.RequireString("image_base64")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid base64 image: %v", err)), nil
	}

	result, err := s.signService.CaptureSignature(esign.CaptureSignatureRequest{Image: image})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Signature captured: %s", result.Ref)), nil
}

func (s *Server) handleExportDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := esign.ExportDocumentRequest{}
	if path, ok := args["output_path"].(string); ok {
		req.OutputPath = path
	}
	if include, ok := args["include_signature_page"].(bool); ok {
		req.IncludeSignaturePage = include
	}

	result, err := s.signService.ExportDocument(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Exported document: %s\n", result.Path)
	responseText += fmt.Sprintf("Pages: %d\n", result.Pages)
	responseText += fmt.Sprintf("Size: %d bytes\n", result.Size)
	responseText += fmt.Sprintf("Signature summary page: %t\n", result.IncludedSummaryPage)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleMergeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signService.MergeDocument(esign.MergeDocumentRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Merged document now has %d pages\n", result.Pages)
	responseText += fmt.Sprintf("Page order: %v\n", result.PageOrder)
	responseText += "Existing field placements were dropped\n"
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.signService.ServerInfo()
	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// Formatting methods
func (s *Server) formatDocumentInfoResult(result *esign.DocumentInfoResult) string {
	if !result.Loaded {
		return "No document loaded"
	}

	text := fmt.Sprintf("Document: %s\n", result.Title)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Page order: %v\n", result.PageOrder)
	text += fmt.Sprintf("Fields: %d\n", result.FieldCount)
	text += fmt.Sprintf("Signees: %d\n", result.SigneeCount)
	text += fmt.Sprintf("Fully signed: %t\n", result.FullySigned)
	return text
}

func (s *Server) formatCompletionStatus(status *document.CompletionStatus) string {
	text := fmt.Sprintf("Completion rule: %s\n", status.Rule)
	text += fmt.Sprintf("Fully signed: %t\n", status.FullySigned)
	text += fmt.Sprintf("Total fields: %d\n", status.FieldCount)

	if len(status.Signees) > 0 {
		text += "\nSignees:\n"
		for _, signee := range status.Signees {
			text += fmt.Sprintf("• %s <%s>: %d field(s)", signee.Signee.Name, signee.Signee.Email, signee.FieldCount)
			if signee.Complete {
				text += ", complete"
			} else if len(signee.Missing) > 0 {
				missing := make([]string, 0, len(signee.Missing))
				for _, m := range signee.Missing {
					missing = append(missing, string(m))
				}
				text += fmt.Sprintf(", missing: %s", strings.Join(missing, ", "))
			}
			text += "\n"
		}
	}
	return text
}

func (s *Server) formatServerInfoResult(result *esign.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Working directory: %s\n", result.WorkDir)
	text += fmt.Sprintf("Max file size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Completion rule: %s\n", result.CompletionRule)

	text += "\nAvailable tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		text += fmt.Sprintf("• %s: %s\n", name, descriptions.GetToolSummary(name))
	}

	text += "\nTypical workflow: sign_load_document, sign_invite_signee, sign_place_field,"
	text += " sign_completion_status, then sign_export_document with the signature page.\n"
	return text
}

// intArg reads a JSON number argument as an int
func intArg(args map[string]any, name string) (int, error) {
	value, ok := args[name].(float64)
	if !ok {
		return 0, fmt.Errorf("required argument %q not found", name)
	}
	return int(value), nil
}

// floatArg reads a JSON number argument as a float64
func floatArg(args map[string]any, name string) (float64, error) {
	value, ok := args[name].(float64)
	if !ok {
		return 0, fmt.Errorf("required argument %q not found", name)
	}
	return value, nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting signing MCP server in stdio mode")
		log.Printf("Working directory: %s", s.config.WorkDir)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs transport only exposes stdio here
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
