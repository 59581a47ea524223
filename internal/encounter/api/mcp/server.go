package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/warbandtools/skirmish/internal/encounter/app"
)

const (
	serverName    = "skirmish-encounter"
	serverVersion = "0.1.0"
)

// Server exposes the encounter service over MCP.
type Server struct {
	service *app.Service
	server  *mcp.Server
}

// NewServer builds an MCP server with every encounter tool registered.
func NewServer(service *app.Service) (*Server, error) {
	if service == nil {
		return nil, errors.New("encounter service is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "encounter_create",
		Description: "Create a new encounter with an empty roster and rotation",
	}, EncounterCreateHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "encounter_list",
		Description: "List all encounters",
	}, EncounterListHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "unit_create",
		Description: "Register a unit; it gains a rotation slot at the end of the order",
	}, UnitCreateHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "unit_update",
		Description: "Change a unit's bench placement or kind",
	}, UnitUpdateHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "unit_delete",
		Description: "Remove a unit; its rotation slot goes with it, pending interrupts do not",
	}, UnitDeleteHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "group_create",
		Description: "Create a turn group whose members share one rotation slot",
	}, GroupCreateHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "group_delete",
		Description: "Delete a turn group and its rotation slot",
	}, GroupDeleteHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "turn_order_set",
		Description: "Replace the full rotation, group set, and disabled flags in one atomic edit",
	}, TurnOrderSetHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "turn_advance",
		Description: "Move one turn forward; finishes the top interrupt first if one is pending",
	}, TurnAdvanceHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "turn_temp_grant",
		Description: "Grant an immediate out-of-order turn; play resumes where it left off",
	}, TurnTempGrantHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "turn_disabled_set",
		Description: "Toggle whether a unit is skipped by the rotation",
	}, TurnDisabledSetHandler(service))
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "turn_state_get",
		Description: "Read the current turn tracker state",
	}, TurnStateGetHandler(service))

	return &Server{service: service, server: mcpServer}, nil
}

// ServeStdio runs the server over stdio until the context is canceled.
func (s *Server) ServeStdio(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("mcp server is not configured")
	}
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport, used by tests
// to drive tools through an in-memory session.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	if s == nil || s.server == nil {
		return nil, errors.New("mcp server is not configured")
	}
	return s.server.Connect(ctx, transport, nil)
}
