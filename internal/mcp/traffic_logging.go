package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// trafficLoggingMiddleware logs every MCP message at debug level. Tool calls
// are tagged with the tool and project they target; share tokens are redacted.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			attrs := []any{
				"direction", direction,
				"method", method,
				"session_id", safeSessionID(req),
				"user_id", getUserID(ctx),
			}
			call := toolCallOf(req)
			if call.Tool != "" {
				attrs = append(attrs, "tool", call.Tool)
			}
			if call.ProjectID != "" {
				attrs = append(attrs, "project_id", call.ProjectID)
			}

			params := formatPayload(safeParams(req))
			if call.Tool != "" {
				params = formatPayload(call.Arguments)
			}
			logger.Debug("mcp traffic", append(attrs, "stage", "request", "params", params)...)

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			attrs = append(attrs, "stage", "response", "result", formatPayload(result))
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			logger.Debug("mcp traffic", attrs...)
			return result, err
		}
	}
}

type toolCall struct {
	Tool      string
	ProjectID string
	Arguments map[string]any
}

// toolCallOf extracts the target of a tools/call request. Other requests
// yield the zero value.
func toolCallOf(req sdkmcp.Request) toolCall {
	params, ok := safeParams(req).(*sdkmcp.CallToolParamsRaw)
	if !ok || params == nil {
		return toolCall{}
	}
	call := toolCall{Tool: params.Name}
	if len(params.Arguments) == 0 {
		return call
	}
	if err := json.Unmarshal(params.Arguments, &call.Arguments); err != nil {
		return call
	}
	if id, ok := call.Arguments["project_id"].(string); ok {
		call.ProjectID = id
	}
	if _, ok := call.Arguments["token"]; ok {
		call.Arguments["token"] = "[redacted]"
	}
	return call
}

func safeSessionID(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	defer func() { recover() }()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) any {
	if req == nil {
		return nil
	}
	defer func() { recover() }()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
