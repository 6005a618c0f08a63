package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shaunakg/up-mcp/internal/common"
	"github.com/shaunakg/up-mcp/internal/upbank"
)

// bridge carries the shared, read-only state every handler needs.
type bridge struct {
	client *upbank.Client
	logger *common.Logger
}

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// invalidArgument builds the error result for a validation failure,
// always naming the offending field.
func invalidArgument(field, reason string) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("InvalidArgument: %s %s", field, reason))
}

// passthrough converts a raw upstream body into a tool result. Bodies are
// returned verbatim so pagination cursors in the JSON:API envelope survive;
// 204-style empty bodies become an empty JSON document.
func passthrough(body []byte) *mcp.CallToolResult {
	if len(body) == 0 {
		return textResult("{}")
	}
	return textResult(string(body))
}

// invocationLogger tags all log events for one tool call with a fresh
// correlation ID.
func (b *bridge) invocationLogger(tool string) *common.Logger {
	log := b.logger.WithCorrelationId(uuid.New().String())
	log.Info().Str("tool", tool).Msg("tool invocation")
	return log
}

// pageOptions extracts the shared pagination arguments. Absent arguments
// stay at their zero values and are omitted from the upstream query.
func pageOptions(request mcp.CallToolRequest) upbank.PageOptions {
	return upbank.PageOptions{
		Size:   request.GetInt("page_size", 0),
		After:  request.GetString("cursor_after", ""),
		Before: request.GetString("cursor_before", ""),
	}
}

// statusArg validates the optional transaction status filter against the
// upstream's enum.
func statusArg(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	status := request.GetString("status", "")
	if status != "" && status != "HELD" && status != "SETTLED" {
		return "", invalidArgument("status", "must be HELD or SETTLED")
	}
	return status, nil
}

// timestampArg validates an optional RFC 3339 date filter.
func timestampArg(request mcp.CallToolRequest, field string) (string, *mcp.CallToolResult) {
	value := request.GetString(field, "")
	if value == "" {
		return "", nil
	}
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return "", invalidArgument(field, "must be an RFC 3339 timestamp (e.g. 2026-01-01T00:00:00Z)")
	}
	return value, nil
}

// requiredArg extracts a required string argument, producing the
// InvalidArgument result when missing or empty.
func requiredArg(request mcp.CallToolRequest, field string) (string, *mcp.CallToolResult) {
	value, err := request.RequireString(field)
	if err != nil || value == "" {
		return "", invalidArgument(field, "parameter is required")
	}
	return value, nil
}

// --- Handlers ---

func handleGetVersion(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("get_version")
		result := fmt.Sprintf("Up MCP Bridge\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

func handleUpPing(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("up_ping")
		body, err := b.client.Ping(ctx)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleListAccounts(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("list_accounts")
		body, err := b.client.ListAccounts(ctx, pageOptions(request))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleGetAccount(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("get_account")
		accountID, fail := requiredArg(request, "account_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.GetAccount(ctx, accountID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleListTransactions(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("list_transactions")
		status, fail := statusArg(request)
		if fail != nil {
			return fail, nil
		}
		since, fail := timestampArg(request, "since")
		if fail != nil {
			return fail, nil
		}
		until, fail := timestampArg(request, "until")
		if fail != nil {
			return fail, nil
		}
		filter := upbank.TransactionFilter{
			Status:   status,
			Since:    since,
			Until:    until,
			Category: request.GetString("category", ""),
			Tag:      request.GetString("tag", ""),
		}
		body, err := b.client.ListTransactions(ctx, filter, pageOptions(request))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleGetTransaction(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("get_transaction")
		transactionID, fail := requiredArg(request, "transaction_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.GetTransaction(ctx, transactionID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleListAccountTransactions(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("list_account_transactions")
		accountID, fail := requiredArg(request, "account_id")
		if fail != nil {
			return fail, nil
		}
		status, fail := statusArg(request)
		if fail != nil {
			return fail, nil
		}
		since, fail := timestampArg(request, "since")
		if fail != nil {
			return fail, nil
		}
		until, fail := timestampArg(request, "until")
		if fail != nil {
			return fail, nil
		}
		filter := upbank.TransactionFilter{
			Status: status,
			Since:  since,
			Until:  until,
			Tag:    request.GetString("tag", ""),
		}
		body, err := b.client.ListAccountTransactions(ctx, accountID, filter, pageOptions(request))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleListAttachments(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("list_attachments")
		transactionID := request.GetString("transaction_id", "")
		body, err := b.client.ListAttachments(ctx, transactionID, pageOptions(request))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleGetAttachment(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("get_attachment")
		attachmentID, fail := requiredArg(request, "attachment_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.GetAttachment(ctx, attachmentID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleListCategories(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("list_categories")
		parentID := request.GetString("parent_category_id", "")
		body, err := b.client.ListCategories(ctx, parentID, pageOptions(request))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleGetCategory(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("get_category")
		categoryID, fail := requiredArg(request, "category_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.GetCategory(ctx, categoryID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleCategorizeTransaction(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("categorize_transaction")
		transactionID, fail := requiredArg(request, "transaction_id")
		if fail != nil {
			return fail, nil
		}
		categoryID, fail := requiredArg(request, "category_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.CategorizeTransaction(ctx, transactionID, categoryID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleClearTransactionCategory(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("clear_transaction_category")
		transactionID, fail := requiredArg(request, "transaction_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.ClearTransactionCategory(ctx, transactionID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleListTags(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("list_tags")
		body, err := b.client.ListTags(ctx)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleAddTags(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("add_tags_to_transaction")
		transactionID, fail := requiredArg(request, "transaction_id")
		if fail != nil {
			return fail, nil
		}
		tags := request.GetStringSlice("tags", nil)
		if len(tags) == 0 {
			return invalidArgument("tags", "must contain at least one tag"), nil
		}
		body, err := b.client.AddTags(ctx, transactionID, tags)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleRemoveTags(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("remove_tags_from_transaction")
		transactionID, fail := requiredArg(request, "transaction_id")
		if fail != nil {
			return fail, nil
		}
		tags := request.GetStringSlice("tags", nil)
		if len(tags) == 0 {
			return invalidArgument("tags", "must contain at least one tag"), nil
		}
		body, err := b.client.RemoveTags(ctx, transactionID, tags)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleListWebhooks(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("list_webhooks")
		body, err := b.client.ListWebhooks(ctx, pageOptions(request))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleCreateWebhook(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("create_webhook")
		webhookURL, fail := requiredArg(request, "url")
		if fail != nil {
			return fail, nil
		}
		description := request.GetString("description", "")
		secretKey := request.GetString("secret_key", "")
		body, err := b.client.CreateWebhook(ctx, webhookURL, description, secretKey)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleGetWebhook(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("get_webhook")
		webhookID, fail := requiredArg(request, "webhook_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.GetWebhook(ctx, webhookID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleDeleteWebhook(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("delete_webhook")
		webhookID, fail := requiredArg(request, "webhook_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.DeleteWebhook(ctx, webhookID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handlePingWebhook(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("ping_webhook")
		webhookID, fail := requiredArg(request, "webhook_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.PingWebhook(ctx, webhookID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}

func handleListWebhookLogs(b *bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b.invocationLogger("list_webhook_logs")
		webhookID, fail := requiredArg(request, "webhook_id")
		if fail != nil {
			return fail, nil
		}
		body, err := b.client.ListWebhookLogs(ctx, webhookID, pageOptions(request))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return passthrough(body), nil
	}
}
