package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerTools registers all MCP tools on the server, wiring each to a
// handler that issues the corresponding Up API request. The set is fixed at
// startup; there is no dynamic registration.
func registerTools(s *server.MCPServer, b *bridge) {
	s.AddTool(createGetVersionTool(), handleGetVersion(b))
	s.AddTool(createUpPingTool(), handleUpPing(b))
	s.AddTool(createListAccountsTool(), handleListAccounts(b))
	s.AddTool(createGetAccountTool(), handleGetAccount(b))
	s.AddTool(createListTransactionsTool(), handleListTransactions(b))
	s.AddTool(createGetTransactionTool(), handleGetTransaction(b))
	s.AddTool(createListAccountTransactionsTool(), handleListAccountTransactions(b))
	s.AddTool(createListAttachmentsTool(), handleListAttachments(b))
	s.AddTool(createGetAttachmentTool(), handleGetAttachment(b))
	s.AddTool(createListCategoriesTool(), handleListCategories(b))
	s.AddTool(createGetCategoryTool(), handleGetCategory(b))
	s.AddTool(createCategorizeTransactionTool(), handleCategorizeTransaction(b))
	s.AddTool(createClearTransactionCategoryTool(), handleClearTransactionCategory(b))
	s.AddTool(createListTagsTool(), handleListTags(b))
	s.AddTool(createAddTagsTool(), handleAddTags(b))
	s.AddTool(createRemoveTagsTool(), handleRemoveTags(b))
	s.AddTool(createListWebhooksTool(), handleListWebhooks(b))
	s.AddTool(createCreateWebhookTool(), handleCreateWebhook(b))
	s.AddTool(createGetWebhookTool(), handleGetWebhook(b))
	s.AddTool(createDeleteWebhookTool(), handleDeleteWebhook(b))
	s.AddTool(createPingWebhookTool(), handlePingWebhook(b))
	s.AddTool(createListWebhookLogsTool(), handleListWebhookLogs(b))
}

// pageOpts returns the pagination options shared by every listing tool.
// Argument names follow the original Up MCP surface; values map straight
// onto the upstream page[size]/page[after]/page[before] parameters.
func pageOpts() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("page_size", mcp.Description("Number of records per page (upstream caps at 30)")),
		mcp.WithString("cursor_after", mcp.Description("Opaque cursor: return records after this point")),
		mcp.WithString("cursor_before", mcp.Description("Opaque cursor: return records before this point")),
	}
}

// --- Tool definitions ---

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Up MCP bridge version and build info. Use this to verify connectivity to the bridge itself."),
	)
}

func createUpPingTool() mcp.Tool {
	return mcp.NewTool("up_ping",
		mcp.WithDescription("Perform a lightweight health check against the Up API utility ping endpoint. Verifies the bearer token is valid."),
	)
}

func createListAccountsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List Up accounts with optional pagination."),
	}
	return mcp.NewTool("list_accounts", append(opts, pageOpts()...)...)
}

func createGetAccountTool() mcp.Tool {
	return mcp.NewTool("get_account",
		mcp.WithDescription("Retrieve a specific Up account by its identifier."),
		mcp.WithString("account_id", mcp.Required(), mcp.Description("Unique identifier of the account")),
	)
}

func createListTransactionsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List transactions across all accounts with filters for status, category, tag, and time range."),
		mcp.WithString("status", mcp.Description("Filter by transaction status: HELD or SETTLED")),
		mcp.WithString("since", mcp.Description("Only transactions after this RFC 3339 timestamp (e.g. 2026-01-01T00:00:00Z)")),
		mcp.WithString("until", mcp.Description("Only transactions before this RFC 3339 timestamp")),
		mcp.WithString("category", mcp.Description("Filter by category identifier")),
		mcp.WithString("tag", mcp.Description("Filter by exact tag")),
	}
	return mcp.NewTool("list_transactions", append(opts, pageOpts()...)...)
}

func createGetTransactionTool() mcp.Tool {
	return mcp.NewTool("get_transaction",
		mcp.WithDescription("Retrieve a transaction by its identifier."),
		mcp.WithString("transaction_id", mcp.Required(), mcp.Description("Unique identifier of the transaction")),
	)
}

func createListAccountTransactionsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List transactions belonging to a specific account with the same filter options as the global listing (except category)."),
		mcp.WithString("account_id", mcp.Required(), mcp.Description("Unique identifier of the account")),
		mcp.WithString("status", mcp.Description("Filter by transaction status: HELD or SETTLED")),
		mcp.WithString("since", mcp.Description("Only transactions after this RFC 3339 timestamp")),
		mcp.WithString("until", mcp.Description("Only transactions before this RFC 3339 timestamp")),
		mcp.WithString("tag", mcp.Description("Filter by exact tag")),
	}
	return mcp.NewTool("list_account_transactions", append(opts, pageOpts()...)...)
}

func createListAttachmentsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List attachments with an optional transaction filter."),
		mcp.WithString("transaction_id", mcp.Description("Only attachments belonging to this transaction")),
	}
	return mcp.NewTool("list_attachments", append(opts, pageOpts()...)...)
}

func createGetAttachmentTool() mcp.Tool {
	return mcp.NewTool("get_attachment",
		mcp.WithDescription("Retrieve a specific attachment."),
		mcp.WithString("attachment_id", mcp.Required(), mcp.Description("Unique identifier of the attachment")),
	)
}

func createListCategoriesTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List categories, optionally filtered to the children of a specific parent category."),
		mcp.WithString("parent_category_id", mcp.Description("Only categories under this parent category")),
	}
	return mcp.NewTool("list_categories", append(opts, pageOpts()...)...)
}

func createGetCategoryTool() mcp.Tool {
	return mcp.NewTool("get_category",
		mcp.WithDescription("Retrieve a single category."),
		mcp.WithString("category_id", mcp.Required(), mcp.Description("Unique identifier of the category")),
	)
}

func createCategorizeTransactionTool() mcp.Tool {
	return mcp.NewTool("categorize_transaction",
		mcp.WithDescription("Assign a category to a transaction using a category identifier."),
		mcp.WithString("transaction_id", mcp.Required(), mcp.Description("Transaction to categorize")),
		mcp.WithString("category_id", mcp.Required(), mcp.Description("Category to assign (e.g. 'restaurants-and-cafes')")),
	)
}

func createClearTransactionCategoryTool() mcp.Tool {
	return mcp.NewTool("clear_transaction_category",
		mcp.WithDescription("Remove the category assignment from a transaction."),
		mcp.WithString("transaction_id", mcp.Required(), mcp.Description("Transaction to clear the category from")),
	)
}

func createListTagsTool() mcp.Tool {
	return mcp.NewTool("list_tags",
		mcp.WithDescription("List all tags currently in use."),
	)
}

func createAddTagsTool() mcp.Tool {
	return mcp.NewTool("add_tags_to_transaction",
		mcp.WithDescription("Add one or more tags to a transaction."),
		mcp.WithString("transaction_id", mcp.Required(), mcp.Description("Transaction to tag")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Required(), mcp.Description("Tags to add (at least one)")),
	)
}

func createRemoveTagsTool() mcp.Tool {
	return mcp.NewTool("remove_tags_from_transaction",
		mcp.WithDescription("Remove one or more tags from a transaction."),
		mcp.WithString("transaction_id", mcp.Required(), mcp.Description("Transaction to untag")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Required(), mcp.Description("Tags to remove (at least one)")),
	)
}

func createListWebhooksTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List configured webhooks."),
	}
	return mcp.NewTool("list_webhooks", append(opts, pageOpts()...)...)
}

func createCreateWebhookTool() mcp.Tool {
	return mcp.NewTool("create_webhook",
		mcp.WithDescription("Create a webhook for Up transaction events."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTPS URL Up should deliver events to")),
		mcp.WithString("description", mcp.Description("Optional human-readable description")),
		mcp.WithString("secret_key", mcp.Description("Optional secret used to sign deliveries")),
	)
}

func createGetWebhookTool() mcp.Tool {
	return mcp.NewTool("get_webhook",
		mcp.WithDescription("Retrieve a webhook by id."),
		mcp.WithString("webhook_id", mcp.Required(), mcp.Description("Unique identifier of the webhook")),
	)
}

func createDeleteWebhookTool() mcp.Tool {
	return mcp.NewTool("delete_webhook",
		mcp.WithDescription("Delete a webhook by id."),
		mcp.WithString("webhook_id", mcp.Required(), mcp.Description("Unique identifier of the webhook")),
	)
}

func createPingWebhookTool() mcp.Tool {
	return mcp.NewTool("ping_webhook",
		mcp.WithDescription("Trigger a ping event delivery for a webhook."),
		mcp.WithString("webhook_id", mcp.Required(), mcp.Description("Unique identifier of the webhook")),
	)
}

func createListWebhookLogsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List delivery logs for a webhook."),
		mcp.WithString("webhook_id", mcp.Required(), mcp.Description("Unique identifier of the webhook")),
	}
	return mcp.NewTool("list_webhook_logs", append(opts, pageOpts()...)...)
}
