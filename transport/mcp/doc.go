// Package mcp exposes the Cookies & Milk board to Model Context Protocol
// clients.
//
// Client registers its tools on an mcp-go server and answers each call by
// calling the REST API, so the MCP surface always sees the same sessions as
// HTTP and WebSocket clients. Tools return plain text meant for a language
// model: the rendered board followed by status, playable columns and counts.
//
// The server can be driven over stdio (server.ServeStdio) or mounted on the
// HTTP server at /mcp.
package mcp
