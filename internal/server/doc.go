// Package server implements the MCP (Model Context Protocol) server for
// certificate batch generation.
//
// This package provides a JSON-RPC 2.0 server that exposes the certificate
// workflow — template loading, region editing, layout persistence and batch
// generation — through the MCP protocol, so MCP-compatible clients can drive
// an editing session end to end.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - template_load: Decode a template and start a fresh session
//   - regions_detect: Propose blank regions on the template
//
// Region Editing:
//   - region_add: Add a region manually
//   - region_update: Partial update (geometry, rotation, style)
//   - region_move, region_resize, region_rotate: Single-field edits
//   - region_remove: Delete a region
//   - region_bind: Bind a region to a dataset column
//   - region_list: List the session's regions
//
// Layout Persistence:
//   - layout_export: Save or return the region layout as JSON
//   - layout_import: Restore a saved layout
//
// Fonts:
//   - font_load: Register a TTF/OTF file as a named family
//
// Generation:
//   - dataset_validate: Check a CSV/TSV dataset against the bindings
//   - certificates_generate: Render one JPEG per dataset row
//
// # Session State
//
// The server owns exactly one session: the loaded template and its region
// store. template_load resets the session deterministically — regions,
// bindings and the template itself are replaced. Template decoding goes
// through an in-memory cache keyed by path, so reloading the same file does
// not re-read the disk.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Dataset validation mismatches are expected outcomes and are reported in
// the tool result instead, with valid=false.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
