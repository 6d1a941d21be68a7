// Package server implements the MCP (Model Context Protocol) server for
// the dark-region detection tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the detection
// pipeline to MCP-compatible clients, typically the scientific-image
// viewer hosting this process.
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
// Image information:
//   - image_load: Load image and get dimensions plus intensity range
//   - image_threshold_range: Intensity extremes for threshold sliders
//
// Region detection:
//   - region_detect: Relative-tolerance detection at a clicked pixel
//   - region_detect_absolute: Absolute-threshold detection
//   - region_finalize: High-fidelity polygon from a stored detection
//   - region_render_overlay: Base64 PNG of the detection drawn over the image
//
// # Detection Workflow
//
// region_detect and region_detect_absolute return a fast preview polygon
// together with a detection_id. The full result, including the
// working-resolution mask, stays in an in-memory store keyed by that ID;
// region_finalize and region_render_overlay look it up to produce the
// committed polygon and the visual overlay. The store and the image cache
// persist for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string as data. Detection failures
// ("uniform image", "no region detected at click point", ...) use the
// same path; they are expected outcomes the client resolves by retrying
// with different parameters, not server faults.
package server
