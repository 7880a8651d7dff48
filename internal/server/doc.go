// Package server implements the pageroutes development server.
//
// The server keeps the current route table of a project in memory, watches
// the pages directory and the config files, and re-resolves the table after
// every batch of relevant changes. Clients can read the table over HTTP or
// subscribe to updates over a WebSocket:
//
//	GET /routes               current table as JSON
//	GET /routes/match?path=   preview of a URL match
//	GET /healthz              liveness and last resolution status
//	GET /metrics              Prometheus metrics
//	GET /ws                   route-table updates
//
// Every WebSocket client receives the current state on connect, then one
// message per resolution:
//
//	{"type":"routes","source":"pages","routes":[...]}
//	{"type":"error","code":"E110","error":"..."}
package server
