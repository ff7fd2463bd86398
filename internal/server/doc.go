// Package server answers HTTP requests from the live site snapshot.
//
// Every request reads the snapshot once and resolves the path against it:
// reserved feed paths first, then aliases, static files and pages. Responses
// support conditional GET (If-None-Match, If-Modified-Since) and single byte
// ranges. The live-reload SSE endpoint and the Prometheus endpoint are
// mounted next to the content handler.
package server
