// Package server exposes the registry store over HTTP.
//
// Routes:
//
//	POST /registry/generate   build a registry item from a file and dependency plan and store it
//	POST /r/store             store a prebuilt registry item
//	GET  /r/store?id=<id>     fetch a stored item (404 missing, 410 expired)
//	GET  /r/{filename}.json   fetch by file name, as dereferenced by the shadcn CLI
//	GET  /health              liveness
//	GET  /metrics             prometheus metrics
//	GET  /openapi.json        API description
package server
