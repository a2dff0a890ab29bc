// Package api provides the HTTP/JSON client for the fabric backend.
//
// The client implements the driven FabricAPI, ChatAPI and ConnectionAPI
// ports. Transport failures become *domain.NetworkError; non-2xx responses
// become *domain.ServerError carrying the server's own message verbatim,
// never a generic failure string.
package api
