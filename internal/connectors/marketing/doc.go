// Package marketing is the HTTP client for the remote marketing API.
//
// The client speaks JSON over HTTPS with basic authentication. Every response
// is classified into success or one of the domain API error types; business
// and server failures are logged on the "api" channel before being returned.
// Client satisfies driven.MarketingAPI and additionally exposes list, member,
// account and listing endpoints used by the CLI.
package marketing
