// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: tags every request with a ray id, stored in locals and echoed in the
//     X-Ray-ID response header for tracing.
//
// Both are registered globally in the start command.
package middleware
