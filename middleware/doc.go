// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Identity

RequireIdentity resolves the caller through an auth.Verifier (bearer
JWT, or the X-Dev-Uid header in development) and puts it on the request
context. Handlers read it back with Identity:

	authed := middleware.RequireIdentity(verifier)
	mux.HandleFunc("GET /api/sessions", middleware.WithLogging(authed(h.List)))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin)(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Domain errors carry their own status and code:

	if err != nil {
		middleware.WriteError(w, err)
		return
	}

Parse JSON request bodies:

	var req models.SaveListRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
