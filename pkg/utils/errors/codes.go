package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Error code format: AABBCCC. AA is the service code (00 = common, written
// without the leading zeros, 20 = echomind), BB the category (01 request,
// 02 auth, 04 not found, 07 internal, 10 upstream), CCC the sequence within
// the category.

// Common errors.
var (
	// ErrInternal is the catch-all internal server error.
	ErrInternal = New(7001, http.StatusInternalServerError, codes.Internal, "Internal server error")

	// ErrMethodNotAllowed indicates the HTTP method is not supported on the route.
	ErrMethodNotAllowed = New(1002, http.StatusMethodNotAllowed, codes.Unimplemented, "Method not allowed")

	// ErrNotFound indicates the requested route or resource does not exist.
	ErrNotFound = New(4001, http.StatusNotFound, codes.NotFound, "Resource not found")
)

// Chat pipeline errors.
var (
	// ErrQueryRequired indicates the request carried no question text.
	ErrQueryRequired = New(2001001, http.StatusBadRequest, codes.InvalidArgument, "Query must not be empty")

	// ErrTenantRequired indicates the request carried no tenant identifier.
	ErrTenantRequired = New(2002001, http.StatusUnauthorized, codes.Unauthenticated, "User identifier is missing")

	// ErrRetrieval indicates the embedding provider or the note store failed
	// while resolving context. Distinct from an empty retrieval result, which
	// is not an error.
	ErrRetrieval = New(2010001, http.StatusInternalServerError, codes.Unavailable, "Failed to retrieve note context")

	// ErrGeneration indicates the generation provider failed or timed out.
	ErrGeneration = New(2010002, http.StatusInternalServerError, codes.Unavailable, "Failed to generate an answer")
)

// Note management errors.
var (
	// ErrNoteTextRequired indicates a save request carried no text.
	ErrNoteTextRequired = New(2001002, http.StatusBadRequest, codes.InvalidArgument, "Note text must not be empty")

	// ErrNoteStore indicates a note store operation failed.
	ErrNoteStore = New(2010003, http.StatusInternalServerError, codes.Unavailable, "Note store operation failed")
)
