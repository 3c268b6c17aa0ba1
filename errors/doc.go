/*
Package errors provides semantic error types for the docstore library.

The package defines common failure scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound               = errors.New("not found")
	    ErrInvalidArgument        = errors.New("invalid argument")
	    ErrWriteFailed            = errors.New("write failed")
	    ErrStoreUnavailable       = errors.New("store unavailable")
	    ErrUnsupportedResultShape = errors.New("unsupported result shape")
	    ErrNotSupported           = errors.New("operation not supported")
	)

Usage:

	// Check error type
	rec, err := collection.Get(ctx, "cake")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle missing record
	        return nil, fmt.Errorf("record %s does not exist", "cake")
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("record", "cake")
	err := errors.NewInvalidArgumentError("name", "must not be empty")
	err := errors.NewWriteFailedError("recipes", []string{"cake"}, cause)

WriteFailedError carries the keys whose outcome the caller cannot determine
after a partial batch failure. StoreUnavailableError wraps the backend cause
so callers can still unwrap transport-level detail.

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
