package status

import "errors"

// Error is returned by every queue operation that fails synchronously. Errors are
// comparable, so errors.Is works both on bare and on wrapped values.
type Error struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return Error{
		Code:    code,
		Message: message,
	}
}

func (e Error) Error() string {
	return e.Message
}

// Is makes every error match the generic error of its code, e.g. ErrHTTPS is also
// ErrNotImplemented and ErrBadPort is also ErrInvalidParameter.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || t.Code != e.Code {
		return false
	}

	for _, generic := range generics {
		if t == generic {
			return true
		}
	}

	return false
}

var (
	ErrPending           = NewError(Pending, "receive is still pending")
	ErrCancelled         = NewError(Cancelled, "receive was cancelled")
	ErrInvalidParameter  = NewError(InvalidParameter, "invalid parameter")
	ErrBadScheme         = NewError(InvalidParameter, "url scheme must be http")
	ErrBadPort           = NewError(InvalidParameter, "url must contain a valid non-zero port")
	ErrNoTrailingSlash   = NewError(InvalidParameter, "url must end with a slash")
	ErrNotImplemented    = NewError(NotImplemented, "not implemented")
	ErrHTTPS             = NewError(NotImplemented, "https is not implemented")
	ErrMultipleURLs      = NewError(NotImplemented, "binding multiple urls to a queue is not implemented")
	ErrNameCollision     = NewError(NameCollision, "url is already bound to the queue")
	ErrNotFound          = NewError(NotFound, "url is not bound to the queue")
	ErrSharingViolation  = NewError(SharingViolation, "address is already in use")
	ErrAccessDenied      = NewError(AccessDenied, "not enough permissions to bind the address")
	ErrUnsuccessful      = NewError(Unsuccessful, "operation was unsuccessful")
	ErrConnectionInvalid = NewError(ConnectionInvalid, "no connection with such request id")
	ErrMoreData          = NewError(MoreData, "request does not fit into the buffer")
	ErrQueueClosed       = NewError(Cancelled, "queue is closed")
)

var generics = []error{ErrCancelled, ErrInvalidParameter, ErrNotImplemented}

// CodeOf extracts the status code from the error chain. Nil errors are Success, foreign
// errors are Unsuccessful.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}

	var e Error
	if errors.As(err, &e) {
		return e.Code
	}

	return Unsuccessful
}
