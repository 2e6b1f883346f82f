package library

import "fmt"

// Error codes returned by catalog operations.
const (
	CodeDuplicateKey    = "duplicate_key"
	CodeNotFound        = "not_found"
	CodeUnavailable     = "unavailable"
	CodeAlreadyReturned = "already_returned"
	CodeAlreadyBorrowed = "already_borrowed"
	CodeInvalidArgument = "invalid_argument"
)

// Error is an expected, recoverable failure of a catalog operation. An
// operation that returns an Error has not changed any state.
type Error struct {
	Code    string
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

// Is matches on Code only, so errors.Is(err, ErrNotFound) works regardless of
// the message.
func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Code == err.Code
}

// Sentinels for use with errors.Is.
var (
	ErrDuplicateKey    = &Error{Code: CodeDuplicateKey, Message: "duplicate key"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUnavailable     = &Error{Code: CodeUnavailable, Message: "unavailable"}
	ErrAlreadyReturned = &Error{Code: CodeAlreadyReturned, Message: "already returned"}
	ErrAlreadyBorrowed = &Error{Code: CodeAlreadyBorrowed, Message: "already borrowed"}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
)

// DuplicateKey returns an error for a resource whose identifier is in use.
func DuplicateKey(resource, id string) error {
	return &Error{CodeDuplicateKey, fmt.Sprintf("%s with ID %q already exists.", resource, id)}
}

// NotFound returns an error for a resource that does not exist.
func NotFound(resource, id string) error {
	return &Error{CodeNotFound, fmt.Sprintf("%s with ID %q does not exist.", resource, id)}
}

func Unavailable(title string) error {
	return &Error{CodeUnavailable, fmt.Sprintf("No copies of %q are available for borrowing.", title)}
}

func AlreadyReturned(key LoanKey) error {
	return &Error{CodeAlreadyReturned, fmt.Sprintf("Book %q borrowed by %q has already been returned.", key.ISBN, key.MembershipID)}
}

func AlreadyBorrowed(key LoanKey) error {
	return &Error{CodeAlreadyBorrowed, fmt.Sprintf("Borrower %q already has book %q on loan.", key.MembershipID, key.ISBN)}
}

func InvalidArgument(msg string) error {
	return &Error{CodeInvalidArgument, msg}
}
