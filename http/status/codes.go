package status

// Code classifies the outcome of a queue operation. The values are stable and may be
// used as-is in logs and metrics attributes.
type Code uint8

const (
	Success Code = iota
	Pending
	Cancelled
	InvalidParameter
	NotImplemented
	NameCollision
	NotFound
	SharingViolation
	AccessDenied
	Unsuccessful
	ConnectionInvalid
	MoreData
)

// Text returns a text for the status code. It returns the empty string if the code
// is unknown.
func Text(code Code) string {
	switch code {
	case Success:
		return "success"
	case Pending:
		return "pending"
	case Cancelled:
		return "cancelled"
	case InvalidParameter:
		return "invalid parameter"
	case NotImplemented:
		return "not implemented"
	case NameCollision:
		return "name collision"
	case NotFound:
		return "not found"
	case SharingViolation:
		return "sharing violation"
	case AccessDenied:
		return "access denied"
	case Unsuccessful:
		return "unsuccessful"
	case ConnectionInvalid:
		return "connection invalid"
	case MoreData:
		return "more data"
	}

	return ""
}

func (c Code) String() string {
	return Text(c)
}
