package reminder

import "errors"

var ErrParseStatus = errors.New("invalid status")

type Status struct {
	v string
}

func (s Status) String() string {
	return s.v
}

// IsTerminal reports whether no further transition can be driven by the scheduler.
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusMissed || s == StatusCaregiverNotified
}

func ParseStatus(value string) (Status, error) {
	switch value {
	case "PENDING":
		return StatusPending, nil
	case "SENT":
		return StatusSent, nil
	case "CONFIRMED":
		return StatusConfirmed, nil
	case "MISSED":
		return StatusMissed, nil
	case "CAREGIVER_NOTIFIED":
		return StatusCaregiverNotified, nil
	default:
		return StatusUnknown, ErrParseStatus
	}
}

var (
	StatusUnknown           = Status{}
	StatusPending           = Status{v: "PENDING"}
	StatusSent              = Status{v: "SENT"}
	StatusConfirmed         = Status{v: "CONFIRMED"}
	StatusMissed            = Status{v: "MISSED"}
	StatusCaregiverNotified = Status{v: "CAREGIVER_NOTIFIED"}
)
