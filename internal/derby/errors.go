package derby

import "errors"

var (
	// ErrEmptyPool is returned by Prepare when no competitors are loaded.
	ErrEmptyPool = errors.New("derby: cannot prepare race without a generated competitor pool")

	// ErrNoSchedule is returned by Start and Advance before Prepare.
	ErrNoSchedule = errors.New("derby: cannot start race without a prepared schedule")

	// ErrDistanceTable is returned when fewer distances are configured than rounds requested.
	ErrDistanceTable = errors.New("derby: missing distance configuration")
)
