package replaycheck

// HTTP status code constants.
const (
	StatusOK      = 200
	StatusCreated = 201
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)
