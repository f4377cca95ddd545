package db

// Command names carried in Error for diagnostics.
const (
	OpHSet    = "HSET"
	OpHGetAll = "HGETALL"
	OpHIncrBy = "HINCRBY"
	OpScan    = "SCAN"
	OpRPush   = "RPUSH"
	OpLTrim   = "LTRIM"
	OpLRange  = "LRANGE"
)

// Error records the failing command and, when known, the key it touched.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
