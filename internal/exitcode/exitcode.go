package exitcode

const (
	Success         = 0
	UsageError      = 1
	DataUnavailable = 2
	EmptyResult     = 3
	DBConnError     = 4
	ExportError     = 5
	ServeError      = 6
)
