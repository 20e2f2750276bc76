package commonGo

import "time"

// FileLoggingHandler defines the operations of the rotating file logger
type FileLoggingHandler interface {
	ChangeFileLifeSpan(newDuration time.Duration, newSizeInMB uint64) error
	Close() error
	IsInterfaceNil() bool
}
