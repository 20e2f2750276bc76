package factory

import "context"

// Engine runs one poll-and-report cycle each time the cron job fires
type Engine interface {
	Process(ctx context.Context)
	IsInterfaceNil() bool
}
