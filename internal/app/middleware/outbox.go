package middleware

import (
	"context"
	"fmt"

	"imoveis/internal/app/commands"
	"imoveis/internal/app/outbox"
)

// OutboxFlush publishes buffered events once a command succeeds. A failed
// flush fails the command so the caller can retry.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, fmt.Errorf("middleware: flush outbox after %s: %w", cmd.Key(), err)
			}
			return res, nil
		})
	}
}
