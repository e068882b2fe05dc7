package middleware

import (
	"context"
	"log/slog"
	"time"

	"imoveis/internal/app/commands"
	"imoveis/internal/app/queries"
)

func Logging(logger *slog.Logger) CommandMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			started := time.Now()
			res, err := nextFn(ctx, cmd)
			logOutcome(ctx, logger, "command", cmd.Key(), started, err)
			return res, err
		})
	}
}

func QueryLogging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			started := time.Now()
			res, err := nextFn(ctx, q)
			logOutcome(ctx, logger, "query", q.Key(), started, err)
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, kind, key string, started time.Time, err error) {
	attrs := []any{kind, key, "duration", time.Since(started)}
	if err != nil {
		logger.WarnContext(ctx, kind+" failed", append(attrs, "error", err)...)
		return
	}
	logger.DebugContext(ctx, kind+" handled", attrs...)
}
