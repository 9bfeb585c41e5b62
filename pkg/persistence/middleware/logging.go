package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.AutomatonStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at debug level, with its duration and error.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.AutomatonStore) ports.AutomatonStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, name string, a *domain.Automaton) error {
	began := time.Now()
	err := m.next.Save(ctx, name, a)
	m.log(ctx, "save", name, began, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, name string) (*domain.Automaton, error) {
	began := time.Now()
	a, err := m.next.Load(ctx, name)
	m.log(ctx, "load", name, began, err)
	return a, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, name string) error {
	began := time.Now()
	err := m.next.Delete(ctx, name)
	m.log(ctx, "delete", name, began, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	began := time.Now()
	names, err := m.next.List(ctx)
	m.log(ctx, "list", "", began, err, "count", len(names))
	return names, err
}

func (m *loggingMiddleware) log(ctx context.Context, op, name string, began time.Time, err error, extra ...any) {
	args := []any{"op", op, "duration", time.Since(began)}
	if name != "" {
		args = append(args, "name", name)
	}
	args = append(args, extra...)
	if err != nil {
		args = append(args, "error", err)
	}
	m.logger.DebugContext(ctx, "Store operation", args...)
}
