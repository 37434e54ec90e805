package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

type ctxKey struct{}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithProvider tags the logger carried by ctx with the content provider.
func WithProvider(ctx context.Context, provider string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(Provider(provider)))
}

// FromContext returns the request-scoped logger. Without one it returns the
// process default set by SetDefault, else a warn-level stderr logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	if h := processDefault.Load(); h != nil {
		return h.l
	}
	return stderrLogger()
}

type holder struct{ l Logger }

var processDefault atomic.Pointer[holder]

// SetDefault makes l the logger for contexts that carry none, such as
// background fetches started outside a request. A nil l clears it.
func SetDefault(l Logger) {
	if l == nil {
		processDefault.Store(nil)
		return
	}
	processDefault.Store(&holder{l: l})
}

var (
	stderr     Logger
	stderrOnce sync.Once
)

func stderrLogger() Logger {
	stderrOnce.Do(func() {
		l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: stderr logger unavailable: %v\n", err)
			l = NewNop()
		}
		stderr = l
	})
	return stderr
}
