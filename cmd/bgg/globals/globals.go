package globals

import (
	"context"

	"bggclient/internal/components/telemetry"
	"bggclient/lib/platforms/bgg"
)

type key struct{}

type Value struct {
	Client    *bgg.Client
	Telemetry telemetry.Telemetry
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
