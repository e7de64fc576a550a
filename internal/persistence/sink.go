package persistence

import (
	"context"
	"fmt"

	"github.com/fathima-sithara/chatroom-service/internal/config"
	"github.com/fathima-sithara/chatroom-service/internal/core"
)

// Sink saves and restores the core's state blob. Load returns (nil, nil)
// when nothing has been saved yet; callers start empty on any load error
// rather than aborting startup.
type Sink interface {
	Load(ctx context.Context) (*core.State, error)
	Save(ctx context.Context, st *core.State) error
}

// New builds the sink named by the persistence config.
func New(ctx context.Context, cfg config.PersistenceConfig) (Sink, error) {
	switch cfg.Backend {
	case "file":
		return NewFileSink(cfg.FilePath), nil
	case "redis":
		return NewRedisSink(cfg.Redis), nil
	case "mongo":
		return NewMongoSink(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Backend)
	}
}
