package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/blackwhite-backend/internal/config"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository/memory"
	"github.com/rocketscienceinc/blackwhite-backend/internal/repository/storage"
	"github.com/rocketscienceinc/blackwhite-backend/internal/retention"
	"github.com/rocketscienceinc/blackwhite-backend/internal/service"
	"github.com/rocketscienceinc/blackwhite-backend/internal/usecase"
	"github.com/rocketscienceinc/blackwhite-backend/transport/rest"
	"github.com/rocketscienceinc/blackwhite-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type repositories struct {
	sessions repository.SessionRepository
	moves    repository.MoveRepository
	players  repository.PlayerRepository
	locker   repository.SessionLocker

	close func()
}

// RunApp - runs the application until ctx is cancelled or a signal arrives.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	repos, err := newRepositories(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer repos.close()

	auth := service.NewAuthService(conf.JWTSecretKey)
	players := service.NewPlayerService(repos.players)
	opponent := service.NewOpponentService(repos.players, nil)
	allocator := service.NewAllocator(logger, repos.sessions, conf.Game.CodeRetries)

	keeper := retention.NewKeeper(logger, repos.sessions, conf.Retention.KeepLast, conf.Retention.Timeout)
	defer keeper.Wait()

	hub := websocket.NewHub(logger, auth)

	manager := usecase.NewSessionManager(
		logger,
		repos.sessions,
		repos.moves,
		repos.locker,
		opponent,
		allocator,
		conf.Game.MoveTimeout,
		usecase.WithRetention(keeper),
		usecase.WithNotifier(hub),
	)

	mux := http.NewServeMux()
	rest.NewHandlers(logger, manager, players, auth).Register(mux)
	mux.Handle("GET /ws", hub.Handler(manager))

	server := rest.NewServer(logger, conf.HTTPPort, mux)
	if err = server.Start(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newRepositories(ctx context.Context, logger *slog.Logger, conf *config.Config) (*repositories, error) {
	log := logger.With("component", "storage")

	if conf.Storage.Driver == config.StorageMemory {
		log.Warn("using in-memory storage, sessions will not survive a restart")

		st := memory.New()

		return &repositories{
			sessions: memory.NewSessionRepository(st),
			moves:    memory.NewMoveRepository(st),
			players:  memory.NewPlayerRepository(st),
			locker:   memory.NewSessionLocker(conf.Game.LockWait),
			close:    func() {},
		}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return &repositories{
		sessions: repository.NewSessionRepository(redisStorage),
		moves:    repository.NewMoveRepository(redisStorage),
		players:  repository.NewPlayerRepository(redisStorage),
		locker:   repository.NewSessionLocker(logger, redisStorage, conf.Game.LockTTL, conf.Game.LockWait),
		close: func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		},
	}, nil
}
