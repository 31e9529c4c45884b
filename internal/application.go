package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}()

	playerRepo := repository.NewPlayerRepository(redisStorage, conf.Game.TTL)
	gameRepo := repository.NewGameRepository(redisStorage, conf.Game.TTL)

	engine := tictactoe.NewEngine(logger)
	gameController := tictactoe.NewController(engine)
	gameUseCase := usecase.NewGameManager(logger, playerRepo, gameRepo, gameController)

	wsServer := websocket.New(logger, gameUseCase)

	err = runServers(ctx, log,
		server{
			name: "HTTP",
			start: func(ctx context.Context) error {
				log.Info("Starting HTTP server", "port", conf.HTTPPort)
				return rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, engine))
			},
		},
		server{
			name: "WebSocket",
			start: func(ctx context.Context) error {
				log.Info("Starting WebSocket server", "port", conf.SocketPort)
				return wsServer.Start(ctx, conf.SocketPort)
			},
		},
	)

	log.Info("Servers stopped, closing storage")

	return err
}

type server struct {
	name  string
	start func(ctx context.Context) error
}

// runServers blocks until every server has returned. The first failure cancels the rest and is returned.
func runServers(ctx context.Context, log *slog.Logger, servers ...server) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		group.Go(func() error {
			if err := srv.start(ctx); err != nil {
				log.Error("server error", "server", srv.name, "error", err)
				return fmt.Errorf("%s server error: %w", srv.name, err)
			}

			return nil
		})
	}

	return group.Wait()
}
