package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"timeclash/internal/app"
	"timeclash/internal/domain"
	"timeclash/internal/engine"
	pgloader "timeclash/internal/infra/postgres"
	pgmigrations "timeclash/internal/infra/postgres/migrations"
	infraredis "timeclash/internal/infra/redis"
)

func TestRoundEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	applyMigrations(t, ctx, pgURL)
	seedCatalog(t, ctx, pgURL, sampleCatalog())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	catalogs := infraredis.NewCatalogRepository(redisClient, pgloader.NewCatalogLoader(pool), 5*time.Minute)
	rooms := infraredis.NewRoomStore(redisClient, 5*time.Minute)
	service := app.NewRoundService(rooms, catalogs, app.Options{DefaultCatalogID: "pair"})

	room, err := service.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := service.JoinRoom(ctx, room.Code, "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := service.JoinRoom(ctx, room.Code, "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := service.StartRound(ctx, room.Code, "pair"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	updates, cancel, err := service.SubscribeRound(ctx, room.Code)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	answers := map[string]string{
		`What is the element symbol for "Silver"?`: "ag",
		`What is the element symbol for "Gold"?`:   "au",
	}

	first := <-updates
	if first.Kind != app.UpdateQuestion {
		t.Fatalf("expected question update, got %+v", first)
	}
	res, err := service.SubmitAnswer(ctx, room.Code, answers[first.Prompt])
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Outcome != engine.OutcomeCorrect || res.Class != 1 {
		t.Fatalf("expected first-try correct, got %+v", res)
	}

	var prompt string
	for update := range updates {
		if update.Kind == app.UpdateQuestion && update.Prompt != "" {
			prompt = update.Prompt
			break
		}
	}
	res, err = service.SubmitAnswer(ctx, room.Code, answers[prompt])
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Ended {
		t.Fatalf("expected deck exhaustion, got %+v", res)
	}

	var summary *domain.Summary
	deadline := time.After(5 * time.Second)
	for summary == nil {
		select {
		case update, ok := <-updates:
			if !ok {
				t.Fatalf("updates closed before summary")
			}
			if update.Kind == app.UpdateSummary {
				summary = update.Summary
			}
		case <-deadline:
			t.Fatalf("timed out waiting for summary")
		}
	}

	if summary.Reason != domain.EndReasonDeckDone {
		t.Fatalf("expected deck_exhausted, got %s", summary.Reason)
	}
	if summary.Stats.OneTry != 2 {
		t.Fatalf("expected two first-try resolutions, got %+v", summary.Stats)
	}
	if len(summary.Players) != 2 {
		t.Fatalf("expected both players tallied, got %+v", summary.Players)
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	provider, err := tc.ProviderDefault.GetProvider()
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := provider.Health(context.Background()); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "clash", "POSTGRES_PASSWORD": "clashpass", "POSTGRES_DB": "clashdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	url := fmt.Sprintf("postgres://clash:clashpass@%s:%s/clashdb?sslmode=disable", host, port.Port())
	return url, func() { _ = container.Terminate(ctx) }
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return fmt.Sprintf("redis://%s:%s", host, port.Port()), func() { _ = container.Terminate(ctx) }
}

func applyMigrations(t *testing.T, ctx context.Context, pgURL string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pgURL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("init migrator: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, pgURL string, catalog domain.Catalog) {
	t.Helper()
	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	raw, err := json.Marshal(catalog)
	if err != nil {
		t.Fatalf("marshal catalog: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO catalogs (id, data) VALUES ($1, $2)`, catalog.ID, raw); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		ID:     "pair",
		Prompt: "What is the element symbol for %q?",
		Cards: []domain.Card{
			{Term: "Silver", Definition: "Ag"},
			{Term: "Gold", Definition: "Au"},
		},
	}
}
