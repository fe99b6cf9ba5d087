package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/crewstock-backend/internal/crew"
	"github.com/angelmondragon/crewstock-backend/pkg/auth"
	"github.com/angelmondragon/crewstock-backend/pkg/config"
	"github.com/angelmondragon/crewstock-backend/pkg/db"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
	"github.com/angelmondragon/crewstock-backend/pkg/migrate"
	"github.com/angelmondragon/crewstock-backend/pkg/redis"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "crew"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "list", "allowlist command: add|remove|list|check|token")
	email := flag.String("email", "", "crew member email (add, remove, check, token)")
	id := flag.String("id", "", "allowlist entry id (remove)")
	name := flag.String("name", "", "display name carried in the token (token)")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime (token)")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "crew",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"cmd": *cmd})

	// token only signs a local identity token
	if *cmd == "token" {
		if *email == "" {
			fail("missing -email for token")
		}
		token, err := auth.MintIdentityToken(cfg.Identity, time.Now(), *ttl, auth.IdentityPayload{Email: *email, Name: *name})
		if err != nil {
			fail("failed to mint token: %v", err)
		}
		fmt.Println(token)
		return
	}

	dbClient, err := db.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "schema", err)
	}

	service, err := crew.NewService(crew.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "crew service", err)

	switch *cmd {
	case "list":
		rows, err := service.List(ctx)
		if err != nil {
			fail("list failed: %v", err)
		}
		for _, row := range rows {
			fmt.Printf("%s\t%s\t%s\n", row.ID, row.Email, row.CreatedAt.Format(time.RFC3339))
		}

	case "check":
		if *email == "" {
			fail("missing -email for check")
		}
		allowed, err := service.IsAllowed(ctx, *email)
		if err != nil {
			fail("check failed: %v", err)
		}
		fmt.Printf("%s allowed=%t\n", types.NormalizeEmail(*email), allowed)

	case "add":
		if *email == "" {
			fail("missing -email for add")
		}
		row, created, err := service.Add(ctx, *email)
		if err != nil {
			fail("add failed: %v", err)
		}
		invalidate(ctx, logg, cfg, row.Email)
		if created {
			fmt.Println("added:", row.ID, row.Email)
		} else {
			fmt.Println("already allowlisted:", row.ID, row.Email)
		}

	case "remove":
		entryID, err := resolveEntry(ctx, service, *id, *email)
		if err != nil {
			fail("remove failed: %v", err)
		}
		row, err := service.Remove(ctx, entryID)
		if err != nil {
			fail("remove failed: %v", err)
		}
		if row == nil {
			fmt.Println("no allowlist entry:", entryID)
			return
		}
		invalidate(ctx, logg, cfg, row.Email)
		fmt.Println("removed:", row.ID, row.Email)

	default:
		fail("unknown -cmd value: %s", *cmd)
	}
}

// resolveEntry picks the allowlist id from -id, or looks it up by -email.
func resolveEntry(ctx context.Context, service crew.Service, rawID, email string) (uuid.UUID, error) {
	if rawID != "" {
		return uuid.Parse(rawID)
	}
	if email == "" {
		return uuid.Nil, fmt.Errorf("missing -id or -email")
	}
	normalized := types.NormalizeEmail(email)
	rows, err := service.List(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	for _, row := range rows {
		if row.NormalizedEmail == normalized {
			return row.ID, nil
		}
	}
	return uuid.Nil, fmt.Errorf("%s is not allowlisted", normalized)
}

// invalidate drops the cached allowlist decision so the API sees the change
// before the cache TTL runs out. Redis being down only delays that.
func invalidate(ctx context.Context, logg *logger.Logger, cfg *config.Config, email string) {
	client, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "allowlist cache not invalidated")
		return
	}
	defer client.Close()
	if err := crew.NewCachedChecker(nil, client, cfg.Allowlist.CacheTTL, logg).Invalidate(ctx, email); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "allowlist cache not invalidated")
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
