// Command session mints a session token for a patient or clinician, so the
// API can be used before a real sign-in flow exists. With -seed it also
// creates the patient document in postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/2beens/bodymeasures/internal/auth"
	"github.com/2beens/bodymeasures/internal/config"
	"github.com/2beens/bodymeasures/internal/db"
	"github.com/2beens/bodymeasures/internal/measurements/psql"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	userID := flag.String("user", "", "user id the session belongs to")
	role := flag.String("role", string(auth.RolePatient), "session role [patient | clinician]")
	seed := flag.Bool("seed", false, "create the patient document in postgres (patient role only)")
	sexo := flag.String("sexo", "", "sexo stored in the seeded patient document")
	flag.Parse()

	if *userID == "" {
		log.Fatalln("-user is required")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *seed {
		if err := seedPatient(ctx, cfg, *userID, *sexo); err != nil {
			log.Fatalf("seed patient: %s", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("MEASURES_REDIS_PASS"),
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()

	ttl := auth.DefaultTTL
	if cfg.SessionTTLHours > 0 {
		ttl = time.Duration(cfg.SessionTTLHours) * time.Hour
	}

	session, err := auth.NewService(ttl, rdb).CreateSession(ctx, *userID, auth.Role(*role), time.Now())
	if err != nil {
		log.Fatalf("create session: %s", err)
	}

	fmt.Println(session.Token)
}

func seedPatient(ctx context.Context, cfg *config.Config, userID, sexo string) error {
	if cfg.Store != config.StorePostgres {
		log.Warnf("store is [%s], nothing to seed: memory mode creates documents on first save", cfg.Store)
		return nil
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: cfg.PostgresHost,
		DBPort: cfg.PostgresPort,
		DBName: cfg.PostgresDBName,
	})
	if err != nil {
		return fmt.Errorf("new db pool: %w", err)
	}
	defer dbPool.Close()

	store := psql.NewStore(dbPool)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	err = store.CreatePatient(ctx, userID, sexo)
	if errors.Is(err, psql.ErrPatientExists) {
		log.Infof("patient [%s] already exists", userID)
		return nil
	}
	if err != nil {
		return err
	}
	log.Infof("patient [%s] created", userID)
	return nil
}
