// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"crypto/tls"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/c2FmZQ/storage/crypto"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ttbt-io/pitchbypitch/backend"
	"github.com/ttbt-io/pitchbypitch/backend/archive"
)

var (
	serveMode  = flag.Bool("serve", false, "Run the HTTP/WebSocket service instead of a single game")
	addr       = flag.String("addr", ":8080", "The TCP address to listen to")
	debugMode  = flag.Bool("debug", false, "Enable debug logging")
	dataDir    = flag.String("data-dir", "data", "Directory for save files")
	tlsCert    = flag.String("tls-cert", "", "Path to HTTP TLS certificate")
	tlsKey     = flag.String("tls-key", "", "Path to HTTP TLS key")
	publicURL  = flag.String("public-url", "", "Base URL used in replay links")
	dbDSN      = flag.String("db", "", "Results archive: a SQLite path or postgres:// URL (default $PBP_DB_DSN)")
	configPath = flag.String("config", "", "YAML game setup")
	seedText   = flag.String("seed", "", "Seed, decimal or base 36 (default: from config, else random)")
	replayLink = flag.String("replay", "", "Replay link to play back")
	importPath = flag.String("import", "", "Save file to resume")
	exportPath = flag.String("export", "", "Write the finished game as a save file")
	verbose    = flag.Bool("v", false, "Print play-by-play")
)

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// openStorage returns the save storage, encrypted when SK_MASTER_KEY is set.
func openStorage(log zerolog.Logger, dir string) *storage.Storage {
	var masterKey crypto.MasterKey
	keyFile := filepath.Join(dir, "master.key")
	if passphrase := os.Getenv("SK_MASTER_KEY"); passphrase != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("create data dir")
		}
		var err error
		masterKey, err = crypto.ReadMasterKey([]byte(passphrase), keyFile)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Fatal().Err(err).Msg("read master key")
			}
			log.Info().Msg("initializing new master encryption key")
			if masterKey, err = crypto.CreateMasterKey(); err != nil {
				log.Fatal().Err(err).Msg("create master key")
			}
			if err := masterKey.Save([]byte(passphrase), keyFile); err != nil {
				log.Fatal().Err(err).Msg("save master key")
			}
		} else {
			log.Info().Msg("loaded master encryption key")
		}
	} else {
		if _, err := os.Stat(keyFile); err == nil {
			log.Fatal().Str("keyFile", keyFile).Msg("master key exists but SK_MASTER_KEY is not set; refusing to store saves unencrypted")
		}
		log.Warn().Msg("no SK_MASTER_KEY provided, saves will be stored unencrypted")
	}

	store := storage.New(dir, masterKey)
	store.EnableCompression(true)
	return store
}

func openArchive(log zerolog.Logger, dsn string) archive.Repository {
	if dsn == "" {
		log.Info().Msg("results archive in memory")
		return archive.NewMemoryRepository()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	repo, err := archive.Open(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("open results archive")
	}
	return repo
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	log := newLogger(*debugMode)
	if !*serveMode {
		os.Exit(runCLI(log))
	}

	var cert *tls.Certificate
	if *tlsCert != "" && *tlsKey != "" {
		c, err := tls.LoadX509KeyPair(*tlsCert, *tlsKey)
		if err != nil {
			log.Fatal().Err(err).Msg("load TLS cert/key")
		}
		cert = &c
	}

	dsn := *dbDSN
	if dsn == "" {
		dsn = os.Getenv("PBP_DB_DSN")
	}
	var secret []byte
	if s := os.Getenv("PBP_JWT_SECRET"); s != "" {
		secret = []byte(s)
	} else {
		log.Warn().Msg("no PBP_JWT_SECRET provided, the API accepts anonymous writes")
	}

	server, err := backend.StartServer(backend.Options{
		Addr:      *addr,
		Cert:      cert,
		DataDir:   *dataDir,
		Debug:     *debugMode,
		Logger:    log,
		Storage:   openStorage(log, *dataDir),
		Archive:   openArchive(log, dsn),
		JWTSecret: secret,
		PublicURL: *publicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("start server")
	}

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	} else {
		log.Info().Msg("gracefully stopped")
	}
}
