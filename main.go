package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/purpleboard/connections-server/internal/docstore"
	"github.com/purpleboard/connections-server/internal/generate"
	"github.com/purpleboard/connections-server/internal/httpserver"
	"github.com/purpleboard/connections-server/internal/kv"
	"github.com/purpleboard/connections-server/internal/share"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	docs := docstore.NewSQLite(db)

	local, err := kv.NewDir(getEnv("LOCAL_STORE_DIR", "./data/local"))
	if err != nil {
		log.Warn().Err(err).Msg("local store dir unavailable, using memory")
		local = kv.NewMemory()
	}

	var gen generate.Generator
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		gen = generate.NewClient(key, os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))
	}

	var sms share.Sender
	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		sms = share.NewClient(share.Config{
			AccountSID:          os.Getenv("TWILIO_ACCOUNT_SID"),
			APIKeySID:           os.Getenv("TWILIO_API_KEY_SID"),
			APIKeySecret:        os.Getenv("TWILIO_API_KEY_SECRET"),
			MessagingServiceSID: os.Getenv("TWILIO_MESSAGING_SERVICE_SID"),
			StatusCallback:      statusCallbackURL(),
		})
	}

	srv := httpserver.New(docs, local, db, gen, sms)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting connections-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// statusCallbackURL only returns a delivery-status webhook when the public
// base URL is https; the SMS provider cannot call localhost.
func statusCallbackURL() string {
	base := os.Getenv("BASE_URL")
	if len(base) > 8 && base[:8] == "https://" {
		return base + "/api/twilio-status"
	}
	return ""
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
