// Creates or refreshes the demo administrator.
// Usage: go run ./cmd/seeduser [username] [password]
package main

import (
	"context"
	"os"

	"reistoq/internal/config"
	"reistoq/internal/infra"
	"reistoq/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	username, password := "admin", "reistoq2026"
	if len(os.Args) > 1 {
		username = os.Args[1]
	}
	if len(os.Args) > 2 {
		password = os.Args[2]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	ctx := context.Background()
	var u model.Usuario
	err = db.WithContext(ctx).Where("username = ?", username).
		Attrs(model.Usuario{Nome: "Administrador", Rol: model.RolAdministrador}).
		FirstOrInit(&u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("lookup error")
	}
	u.Username = username
	u.PasswordHash = string(hash)
	u.Rol = model.RolAdministrador
	u.Ativo = true

	if err := db.WithContext(ctx).Save(&u).Error; err != nil {
		log.Fatal().Err(err).Msg("save error")
	}
	log.Info().Str("username", username).Str("id", u.ID.String()).Msg("administrator created/updated")
}
