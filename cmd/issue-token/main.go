// Command issue-token signs a development token with the configured HMAC secret.
//
//	issue-token -user 6f1c3b9e-5a2d-4c8e-9f10-1a2b3c4d5e6f -email alice@example.com -role admin
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/lib/jwt"
)

func main() {
	userID := flag.String("user", "", "user id (uuid); a random one is used when empty")
	email := flag.String("email", "", "e-mail claim")
	role := flag.String("role", "user", "role claim")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()
	if cfg.JWTSecretKey == "" {
		log.Fatal("auth.jwt_secret_key is not set")
	}

	if *userID == "" {
		*userID = uuid.NewString()
	}

	maker := jwt.NewMaker(cfg.JWTSecretKey, cfg.Issuer, cfg.Audience, cfg.TokenTTL)
	token, err := maker.GenerateToken(*userID, *email, *role)
	if err != nil {
		log.Fatalf("failed to sign token: %s", err)
	}
	fmt.Println(token)
}
