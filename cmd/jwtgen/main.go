// Command jwtgen prints a bearer token for local testing against the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/wesplit/internal/auth"
	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	var (
		userID = flag.String("user", "", "user ID (required)")
		name   = flag.String("name", "", "display name")
		email  = flag.String("email", "", "email address")
		ttl    = flag.Duration("ttl", 24*time.Hour, "token lifetime")
		secret = flag.String("secret", os.Getenv("JWT_SECRET"), "signing secret, defaults to $JWT_SECRET")
	)
	flag.Parse()

	logger := logging.Setup()
	if *secret == "" {
		logger.Error("No signing secret, set JWT_SECRET or pass -secret")
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(*secret, *ttl).Generate(models.User{ID: *userID, Name: *name, Email: *email})
	if err != nil {
		logger.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
