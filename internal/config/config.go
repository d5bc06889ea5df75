package config

import (
	"log"
	"os"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Federated sign-in (Google Identity Services). Empty client ID
	// disables the google_signin action.
	OIDCIssuer   string
	OIDCClientID string
	OIDCJWKSURL  string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "swapit.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./swapit.log"
	}
	issuer := os.Getenv("OIDC_ISSUER")
	if issuer == "" {
		issuer = "https://accounts.google.com"
	}
	jwks := os.Getenv("OIDC_JWKS_URL")
	if jwks == "" {
		jwks = "https://www.googleapis.com/oauth2/v3/certs"
	}
	clientID := os.Getenv("OIDC_CLIENT_ID")

	cfg := Config{
		Port: port, DBDSN: dsn, LogFile: logFile,
		OIDCIssuer: issuer, OIDCClientID: clientID, OIDCJWKSURL: jwks,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s OIDC_ISSUER=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.OIDCIssuer)
	return cfg
}
