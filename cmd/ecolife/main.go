// Command ecolife runs the EcoLifestyle blog server. All deployment-specific
// settings come from environment variables.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/eringen/ecolife"
)

func main() {
	cfg := ecolife.SiteConfig{
		Name:           ecolife.EnvOr("SITE_NAME", "EcoLifestyle"),
		URL:            ecolife.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:    os.Getenv("SITE_DESCRIPTION"),
		Addr:           ecolife.EnvOr("ADDR", ":3000"),
		DatabasePath:   ecolife.EnvOr("DATABASE_PATH", "data/blog.db"),
		SessionSecret:  ecolife.MustEnv("SESSION_SECRET"),
		CookieSecure:   ecolife.EnvBool("COOKIE_SECURE"),
		ContactEmail:   ecolife.MustEnv("CONTACT_EMAIL"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
	}

	app := ecolife.New(cfg, ecolife.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
