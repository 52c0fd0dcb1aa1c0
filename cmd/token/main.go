// Command token prints an HS256 bearer token signed with AUTH_SIGNING_SECRET,
// for calling a locally running API.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"blog_api/internal/config"
	"blog_api/internal/utils"
)

func main() {
	subject := flag.String("sub", "local|developer", "token subject")
	scope := flag.String("scope", "openid profile", "space separated scopes")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.Auth.SigningSecret == "" {
		logrus.Fatal("AUTH_SIGNING_SECRET is required to issue tokens")
	}

	token, err := utils.IssueHMACToken(
		[]byte(cfg.Auth.SigningSecret),
		cfg.Auth.IssuerBaseURL,
		cfg.Auth.Audience,
		*subject, *scope, *ttl,
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to sign token")
	}
	fmt.Println(token)
}
