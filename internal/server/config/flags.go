package config

import (
	"flag"
	"os"
	"time"

	"github.com/akash0382/ApniSec/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN; empty runs on the in-memory store
//	-s string   access token secret
//	-rs string  refresh token secret
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-l int      rate limit, requests per window
//	-w int      rate limit window, seconds
//	-u string   public app URL used in reset links
//	-m string   environment ("development" or "production")
//
// os.Args is filtered through flagx.FilterArgs first so that flags owned
// by other components (-c, -env-file) do not cause parse errors.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-rs", "-t", "-r", "-l", "-w", "-u", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "rs", config.RefreshTokenSecret, "refresh token secret")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.IntVar(&config.RateLimitMaxRequests, "l", config.RateLimitMaxRequests, "max requests per rate limit window")
	rateLimitWindow := fs.Int("w", int(config.RateLimitWindow.Seconds()), "rate limit window (in seconds)")

	fs.StringVar(&config.AppURL, "u", config.AppURL, "public app URL")
	fs.StringVar(&config.Environment, "m", config.Environment, "environment")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
	config.RateLimitWindow = time.Duration(*rateLimitWindow) * time.Second
}
