package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/internal/peelapi"
	"github.com/mel2oo/go-peel/packet"
)

const envListen = "PEEL_LISTEN_ADDRESS"
const envSecret = "PEEL_JWT_SECRET"

// serveCommand starts an HTTP server exposing POST /traverse against the
// default packet graph.
func serveCommand(args []string) int {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	listen := fs.StringP("listen", "l", "", "address to listen on, e.g. :8080")
	secret := fs.StringP("secret", "s", "", "HS256 secret for signing/verifying bearer tokens")
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	listenAddr := os.Getenv(envListen)
	jwtSecret := os.Getenv(envSecret)
	maxDepth := peel.DefaultMaxDepth
	logLevel := peel.LogOff

	if *configPath != "" {
		cfg, err := loadFileConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "peel serve: reading config: %v\n", err)
			return 1
		}
		if cfg.Listen != "" {
			listenAddr = cfg.Listen
		}
		if cfg.JWTSecret != "" {
			jwtSecret = cfg.JWTSecret
		}
		if cfg.MaxDepth > 0 {
			maxDepth = cfg.MaxDepth
		}
		if cfg.LogLevel != "" {
			logLevel = peel.ParseLogLevel(cfg.LogLevel)
		}
	}

	if fs.Lookup("listen").Changed {
		listenAddr = *listen
	}
	if fs.Lookup("secret").Changed {
		jwtSecret = *secret
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	var secretBytes []byte
	if jwtSecret != "" {
		secretBytes = []byte(jwtSecret)
	} else {
		secretBytes = make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			fmt.Fprintf(os.Stderr, "peel serve: generating secret: %v\n", err)
			return 1
		}
		log.Printf("WARN  using a generated JWT secret; issued tokens become invalid on restart")
	}

	g := packet.DefaultGraph()
	srv := peelapi.New(g, secretBytes, peel.WithMaxDepth(maxDepth), peel.WithLogLevel(logLevel))

	log.Printf("INFO  peel serve listening on %s", listenAddr)
	if err := http.ListenAndServe(listenAddr, srv.Router()); err != nil {
		fmt.Fprintf(os.Stderr, "peel serve: %v\n", err)
		return 1
	}
	return 0
}
