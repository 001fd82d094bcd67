package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/talkincode/jobdesk/config"
	"github.com/talkincode/jobdesk/internal/adminapi"
	"github.com/talkincode/jobdesk/internal/app"
	"github.com/talkincode/jobdesk/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	h         = flag.Bool("h", false, "help usage")
	showVer   = flag.Bool("v", false, "show version")
	conffile  = flag.String("c", "", "config yaml file")
	initdb    = flag.Bool("initdb", false, "drop and recreate all database tables")
	printCfg  = flag.Bool("x", false, "print effective config")
	token     = flag.String("token", "", "issue an API token for the given subject and exit")
	tokenTTL  = flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token issued with -token")
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("jobdesk %s (%s)\n", version, buildTime)
		return
	}
	if *h {
		flag.Usage()
		return
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *printCfg {
		out, _ := yaml.Marshal(cfg)
		fmt.Println(string(out))
		return
	}

	if *token != "" {
		if err := printToken(cfg.Web.Secret, *token, *tokenTTL); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database tables recreated")
		return
	}

	webserver.Init(application)
	adminapi.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Server().Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		zap.S().Info("shutting down admin server")
		return webserver.Server().Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server exited: %s", err.Error())
	}
}

func printToken(secret, subject string, ttl time.Duration) error {
	if secret == "" {
		return fmt.Errorf("web.secret is empty, API authentication is disabled")
	}
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}
