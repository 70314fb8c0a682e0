package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cppla/riqqa/config"
	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/routes"
	"github.com/cppla/riqqa/services"
	"github.com/cppla/riqqa/storage"
	"github.com/cppla/riqqa/store"
	"github.com/cppla/riqqa/utils"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of the given admin password and exit")
	flag.Parse()
	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	if cfg.AdminPasswordHash == "" {
		utils.Sugar.Warn("ADMIN_PASSWORD_HASH is empty; admin login is disabled")
	}

	src, closeDB := config.InitDataSource(cfg)

	rc := utils.NewRedis(cfg)
	sessions := utils.NewKVStore(rc, "session:")
	blacklist := utils.NewTokenBlacklist(utils.NewKVStore(rc, "jwt:blacklist:"))
	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.AdminTokenTTL())

	st := store.New()
	st.Subscribe(func(s models.AppState) {
		utils.Sugar.Debugw("state changed", "version", s.Version, "posts", len(s.Posts), "loading", s.IsLoading)
	})

	var uploader services.Uploader
	if cfg.S3Bucket != "" {
		u, err := storage.NewS3Uploader(cfg)
		if err != nil {
			utils.Sugar.Fatalf("s3 uploader: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := u.EnsureBucket(ctx); err != nil {
			utils.Sugar.Warnf("s3 bucket check failed: %v", err)
		}
		cancel()
		uploader = u
	} else {
		utils.Sugar.Info("S3_BUCKET_NAME not set; media uploads disabled")
	}

	admin := services.NewAdminService(services.AdminDeps{
		Source:   src,
		Store:    st,
		Session:  sessions,
		Verifier: utils.BcryptVerifier{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash},
		Tokens:   tokens,
		Revoker:  blacklist,
		Uploader: uploader,
		Timeout:  cfg.RemoteTimeout(),
	})

	r := routes.SetupRouter(routes.Deps{
		Config:  cfg,
		Store:   st,
		Posts:   services.NewPostService(src, st, cfg.RemoteTimeout()),
		Admin:   admin,
		Health:  services.NewHealthService(st),
		Tokens:  tokens,
		Revoked: blacklist,
	})

	srv := utils.NewServer(":"+cfg.AppPort, r, utils.DEFAULT_READ_TIMEOUT, utils.DEFAULT_WRITE_TIMEOUT)
	srv.OnShutdown(func() {
		if err := closeDB(); err != nil {
			utils.Sugar.Warnf("close database: %v", err)
		}
	})
	if rc != nil {
		srv.OnShutdown(func() { _ = rc.Close() })
	}
	srv.OnShutdown(func() { _ = utils.Logger.Sync() })

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := srv.Run(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
