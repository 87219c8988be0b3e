// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drivenote/internal/auth"
	"github.com/pdiddy/drivenote/internal/secrets"
	"github.com/pdiddy/drivenote/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the document API over HTTP",
	Long: `Serve exposes the document store and uploads under /api/documents.
Requests carry "Authorization: Bearer <jwt>" signed with the secret from
server.jwt_secret or .secrets/jwt-secret; the token subject is the user id.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default \":8080\")")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	secret, err := jwtSecret(svc.cfg.Server.JWTSecret)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(svc.store, svc.sync, secret, slog.Default())
	err = srv.ListenAndServe(ctx, svc.cfg.Server)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// jwtSecret resolves the signing secret from config or the secrets directory.
func jwtSecret(configured string) ([]byte, error) {
	s := secretDefault(secrets.JWTSecret, configured)
	if s == "" {
		return nil, errors.New("jwt secret not set: configure server.jwt_secret or write " + secrets.DefaultDir + "/" + secrets.JWTSecret)
	}
	if len(s) < auth.MinSecretLen {
		return nil, auth.ErrWeakSecret
	}
	return []byte(s), nil
}
