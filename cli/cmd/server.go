package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trailfeathers/trailfeathers/api"
	"github.com/trailfeathers/trailfeathers/services/cache"
	"github.com/trailfeathers/trailfeathers/services/server"
	"github.com/trailfeathers/trailfeathers/util"
)

func init() {
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"service"},
	Short:   "Run the API server",
	Run: func(cmd *cobra.Command, args []string) {
		runService()
	},
}

func runService() {
	store := createStore()
	defer store.Close()

	listCache := cache.NewCache(util.Config)
	defer listCache.Close()

	sessions, err := api.NewSessionManager(util.Config)
	if err != nil {
		log.WithError(err).Fatal("invalid cookie keys")
	}

	friends := server.NewFriendshipService(store, store)
	access := server.NewAccessService(store, store)

	router := api.Route(api.Services{
		Users:   server.NewUserService(store),
		Friends: friends,
		Trips:   server.NewTripService(store, access),
		Invites: server.NewTripInviteService(store, friends, access),
		Gear:    server.NewGearService(store),
	}, listCache, sessions)

	srv := &http.Server{
		Addr:              util.Config.Port,
		Handler:           api.Handler(router, util.Config),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(log.Fields{
		"port":    util.Config.Port,
		"dialect": util.Config.Database.Dialect,
		"version": util.Version(),
	}).Info("trailfeathers is running")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server failed")
	}
}
