// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/community-ballot/cliparse"
	"github.com/danielhkuo/community-ballot/handlers"
	"github.com/danielhkuo/community-ballot/middleware"
	"github.com/danielhkuo/community-ballot/store"
)

func NewRouter(st *store.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(st)
	voteHandler := handlers.NewVoteHandler(st)
	resultsHandler := handlers.NewResultsHandler(st)
	adminHandler := handlers.NewAdminHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter session
	mux.HandleFunc("POST /session", middleware.WithLogging(sessionHandler.Login))

	// Voting operations (require X-Voter-Token)
	mux.HandleFunc("GET /questions", middleware.WithLogging(voteHandler.ListQuestions))
	mux.HandleFunc("GET /votes/mine", middleware.WithLogging(voteHandler.MyChoices))
	mux.HandleFunc("POST /questions/{id}/vote", middleware.WithLogging(voteHandler.CastVote))
	mux.HandleFunc("POST /votes", middleware.WithLogging(voteHandler.CastVotesBatch))

	// Results (tallies sealed until results open; history always visible)
	mux.HandleFunc("GET /questions/{id}/tally", middleware.WithLogging(resultsHandler.GetTally))
	mux.HandleFunc("GET /votes/history", middleware.WithLogging(resultsHandler.GetHistory))

	// Administration (require X-Admin-Key)
	mux.HandleFunc("GET /admin/settings", middleware.WithLogging(adminHandler.GetSettings))
	mux.HandleFunc("PUT /admin/settings", middleware.WithLogging(adminHandler.UpdateSettings))
	mux.HandleFunc("POST /admin/import/voters", middleware.WithLogging(adminHandler.ImportVoters))
	mux.HandleFunc("POST /admin/import/questions", middleware.WithLogging(adminHandler.ImportQuestions))
	mux.HandleFunc("GET /admin/roster", middleware.WithLogging(adminHandler.GetRoster))
	mux.HandleFunc("GET /admin/roster.csv", middleware.WithLogging(adminHandler.GetRosterCSV))
	mux.HandleFunc("GET /admin/stats", middleware.WithLogging(adminHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("community-ballot API v1"))
	})

	return mux
}
