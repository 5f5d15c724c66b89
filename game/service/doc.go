// Package service provides the business logic layer for the Cookies & Milk
// board server.
//
// The service package implements:
//   - Multi-session board management
//   - Preset loading
//   - Place, reset and random board operations
//   - Move history tracking with pagination
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// SessionManager stores sessions and ConfigManager loads presets. Session is
// the unit of isolation: it owns one board, the seeded random source used for
// random boards, and the history of place attempts, all behind one mutex.
//
// Architecture:
//
// The engine is deliberately lock free, so this layer is where concurrent
// requests are serialized. Every operation that reads or writes a board
// takes the session lock for its whole duration, which makes "play then
// report the resulting status" a single atomic step.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	result, err := gameService.Place(ctx, info.ID, "cookie", 1)
//	if errors.Is(err, engine.ErrColumnFull) {
//		// result.Board still holds the current board
//	}
package service
