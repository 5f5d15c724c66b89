// Package session keeps the live Cookies & Milk sessions in memory.
//
// Manager is safe for concurrent use. Session IDs are matched
// case-insensitively; generated IDs are 4 lowercase alphanumeric characters.
// Each session guards its own board, so play on different sessions never
// contends on the manager lock.
//
// The session named "default" backs the shared board routes and is never
// removed by CleanupExpiredSessions.
package session
