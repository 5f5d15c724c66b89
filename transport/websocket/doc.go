// Package websocket pushes board updates to browsers and other watchers.
//
// Clients connect to /ws?session=<id> and receive one JSON message per
// frame:
//
//	{"session_id":"ab12","event":"board_update","board":{...}}
//
// The connection is receive-only; anything the client sends is discarded.
// The Hub owns all subscription state on its Run goroutine, so Broadcast
// calls are safe from any goroutine.
package websocket
