// Package api serves the Cookies & Milk board over HTTP.
//
// Shared board, plain text, always the "default" session:
//
//	GET  /12/board                  rendered board
//	POST /12/reset                  empty the board, reseed the random source
//	POST /12/place/{team}/{column}  team is cookie or milk, column 1-4
//	GET  /12/random-board           a random full board
//
// A bad team, a non-numeric column or a column outside 1-4 answers 400 with an
// empty body. A full column or a finished game answers 503 with the unchanged
// board.
//
// Sessions, JSON:
//
//	POST   /api/sessions                   {"config_id": "opening"}
//	GET    /api/sessions                   ?sort=created|accessed&order=asc|desc&limit=N
//	GET    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	GET    /api/sessions/{id}/board
//	POST   /api/sessions/{id}/place        {"team": "milk", "column": 2}
//	POST   /api/sessions/{id}/reset
//	GET    /api/sessions/{id}/random-board ?include_empty=true
//	GET    /api/sessions/{id}/history      ?page=1&limit=20&order=desc
//	GET    /api/configs
//	GET    /api/configs/{name}
//
// Errors are {"error": "..."}; a rejected place still answers with the full
// place result so the caller sees the board. /health, /metrics (Prometheus)
// and /ws?session=<id> round it off. The JSON place route is rate limited per
// client IP when Options.PlaceRate is set; the /12 routes never are.
package api
