package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yourusername/othello/pkg/engine"
)

// SelfPlaySSE streams self-play progress as Server-Sent Events.
// GET /api/selfplay/stream?games=...&dark=...&light=...&seed=...&workers=...
//
// Events are "progress" after every game, then "result" and "done", or a
// single "error".
func (h *Handlers) SelfPlaySSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	if h.pool != nil {
		if !h.pool.TryAcquireBatch() {
			writeSSEError(w, "server busy, try again later")
			return
		}
		defer h.pool.ReleaseBatch()
	}

	q := r.URL.Query()
	opts, aerr := selfPlayOptions(SelfPlayRequest{
		Games:     parseIntParam(q.Get("games"), 0),
		DarkMode:  q.Get("dark"),
		LightMode: q.Get("light"),
		Seed:      int64(parseIntParam(q.Get("seed"), 0)),
		Workers:   parseIntParam(q.Get("workers"), 0),
	})
	if aerr != nil {
		writeSSEError(w, aerr.msg)
		return
	}

	callback := func(p engine.SelfPlayProgress) {
		writeSSEEvent(w, "progress", SelfPlayProgressEvent{
			GamesCompleted: p.GamesCompleted,
			GamesTotal:     p.GamesTotal,
			Percent:        p.Percent,
			DarkWinRate:    p.DarkWinRate,
			MeanMargin:     p.MeanMargin,
		})
		flusher.Flush()
	}

	res, err := engine.SelfPlayWithProgress(r.Context(), opts, callback)
	if err != nil {
		writeSSEError(w, "self-play failed: "+err.Error())
		return
	}

	writeSSEEvent(w, "result", selfPlayResponse(opts, res))
	flusher.Flush()

	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes one event. A nil data writes the event line only.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		b, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", b)
	}
	fmt.Fprint(w, "\n")
}

func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", ErrorResponse{Error: message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer query parameter, returning def when it is
// missing or malformed.
func parseIntParam(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
