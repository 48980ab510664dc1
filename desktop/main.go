// Command desktop is a windowed viewer for Grid Snake sessions. It attaches to
// an existing session, or creates a realtime one, renders the WebSocket stream
// and forwards arrow key releases to the server.
//
// Usage:
//
//	desktop [session-id]
//
// GRIDSNAKE_URL selects the server (default http://localhost:8080) and
// GRIDSNAKE_CONFIG the config for new sessions (default classic).
package main

import (
	"context"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/gridsnake/desktop/client"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	api := client.New(getenv("GRIDSNAKE_URL", "http://localhost:8080"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		info *client.SessionInfo
		err  error
	)
	if len(os.Args) > 1 {
		info, err = api.GetSession(ctx, os.Args[1])
	} else {
		info, err = api.CreateSession(ctx, getenv("GRIDSNAKE_CONFIG", "classic"))
	}
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}
	log.WithField("session", info.ID).Infof("Viewing %s session", info.ConfigName)

	viewer, err := NewViewer(ctx, api, info)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer viewer.Close()

	w, h := viewer.Layout(0, 0)
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("Grid Snake - " + info.ID)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
