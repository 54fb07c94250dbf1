// Package main provides a simple CLI client for chatting with the service.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
	"github.com/DahliaNoir71/chatbot-horror-movies/pkg/client"
)

func main() {
	addr := flag.String("addr", "http://localhost:8000", "Service address")
	username := flag.String("username", "horrorbot", "Username")
	password := flag.String("password", "scarymovies", "Password")
	margin := flag.Duration("renew-margin", 30*time.Second, "Renew the token when less validity remains")
	flag.Parse()

	log.SetFlags(log.Ltime)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := client.NewClient(*addr, *username, *password)

	fmt.Printf("Authenticating against %s...\n", *addr)
	cred, err := c.Authenticate(ctx)
	if err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}
	fmt.Printf("Authenticated as %s (token valid until %s)\n", cred.Subject, cred.ExpiresAt.Format(time.Kitchen))

	// Keep the credential fresh in the background.
	refresher := client.NewRefresher(c.Credentials(), c.Authenticate, time.Second, *margin)
	go refresher.Run(ctx)

	fmt.Println("\nType a message and press Enter to send.")
	fmt.Println("Commands: /reset to clear history, /quit to exit")
	fmt.Println()

	var sessionID string
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "/quit":
			fmt.Println("Bye!")
			return
		case "/reset":
			if sessionID == "" {
				fmt.Println("No session yet.")
				continue
			}
			if err := c.ResetSession(ctx, sessionID); err != nil {
				log.Printf("Reset failed: %v", err)
				continue
			}
			fmt.Println("Session history cleared.")
			continue
		}

		events, err := c.ChatStream(ctx, sessionID, input)
		if err != nil {
			log.Printf("Request failed: %v", err)
			continue
		}

		terminal := false
		for ev := range events {
			switch ev.Type {
			case domain.StreamEventChunk:
				fmt.Print(ev.Content)
			case domain.StreamEventDone:
				sessionID = ev.SessionID
				fmt.Printf("\n[intent: %s]\n", ev.Intent)
				terminal = true
			case domain.StreamEventError:
				fmt.Printf("\n[error: %s]\n", ev.Content)
				terminal = true
			}
		}
		if !terminal {
			fmt.Println("\n[stream interrupted]")
		}
	}
}
