// Package gcal imports fixed-time events from Google Calendar as external
// commitments. Auth follows the usual desktop-app flow: client secrets and
// the cached token both live in the app config directory.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

const (
	credentialsFile = "credentials.json"
	tokenFile       = "token.json"
	callbackPort    = "7391"
)

// Importer reads events from a single calendar.
type Importer struct {
	srv        *calendar.Service
	calendarID string
}

// NewImporter builds an authenticated importer for the given calendar id
// ("primary" for the user's default). configDir holds credentials.json and
// the cached token.
func NewImporter(ctx context.Context, configDir, calendarID string) (*Importer, error) {
	cfg, err := oauthConfig(configDir)
	if err != nil {
		return nil, err
	}

	tokenPath := filepath.Join(configDir, tokenFile)
	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		tok, err = tokenFromWeb(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to build calendar service: %w", err)
	}
	return &Importer{srv: srv, calendarID: calendarID}, nil
}

// Commitments lists timed events in [weekStart, weekEnd) as external
// commitments. All-day events have no clock times and are skipped.
func (im *Importer) Commitments(weekStart, weekEnd time.Time) ([]models.ExternalCommitment, error) {
	events, err := im.srv.Events.List(im.calendarID).
		TimeMin(weekStart.Format(time.RFC3339)).
		TimeMax(weekEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list calendar events: %w", err)
	}

	var commitments []models.ExternalCommitment
	for _, ev := range events.Items {
		if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, ev.End.DateTime)
		if err != nil {
			continue
		}

		title := ev.Summary
		if title == "" {
			title = "Busy"
		}
		commitments = append(commitments, models.ExternalCommitment{
			ID:    uuid.NewString(),
			Title: title,
			Date:  timeutil.DateKey(start),
			Start: start.Format(timeutil.ClockLayout),
			End:   end.Format(timeutil.ClockLayout),
		})
	}
	return commitments, nil
}

func oauthConfig(configDir string) (*oauth2.Config, error) {
	secrets := filepath.Join(configDir, credentialsFile)
	b, err := os.ReadFile(secrets)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", secrets, err)
	}
	cfg, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	cfg.RedirectURL = "http://localhost:" + callbackPort + "/oauth2callback"
	return cfg, nil
}

// tokenFromWeb runs the authorization code flow with a local callback
// server: the user opens the printed URL and the redirect delivers the code.
func tokenFromWeb(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", ":"+callbackPort)
	if err != nil {
		return nil, fmt.Errorf("unable to listen on port %s: %w", callbackPort, err)
	}
	defer listener.Close()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code missing", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code missing from redirect")
				return
			}
			fmt.Fprint(w, "Authentication successful. You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go server.Serve(listener)
	defer server.Shutdown(ctx)

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following URL in your browser to authorize calendar access:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authorization timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("unable to decode token file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token at %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
