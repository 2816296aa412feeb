package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"nostrcal/config"
	"nostrcal/internal/adapters/location"
	"nostrcal/internal/adapters/nostrsrc"
	"nostrcal/internal/domain"
	"nostrcal/internal/services"
)

func main() {
	app := &cli.App{
		Name:  "nostrcal",
		Usage: "Browse NIP-52 calendar events published to Nostr relays.",
		Commands: []*cli.Command{
			listCommand(),
			mineCommand(),
			nearCommand(),
			watchCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List upcoming calendar events, soonest first.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum events to request per relay."},
		},
		Action: func(c *cli.Context) error {
			svc, logger, cleanup, err := buildService()
			if err != nil {
				return err
			}
			defer cleanup()
			events, err := svc.FetchCalendarEvents(c.Context, domain.FetchOptions{
				Limit: c.Int("limit"),
				Mode:  domain.RankProximity,
			})
			if err != nil {
				return fmt.Errorf("fetch events: %w", err)
			}
			logger.Info("fetched calendar events", "count", len(events))
			printEvents(svc, events)
			return nil
		},
	}
}

func mineCommand() *cli.Command {
	return &cli.Command{
		Name:  "mine",
		Usage: "List one organizer's events, full history, in calendar order.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "author", Usage: "Organizer pubkey (hex).", Required: true},
		},
		Action: func(c *cli.Context) error {
			svc, logger, cleanup, err := buildService()
			if err != nil {
				return err
			}
			defer cleanup()
			events, err := svc.FetchCalendarEvents(c.Context, domain.FetchOptions{
				Author:      c.String("author"),
				Mode:        domain.RankChronological,
				IncludePast: true,
			})
			if err != nil {
				return fmt.Errorf("fetch events: %w", err)
			}
			logger.Info("fetched organizer events", "count", len(events))
			printEvents(svc, events)
			return nil
		},
	}
}

func nearCommand() *cli.Command {
	return &cli.Command{
		Name:  "near",
		Usage: "List upcoming events ranked by distance from a coordinate.",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "lat", Usage: "Origin latitude.", Required: true},
			&cli.Float64Flag{Name: "lng", Usage: "Origin longitude.", Required: true},
		},
		Action: func(c *cli.Context) error {
			svc, logger, cleanup, err := buildService()
			if err != nil {
				return err
			}
			defer cleanup()

			locator := location.NewMemoized(location.Static{Coord: domain.Coordinate{
				Latitude:  c.Float64("lat"),
				Longitude: c.Float64("lng"),
			}})
			origin, err := locator.CurrentLocation(c.Context)
			if err != nil {
				return fmt.Errorf("resolve origin: %w", err)
			}

			events, err := svc.FetchCalendarEvents(c.Context, domain.FetchOptions{Mode: domain.RankProximity})
			if err != nil {
				return fmt.Errorf("fetch events: %w", err)
			}
			located := services.RankByDistance(events, origin)
			logger.Info("ranked events by distance", "resolved", len(located), "fetched", len(events))
			for _, le := range located {
				fmt.Printf("%-10s %s  %s — %s\n",
					services.FormatDistance(le.DistanceKm),
					formatEventTime(&le.Event),
					le.Event.Title,
					svc.OrganizerName(le.Event.AuthorKey))
			}
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Periodically refresh and print upcoming events until interrupted.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "interval", Value: 300, Usage: "Refresh interval in seconds."},
		},
		Action: func(c *cli.Context) error {
			svc, logger, cleanup, err := buildService()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			refresh := func() {
				events, err := svc.FetchCalendarEvents(ctx, domain.FetchOptions{Mode: domain.RankProximity})
				if err != nil {
					logger.Warn("refresh failed", "error", err)
					return
				}
				logger.Info("refreshed calendar events", "count", len(events))
				printEvents(svc, events)
			}
			refresh()

			cr := cron.New()
			if _, err := cr.AddFunc(fmt.Sprintf("@every %ds", c.Int("interval")), refresh); err != nil {
				return fmt.Errorf("schedule refresh: %w", err)
			}
			cr.Start()
			<-ctx.Done()
			<-cr.Stop().Done()
			return nil
		},
	}
}

// buildService wires the relay adapter, profile resolver, and calendar
// service from the environment config. cleanup releases the relay pool's
// connection context.
func buildService() (domain.CalendarService, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()

	poolCtx, cancel := context.WithCancel(context.Background())
	client := nostrsrc.New(poolCtx, cfg.Relays, logger)
	resolver := services.NewProfileResolver(client, domain.NewProfileCache(), logger, cfg.ProfileBatchSize)
	svc := services.NewCalendarService(client, resolver, logger, cfg.FetchTimeout, cfg.EventLimit)
	return svc, logger, cancel, nil
}

func printEvents(svc domain.CalendarService, events []domain.CalendarEvent) {
	for _, ev := range events {
		line := fmt.Sprintf("%s  %s — %s", formatEventTime(&ev), ev.Title, svc.OrganizerName(ev.AuthorKey))
		if ev.Location != "" {
			line += " @ " + ev.Location
		}
		fmt.Println(line)
	}
}

func formatEventTime(ev *domain.CalendarEvent) string {
	t := ev.EventTime()
	if t.UnixMilli() == 0 {
		return "unscheduled"
	}
	if ev.Kind == domain.KindDateBased {
		return t.Format("2006-01-02")
	}
	return t.Local().Format(time.RFC822)
}
