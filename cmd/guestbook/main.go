package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/denismitr/guestbook"
	"github.com/urfave/cli/v2"
)

type runner func(cfg guestbook.Config) error

func newApp(logger *log.Logger, serve runner) *cli.App {
	return &cli.App{
		Name:  "guestbook",
		Usage: "serve the guestbook pages and store submitted messages",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":3000", Usage: "listen address"},
			&cli.StringFlag{Name: "root", Value: "web", Usage: "application root with pages, templates and static files"},
			&cli.StringFlag{Name: "data", Value: "storage/data.json", Usage: "data file, relative to root"},
			&cli.StringFlag{Name: "templates", Value: "templates", Usage: "templates directory, relative to root"},
			&cli.BoolFlag{Name: "log", Usage: "log every request and saved record"},
			&cli.BoolFlag{Name: "no-cache", Usage: "read static files from disk on every request"},
		},
		Action: func(cCtx *cli.Context) error {
			return serve(guestbook.Config{
				Addr:             cCtx.String("addr"),
				Root:             cCtx.String("root"),
				DataFile:         cCtx.String("data"),
				TemplatesDir:     cCtx.String("templates"),
				Log:              cCtx.Bool("log"),
				DisableFileCache: cCtx.Bool("no-cache"),
				Logger:           logger,
			})
		},
	}
}

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	if err := newApp(logger, run).Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

func run(cfg guestbook.Config) (err error) {
	app, closer, err := guestbook.New(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if cErr := closer(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.ListenAndServe(ctx)
}
