package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dronesurvey/dss/pkg/request"
)

var (
	gitRevision = "unknown"
	gitBranch   = "unknown"
)

type Client struct {
	server string
	cl     *http.Client
	logger *slog.Logger
}

func NewClient(server string, debug bool) *Client {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	return &Client{
		server: strings.TrimRight(server, "/"),
		cl:     &http.Client{Timeout: time.Second * 10},
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).With("logger", "client"),
	}
}

func (c *Client) get(ctx context.Context, path string, args map[string]string, res any) error {
	return request.New(c.cl, c.logger).URL(c.server + path).Args(args).GetJSON(ctx, res)
}

func (c *Client) post(ctx context.Context, path string, body any, res any) error {
	return request.New(c.cl, c.logger).URL(c.server + path).Post().JSON(body).GetJSON(ctx, res)
}

func main() {
	var (
		server string
		debug  bool
		client *Client
	)

	defaultServer := os.Getenv("DSS_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8000"
	}

	rootCmd := &cobra.Command{
		Use:     "dssctl",
		Short:   "Command line client for the drone survey server",
		Version: fmt.Sprintf("%s %s", gitRevision, gitBranch),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			client = NewClient(server, debug)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", defaultServer, "server url")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log requests")

	get := func() *Client { return client }

	rootCmd.AddCommand(dronesCmd(get))
	rootCmd.AddCommand(missionCmd(get))
	rootCmd.AddCommand(reportsCmd(get))
	rootCmd.AddCommand(summaryCmd(get))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
