package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/spf13/cobra"

	"github.com/dronesurvey/dss/internal/model"
)

func watchCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <id>",
		Short: "Print mission status changes as they happen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return client().watch(ctx, args[0], func(m *model.MissionDTO) {
				fmt.Printf("%s mission %d %s\n", time.Now().Format(time.TimeOnly), m.ID, missionStatus(m.Status))
			})
		},
	}
}

func wsURL(server, path string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	u.Path = strings.TrimRight(u.Path, "/") + path

	return u.String(), nil
}

// watch reads mission snapshots until ctx is done or the server closes the connection.
func (c *Client) watch(ctx context.Context, id string, cb func(m *model.MissionDTO)) error {
	addr, err := wsURL(c.server, "/ws/missions/"+id)
	if err != nil {
		return err
	}

	conn, res, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		if res != nil {
			return fmt.Errorf("%s: %s", addr, res.Status)
		}

		return err
	}

	c.logger.Debug("connected to " + addr)

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		m := new(model.MissionDTO)

		if err := conn.ReadJSON(m); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}

			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return fmt.Errorf("closed by server: %d %s", ce.Code, ce.Text)
			}

			return err
		}

		cb(m)
	}
}
