package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dronesurvey/dss/internal/missions"
	"github.com/dronesurvey/dss/internal/model"
)

func missionCmd(client func() *Client) *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "missions",
		Aliases: []string{"mission", "m"},
		Short:   "List and control survey missions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var list []*model.MissionDTO

			args := map[string]string{"limit": strconv.Itoa(limit)}
			if status != "" {
				args["status"] = status
			}

			if err := client().get(cmd.Context(), "/api/missions", args, &list); err != nil {
				return err
			}

			for _, m := range list {
				fmt.Printf("%4d %-24s %s %-10s %s\n", m.ID, m.Name, missionStatus(m.Status), m.FlightPattern, ago(&m.CreatedAt))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "show only missions in this status")
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "number of missions")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show mission details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := new(model.MissionDTO)

			if err := client().get(cmd.Context(), "/api/missions/"+args[0], nil, m); err != nil {
				return err
			}

			printMission(m)

			return nil
		},
	})

	for _, a := range []missions.Action{missions.ActionStart, missions.ActionPause, missions.ActionResume, missions.ActionAbort, missions.ActionComplete} {
		cmd.AddCommand(controlCmd(client, a))
	}

	cmd.AddCommand(watchCmd(client))

	return cmd
}

func controlCmd(client func() *Client, action missions.Action) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <id>",
		Short: fmt.Sprintf("Send the %s command to a mission", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseUint(args[0], 10, 32); err != nil {
				return fmt.Errorf("invalid mission id %s", args[0])
			}

			m := new(model.MissionDTO)
			req := map[string]string{"action": string(action)}

			if err := client().post(cmd.Context(), "/api/missions/"+args[0]+"/control", req, m); err != nil {
				return err
			}

			fmt.Printf("mission %d is %s\n", m.ID, missionStatus(m.Status))

			return nil
		},
	}
}

func printMission(m *model.MissionDTO) {
	bold := color.New(color.Bold)

	fmt.Printf("%s %s\n", bold.Sprintf("Mission %d:", m.ID), m.Name)
	fmt.Printf("  status:    %s\n", missionStatus(m.Status))
	fmt.Printf("  pattern:   %s at %sm, overlap %d%%\n", m.FlightPattern, humanize.Ftoa(m.FlightAltitude), m.OverlapPercentage)
	fmt.Printf("  created:   %s\n", ago(&m.CreatedAt))
	fmt.Printf("  started:   %s\n", ago(m.StartedAt))
	fmt.Printf("  completed: %s\n", ago(m.CompletedAt))

	if m.DroneID != nil {
		fmt.Printf("  drone:     %d\n", *m.DroneID)
	}

	fmt.Printf("  waypoints: %d\n", len(m.Waypoints))

	if m.Report != nil {
		fmt.Printf("  report:    %s\n", m.Report.Summary)
	}
}

func missionStatus(s model.MissionStatus) string {
	var c *color.Color

	switch s {
	case model.StatusInProgress:
		c = color.New(color.FgCyan)
	case model.StatusPaused:
		c = color.New(color.FgYellow)
	case model.StatusCompleted:
		c = color.New(color.FgGreen)
	case model.StatusAborted:
		c = color.New(color.FgRed)
	default:
		c = color.New(color.Reset)
	}

	return c.Sprintf("%-11s", s)
}

func ago(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}

	return humanize.Time(*t)
}
