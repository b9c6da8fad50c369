package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dronesurvey/dss/internal/model"
)

// analyticsSummary mirrors the server's /api/analytics/summary answer.
type analyticsSummary struct {
	TotalSurveysDone   int64   `json:"total_surveys_done"`
	TotalFlightHours   float64 `json:"total_flight_hours"`
	TotalDistanceKm    float64 `json:"total_distance_km"`
	DataCollectedGb    float64 `json:"data_collected_gb"`
	DroneCount         int64   `json:"organization_wide_drone_count"`
	MissionsInProgress int64   `json:"missions_in_progress"`
}

func reportsCmd(client func() *Client) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List survey reports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var reports []*model.ReportDTO

			args := map[string]string{"limit": fmt.Sprint(limit)}
			if err := client().get(cmd.Context(), "/api/reports", args, &reports); err != nil {
				return err
			}

			for _, r := range reports {
				fmt.Printf("mission %-4d %-14s %s\n", r.MissionID, humanize.Time(r.GeneratedAt), r.Summary)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of reports")

	return cmd
}

func summaryCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show organization wide survey statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := new(analyticsSummary)

			if err := client().get(cmd.Context(), "/api/analytics/summary", nil, s); err != nil {
				return err
			}

			fmt.Printf("surveys done:        %s\n", humanize.Comma(s.TotalSurveysDone))
			fmt.Printf("missions in flight:  %d\n", s.MissionsInProgress)
			fmt.Printf("drones:              %d\n", s.DroneCount)
			fmt.Printf("flight hours:        %s\n", humanize.FormatFloat("#,###.#", s.TotalFlightHours))
			fmt.Printf("distance:            %s km\n", humanize.FormatFloat("#,###.#", s.TotalDistanceKm))
			fmt.Printf("data collected:      %s GB\n", humanize.FormatFloat("#,###.##", s.DataCollectedGb))

			return nil
		},
	}
}
