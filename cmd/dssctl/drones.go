package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dronesurvey/dss/internal/model"
)

func dronesCmd(client func() *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drones",
		Short: "List drones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var drones []*model.DroneDTO

			if err := client().get(cmd.Context(), "/api/drones", nil, &drones); err != nil {
				return err
			}

			for _, d := range drones {
				fmt.Printf("%4d %-20s %-12s %s %3d%%\n", d.ID, d.Name, d.Model, droneStatus(d.Status), d.BatteryLevel)
			}

			return nil
		},
	}

	var (
		droneModel string
		battery    int
	)

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new drone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"name": args[0], "model": droneModel, "battery_level": battery}

			d := new(model.DroneDTO)
			if err := client().post(cmd.Context(), "/api/drones", req, d); err != nil {
				return err
			}

			fmt.Printf("drone %s created with id %d\n", d.Name, d.ID)

			return nil
		},
	}

	add.Flags().StringVar(&droneModel, "model", "", "drone model")
	add.Flags().IntVar(&battery, "battery", 100, "battery level, percent")

	cmd.AddCommand(add)

	return cmd
}

func droneStatus(s model.DroneStatus) string {
	c := color.New(color.FgGreen)

	switch s {
	case model.DroneInMission:
		c = color.New(color.FgCyan)
	case model.DroneMaintenance:
		c = color.New(color.FgYellow)
	}

	return c.Sprintf("%-12s", s)
}
