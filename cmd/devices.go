package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ArnaudCalmettes/equalizer/device"
)

// devicesCmd represents the devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available platforms and devices.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), device.ListPlatformsDevices())
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
