package cmd

import (
	"fmt"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend and dependency availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		ok := color.New(color.FgGreen).SprintFunc()
		bad := color.New(color.FgRed).SprintFunc()
		mark := func(up bool) string {
			if up {
				return ok("ok")
			}
			return bad("unavailable")
		}

		fmt.Println("Backends:")
		for _, backend := range appInstance.Backends {
			fmt.Printf("  %-12s %s\n", backend.Name(), mark(backend.Available()))
		}
		fmt.Printf("  %-12s %s\n", "heuristic", ok("ok"))

		fmt.Println("External tools:")
		_, err = exec.LookPath("pdftotext")
		fmt.Printf("  %-12s %s\n", "pdftotext", mark(err == nil))

		fmt.Println("History:")
		fmt.Printf("  %-12s %s\n", "database", mark(appInstance.History != nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
