package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List registered metadata extractors",
	Long: `Shows the extractor registry in dispatch order. The first extractor that
claims a file handles it; the generic extractor at the end claims everything.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"#", "Extractor", "Claims"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		samples := []string{
			"a.txt", "a.md", "a.html", "a.csv", "a.go", "a.pdf", "a.png", "a.jpg", "a.bin",
		}
		for i, ext := range appInstance.Registry.Extractors() {
			var claims []string
			for _, sample := range samples {
				if ext.Supports(sample) {
					claims = append(claims, strings.TrimPrefix(sample, "a."))
				}
			}
			claimed := strings.Join(claims, ", ")
			if len(claims) == len(samples) {
				claimed = "everything else"
			}
			table.Append([]string{strconv.Itoa(i + 1), ext.Name(), claimed})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}
