package organizer

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"tidy/internal/llm"
	"tidy/internal/util"
)

// WriteSummary renders the per-category plan summary table plus skip counts.
func WriteSummary(w io.Writer, plan *Plan) {
	counts := make(map[llm.Category]int)
	skipped := 0
	for _, rec := range plan.Records {
		if rec.SkipReason != "" {
			skipped++
			continue
		}
		counts[rec.Category]++
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Files"})
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	for _, cat := range llm.AllCategories {
		if counts[cat] > 0 {
			table.Append([]string{string(cat), strconv.Itoa(counts[cat])})
		}
	}
	table.Render()

	fmt.Fprintf(w, "planned: %d, skipped: %d\n", len(plan.Records)-skipped, skipped)
}

// WritePlanDetail renders the full plan, one row per active record.
func WritePlanDetail(w io.Writer, plan *Plan) {
	records := plan.Active()
	sort.Slice(records, func(i, j int) bool { return records[i].Index < records[j].Index })

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Original", "New Name", "Category"})
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	for _, rec := range records {
		table.Append([]string{
			strconv.Itoa(rec.Index),
			util.Shorten(rec.Name, 40),
			util.Shorten(rec.NewName, 40),
			string(rec.Category),
		})
	}
	table.Render()
}
