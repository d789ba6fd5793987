package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

var (
	networkHeader     = color.New(color.BgCyan, color.FgBlack)
	networkHeaderBold = color.New(color.BgCyan, color.FgBlack, color.Bold)
	contractStyle     = color.New(color.FgGreen, color.Bold)
	timestampStyle    = color.New(color.Faint)
)

// TableData is a list of rendered rows
type TableData [][]string

// DeploymentsRenderer renders deployment records grouped by network
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders deployments with one table per network
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byNetwork := lo.GroupBy(result.Deployments, func(dep *models.Deployment) string { return dep.Network })
	networks := lo.Keys(byNetwork)
	sort.Strings(networks)

	tables := make(map[string]TableData, len(networks))
	for _, network := range networks {
		tables[network] = buildDeploymentTable(byNetwork[network])
	}
	widths := calculateTableColumnWidths(lo.Values(tables))

	for i, network := range networks {
		deployments := byNetwork[network]
		treePrefix, continuationPrefix := "├─", "│ "
		if i == len(networks)-1 {
			treePrefix, continuationPrefix = "└─", "  "
		}

		fmt.Fprintf(r.out, "%s%s%s\n",
			treePrefix,
			networkHeader.Sprintf(" ⛓ %-10s ", "network:"),
			networkHeaderBold.Sprintf("%-30s", fmt.Sprintf("%s (%d)", network, deployments[0].ChainID)))
		fmt.Fprint(r.out, renderTableWithWidths(tables[network], widths, continuationPrefix))
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, continuationPrefix)
	}

	r.renderSummary(result.Summary)
	return nil
}

func (r *DeploymentsRenderer) renderSummary(summary usecase.DeploymentSummary) {
	statuses := lo.Keys(summary.ByStatus)
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	parts := lo.Map(statuses, func(status models.VerificationStatus, _ int) string {
		return fmt.Sprintf("%d %s", summary.ByStatus[status], strings.ToLower(string(status)))
	})
	fmt.Fprintf(r.out, "Total: %d deployment(s) on %d network(s)", summary.Total, len(summary.ByNetwork))
	if len(parts) > 0 {
		fmt.Fprintf(r.out, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(r.out)
}

func buildDeploymentTable(deployments []*models.Deployment) TableData {
	return lo.Map(deployments, func(dep *models.Deployment, _ int) []string {
		return []string{
			contractStyle.Sprint(dep.ContractName),
			addressStyle.Sprint(dep.Address),
			FormatVerificationStatus(dep.Verification.Status),
			timestampStyle.Sprint(dep.CreatedAt.Format("2006-01-02 15:04:05")),
		}
	})
}

// renderTableWithWidths renders a borderless table with fixed column widths
func renderTableWithWidths(tableData TableData, columnWidths []int, continuationPrefix string) string {
	if len(tableData) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	colConfigs := make([]table.ColumnConfig, len(columnWidths))
	for i, width := range columnWidths {
		if i == 0 {
			width += len([]rune(continuationPrefix))
		}
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
			WidthMax: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	for _, row := range tableData {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			if i == 0 {
				cell = continuationPrefix + cell
			}
			tableRow[i] = cell
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

// calculateTableColumnWidths returns the widest visible cell per column across all tables
func calculateTableColumnWidths(tables []TableData) []int {
	var widths []int
	for _, rows := range tables {
		for _, row := range rows {
			for col, cell := range row {
				if col >= len(widths) {
					widths = append(widths, make([]int, col-len(widths)+1)...)
				}
				widths[col] = max(widths[col], text.RuneWidthWithoutEscSequences(cell))
			}
		}
	}
	return widths
}
