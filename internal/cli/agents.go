package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/itechmeat/start-vibe-project/internal/agent"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
)

// agentRow is one line of the agents listing.
type agentRow struct {
	Name      string `json:"name"`
	Display   string `json:"display_name"`
	SkillsDir string `json:"skills_dir"`
	AgentsDir string `json:"agents_dir"`
	Detected  bool   `json:"detected"`
}

// AddAgentsCommand adds the agents command to the root command.
func AddAgentsCommand(root *cobra.Command) {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List supported AI coding agents",
		Long: `List the agents accepted by --ai-tool together with the directories
their skills and agent files are written to. Agents whose configuration
directories exist in your home or the current directory are marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, _ := os.UserHomeDir()
			cwd, _ := os.Getwd()
			rows := listAgents(agent.Default(), home, cwd, filesystem.NewOS("").Exists)
			if jsonOut {
				return writeAgentsJSON(cmd.OutOrStdout(), rows)
			}
			return writeAgentsTable(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	root.AddCommand(cmd)
}

// listAgents returns every registered agent, flagging detected ones.
func listAgents(reg *agent.Registry, home, cwd string, exists func(string) bool) []agentRow {
	detected := make(map[string]bool)
	for _, a := range reg.Detected(home, cwd, exists) {
		detected[a.Name] = true
	}

	all := reg.All()
	rows := make([]agentRow, 0, len(all))
	for _, a := range all {
		rows = append(rows, agentRow{
			Name:      a.Name,
			Display:   a.DisplayName,
			SkillsDir: a.SkillsDir,
			AgentsDir: a.AgentsDir,
			Detected:  detected[a.Name],
		})
	}
	return rows
}

func writeAgentsJSON(w io.Writer, rows []agentRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeAgentsTable(w io.Writer, rows []agentRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tSKILLS DIR\tAGENTS DIR\t")
	for _, r := range rows {
		mark := ""
		if r.Detected {
			mark = "(detected)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Display, r.SkillsDir, r.AgentsDir, mark)
	}
	return tw.Flush()
}
