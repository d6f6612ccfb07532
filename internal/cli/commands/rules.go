package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isomorph-labs/isomorph/pkg/semantic"
)

// ruleDump is the JSON shape of one rule.
type ruleDump struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the semantic rules",
		Long: `List every semantic rule with its identifier, name, and severity.
Rules disabled via configuration are marked. Pass a rule ID to show its
full description.`,
		Example: `  # List all rules
  isomorph rules

  # Show one rule
  isomorph rules SS-6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := RuntimeFrom(cmd)
			r := rt.Renderer

			if len(args) == 1 {
				info, ok := semantic.RuleByID(args[0])
				if !ok {
					return fmt.Errorf("unknown rule %q", args[0])
				}
				if r.IsJSON() {
					return r.JSON(toRuleDump(info, rt.Config.Rules.IsDisabled(info.ID)))
				}
				r.Header(fmt.Sprintf("%s (%s)", info.ID, info.Name))
				r.Info("severity: %s", info.Severity)
				if rt.Config.Rules.IsDisabled(info.ID) {
					r.Warning("disabled by configuration")
				}
				r.Info("%s", info.Description)
				return nil
			}

			if r.IsJSON() {
				dumps := make([]ruleDump, 0, len(semantic.Rules))
				for _, info := range semantic.Rules {
					dumps = append(dumps, toRuleDump(info, rt.Config.Rules.IsDisabled(info.ID)))
				}
				return r.JSON(dumps)
			}

			rows := make([][]string, 0, len(semantic.Rules))
			for _, info := range semantic.Rules {
				status := "on"
				if rt.Config.Rules.IsDisabled(info.ID) {
					status = "off"
				}
				rows = append(rows, []string{info.ID, info.Name, info.Severity.String(), status})
			}
			r.Table([]string{"ID", "Name", "Severity", "Enabled"}, rows)
			return nil
		},
	}
}

func toRuleDump(info semantic.RuleInfo, disabled bool) ruleDump {
	return ruleDump{
		ID:          info.ID,
		Name:        info.Name,
		Severity:    info.Severity.String(),
		Description: info.Description,
		Disabled:    disabled,
	}
}
