package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"netcentric/achistory/pkg/history"
)

// completionScripts writes the completion script for each supported shell.
var completionScripts = map[string]func(w io.Writer) error{
	"bash": rootCmd.GenBashCompletion,
	"zsh":  rootCmd.GenZshCompletion,
	"fish": func(w io.Writer) error {
		return rootCmd.GenFishCompletion(w, true)
	},
	"powershell": rootCmd.GenPowerShellCompletionWithDesc,
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for achistory.

Besides commands and flags, the scripts complete history entry names for
"achistory show" by reading the configured repository, so --config and
--backend given on the command line are honoured while completing.

To load completions:

Bash:
  $ source <(achistory completion bash)
  # To load permanently:
  $ achistory completion bash > /etc/bash_completion.d/achistory

Zsh:
  $ achistory completion zsh > "${fpath[1]}/_achistory"
  $ compinit

Fish:
  $ achistory completion fish > ~/.config/fish/completions/achistory.fish

PowerShell:
  PS> achistory completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, ok := completionScripts[args[0]]
		if !ok {
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
		return gen(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeEntryNames completes the NAME argument of show with the stored
// history entries, newest first. Absolute input completes full paths.
func completeEntryNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		cobra.CompErrorln(err.Error())
		return nil, cobra.ShellCompDirectiveError
	}
	defer a.Close(ctx)

	nodes, err := history.HistoryNodes(ctx, a.session)
	if err != nil {
		cobra.CompErrorln(err.Error())
		return nil, cobra.ShellCompDirectiveError
	}

	absolute := strings.HasPrefix(toComplete, "/")
	var names []string
	for _, node := range nodes {
		name := node.Name
		if absolute {
			name = node.Path
		}
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveKeepOrder
}
