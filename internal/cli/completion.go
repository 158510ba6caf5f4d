package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for knaptrace.

The script is written to stdout. Load it directly into the current
shell session, or install it where your shell picks it up:

  # bash, current session
  source <(knaptrace completion bash)

  # bash, installed (Linux)
  knaptrace completion bash > /etc/bash_completion.d/knaptrace

  # zsh, installed
  knaptrace completion zsh > "${fpath[1]}/_knaptrace"

  # fish, installed
  knaptrace completion fish > ~/.config/fish/completions/knaptrace.fish

  # powershell, current session
  knaptrace completion powershell | Out-String | Invoke-Expression

Zsh needs completion enabled first: add "autoload -U compinit; compinit"
to ~/.zshrc and start a new shell.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
