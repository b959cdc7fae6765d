package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// confirmWrite asks before overwriting an existing file. New files never
// prompt; --dangerous-inline skips the prompt entirely.
func confirmWrite(cmd *cobra.Command, dangerousInline bool, target string) error {
	if dangerousInline {
		return nil
	}

	info, err := os.Stat(target)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("check write target %s: %w", target, err)
	case info.IsDir():
		return fmt.Errorf("write target is a directory: %s", target)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "About to overwrite: %s\nProceed? [y/N]: ", target)

	input, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && len(input) == 0 {
		return fmt.Errorf("overwrite of %s not confirmed (use --dangerous-inline to skip prompts)", target)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return nil
	}
	return fmt.Errorf("overwrite of %s declined", target)
}
