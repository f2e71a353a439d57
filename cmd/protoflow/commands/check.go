package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TalalThabet/protoflow/blocks"
)

// NewCheckCommand builds `check <paths...>`. Lacking a textual system
// description language, this reads each file as a newline-separated list
// of standard-library block names and reports any name the registry does
// not recognize — the closest honest analogue of "check the syntax of a
// Protoflow system" this Go rendition can offer.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check that a file's listed block names are all recognized",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"/dev/stdin"}
			}
			for _, path := range paths {
				if err := checkPath(path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func checkPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if _, ok := blocks.Lookup(name); !ok {
			return fmt.Errorf("protoflow: %s:%d: unknown block %q", path, line, name)
		}
	}
	return scanner.Err()
}
