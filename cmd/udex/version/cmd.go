// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package version

import (
	"fmt"

	"github.com/spf13/cobra"

	nodeversion "github.com/luxfi/version"
)

// Current is the version of the udex node.
const Current = "1.0.0"

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints out the version",
		RunE:  versionFunc,
	}
}

func versionFunc(c *cobra.Command, _ []string) error {
	_, err := fmt.Fprintln(c.OutOrStdout(), String())
	return err
}

// String describes this build and the node release it was built against.
func String() string {
	return fmt.Sprintf("udex/%s [node=%s]", Current, nodeversion.Current)
}
