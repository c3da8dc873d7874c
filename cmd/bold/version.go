package main

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	progVersion = semver.Version{
		Major: 0,
		Minor: 3,
		Patch: 0,
	}

	// buildVersion is set with -ldflags "-X main.buildVersion=<sha>".
	buildVersion string
)

func version() semver.Version {
	v := progVersion
	if buildVersion != "" {
		v.Build = []string{buildVersion}
	}
	return v
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use: "version",

		Short: "Prints the version of the program.",

		Args: cobra.NoArgs,

		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "%s\n", version())
		},
	}
}
