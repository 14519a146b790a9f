// Command goldenseed generates, analyzes and monitors golden-ratio byte
// streams.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	cmd, err := newRootCommand()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := cmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
