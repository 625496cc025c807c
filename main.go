// feedtime schedules feedings for a networked pet feeder.
package main

import (
	"os"

	"github.com/manav03panchal/feedtime/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
