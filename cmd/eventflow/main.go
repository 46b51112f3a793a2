package main

import (
	"os"
	_ "time/tzdata" // export timezones on hosts without zoneinfo
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
