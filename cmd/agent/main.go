// Package main provides the entry point for the opsaix agent. The agent
// ingests operational text (logs, alerts, free-form descriptions), asks
// an LLM whether it describes an incident, and builds structured
// incident records from positive detections.
package main

import (
	"os"

	"opsaix/cmd/agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
