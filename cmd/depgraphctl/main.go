// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command depgraphctl is the CLI for the depgraph API server.
//
// It queries connected components, manages project specs, and inspects
// graph state over the server's HTTP API.
//
// # Usage
//
//	depgraphctl component core api --sub-jobs
//	depgraphctl projects list
//	depgraphctl projects discover --root ~/src/monorepo
//	depgraphctl graph stats
//	depgraphctl health
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
