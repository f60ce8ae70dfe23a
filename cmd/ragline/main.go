// Command ragline is a retrieval-augmented question answering tool over a
// local document knowledge base.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
