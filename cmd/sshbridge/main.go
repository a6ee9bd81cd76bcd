// Command sshbridge is a small SFTP client over the bridge, mainly a
// development and demonstration tool for the library.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
