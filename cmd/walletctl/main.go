// walletctl manages login users of the wallet service.
//
// Usage:
//
//	walletctl adduser alice
//	walletctl verify alice
//	walletctl deluser alice
package main

import (
	"os"

	"github.com/AlexZinkM/lumen-wallet/internal/config"
)

func main() {
	cmd := newRootCmd(&app{prompt: config.PromptForPassword, out: os.Stdout})
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
