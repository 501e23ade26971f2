package vault

import (
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/spf13/cobra"
)

const wordsFlag = "words"

func New() *cobra.Command {
	return command.NewSubcommandGroup("vault",
		newCreate(),
		newInspect(),
		newUnlock(),
	)
}
