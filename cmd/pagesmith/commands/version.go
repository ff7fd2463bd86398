package commands

import (
	"fmt"

	"git.home.luguber.info/inful/pagesmith/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Println(version.String())
	return nil
}
