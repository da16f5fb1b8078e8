package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hazadus/leakplayer/internal/remote"
)

// createRemoteCommand создает команду remote
func (app *Application) createRemoteCommand() *cobra.Command {
	commands := lo.Map(remote.Commands(), func(c remote.Command, _ int) string {
		return string(c)
	})

	return &cobra.Command{
		Use:   "remote [command] [resume]",
		Short: "Send a control command to a running player",
		Long: fmt.Sprintf(`Send a transport or interruption command to the player running in another terminal.
Commands: %s. Add "resume" after interrupt-end to continue playback.`, strings.Join(commands, ", ")),
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: commands,
		RunE: func(_ *cobra.Command, args []string) error {
			ev, err := remote.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := remote.Send(app.Config.ControlFile, ev); err != nil {
				return fmt.Errorf("ошибка отправки команды: %w", err)
			}
			fmt.Printf("📡 Команда отправлена: %s\n", ev)
			return nil
		},
	}
}
