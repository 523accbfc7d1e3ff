package commands

import (
	"strings"

	"github.com/bloisdev/bloisdev-cli/internal/logging"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

const (
	commandLoggerPrefix  = "bloisdev.commands."
	defaultCommandFamily = "publish"
	fieldCommandFamily   = "command_family"
)

// CommandLogger names the logger for a command family, for example
// "bloisdev.commands.publish", and tags its entries with the family.
func CommandLogger(provider interfaces.LoggerProvider, family string) interfaces.Logger {
	family = strings.ToLower(strings.TrimSpace(family))
	if family == "" {
		family = defaultCommandFamily
	}
	return logging.WithFields(
		logging.ModuleLogger(provider, commandLoggerPrefix+family),
		map[string]any{fieldCommandFamily: family},
	)
}
