package publishcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const publishFileMessageType = "bloisdev.publish.file"

// PublishFileCommand inserts one Markdown file as a post.
type PublishFileCommand struct {
	// Filename is the path of the file to publish, relative or absolute.
	Filename string `json:"filename"`
	// Title is stored verbatim in the title column.
	Title string `json:"title"`
	// DryRun rolls the insert back after reading the returned values.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (PublishFileCommand) Type() string { return publishFileMessageType }

// Validate ensures a filename and a non-blank title are present.
func (cmd PublishFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Filename, validation.Required),
		validation.Field(&cmd.Title, validation.Required, validation.By(notBlank("bloisdev.publish.title_blank", "cannot be blank"))),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
