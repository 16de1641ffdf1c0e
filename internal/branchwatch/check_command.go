package branchwatch

import (
	"github.com/spf13/cobra"
)

const (
	checkCommandUseConstant              = "check"
	checkCommandShortDescriptionConstant = "Check the workspace branch once"
	checkCommandLongDescriptionConstant  = "check reads the current branch of the first workspace folder and, when it is neither main nor master, offers to switch back. Folders that are not git repositories are skipped silently."
	checkCommandExampleConstant          = "branch-notifier check --config ~/.config/branch-notifier/config.yaml"
)

// CheckCommandBuilder assembles the check command.
type CheckCommandBuilder struct {
	CommandDependencies
}

// Build constructs the check command.
func (builder *CheckCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:     checkCommandUseConstant,
		Short:   checkCommandShortDescriptionConstant,
		Long:    checkCommandLongDescriptionConstant,
		Example: checkCommandExampleConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.run,
	}, nil
}

func (builder *CheckCommandBuilder) run(command *cobra.Command, _ []string) error {
	logger := builder.resolveLogger()
	service, serviceError := builder.buildService(command, logger)
	if serviceError != nil {
		return serviceError
	}

	ReportCheckResult(logger, service.CheckCurrentBranch(commandContext(command)))
	return nil
}
