package branchwatch

import (
	"errors"

	"github.com/spf13/cobra"
)

const (
	switchCommandUseConstant              = "switch"
	switchCommandShortDescriptionConstant = "Switch the workspace back to main"
	switchCommandLongDescriptionConstant  = "switch checks out main in the first workspace folder, falling back to master when main cannot be checked out."
	noWorkspaceMessageConstant            = "no workspace folder configured"
	switchFailedErrorMessageConstant      = "unable to switch to main or master"
)

// ErrNoWorkspace indicates there is no workspace folder to operate on.
var ErrNoWorkspace = errors.New(noWorkspaceMessageConstant)

// ErrSwitchFailed indicates both checkouts failed.
var ErrSwitchFailed = errors.New(switchFailedErrorMessageConstant)

// SwitchCommandBuilder assembles the switch command.
type SwitchCommandBuilder struct {
	CommandDependencies
}

// Build constructs the switch command.
func (builder *SwitchCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   switchCommandUseConstant,
		Short: switchCommandShortDescriptionConstant,
		Long:  switchCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}, nil
}

func (builder *SwitchCommandBuilder) run(command *cobra.Command, _ []string) error {
	logger := builder.resolveLogger()
	service, serviceError := builder.buildService(command, logger)
	if serviceError != nil {
		return serviceError
	}

	workspacePath, workspaceAvailable := service.ActiveWorkspace()
	if !workspaceAvailable {
		return ErrNoWorkspace
	}

	switchResult := service.SwitchToMainBranch(commandContext(command), workspacePath)
	ReportSwitchResult(logger, switchResult)
	if switchResult.Outcome != SwitchOutcomeSwitched {
		return ErrSwitchFailed
	}
	return nil
}
