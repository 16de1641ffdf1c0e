package branchwatch

import "go.uber.org/zap"

const (
	noWorkspaceLogMessageConstant     = "no workspace folder to check"
	notRepositoryLogMessageConstant   = "workspace folder is not a git repository"
	queryFailedLogMessageConstant     = "unable to determine current branch"
	onMainBranchLogMessageConstant    = "workspace is on a main branch"
	offMainBranchLogMessageConstant   = "workspace is off the main branch"
	promptFailedLogMessageConstant    = "branch warning could not be shown"
	switchSucceededLogMessageConstant = "switched workspace to main branch"
	switchFailedLogMessageConstant    = "unable to switch workspace to main or master"
	logFieldOutcomeConstant           = "outcome"
	logFieldWorkspaceConstant         = "workspace"
	logFieldBranchConstant            = "branch"
	logFieldSelectedActionConstant    = "selected_action"
	logFieldAttemptErrorsConstant     = "attempt_errors"
)

// ReportCheckResult logs a check result. Expected conditions go to debug, failures to warn.
func ReportCheckResult(logger *zap.Logger, result CheckResult) {
	if logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String(logFieldOutcomeConstant, string(result.Outcome)),
		zap.String(logFieldWorkspaceConstant, result.WorkspacePath),
	}

	switch result.Outcome {
	case CheckOutcomeNoWorkspace:
		logger.Debug(noWorkspaceLogMessageConstant, fields...)
	case CheckOutcomeNotRepository:
		logger.Debug(notRepositoryLogMessageConstant, fields...)
	case CheckOutcomeQueryFailed:
		logger.Warn(queryFailedLogMessageConstant, append(fields, zap.Error(result.Error))...)
	case CheckOutcomeOnMainBranch:
		logger.Debug(onMainBranchLogMessageConstant, append(fields, zap.String(logFieldBranchConstant, result.BranchName))...)
	case CheckOutcomeOffMainBranch:
		fields = append(fields, zap.String(logFieldBranchConstant, result.BranchName))
		if result.Error != nil {
			logger.Warn(promptFailedLogMessageConstant, append(fields, zap.Error(result.Error))...)
			return
		}
		logger.Info(offMainBranchLogMessageConstant, append(fields, zap.String(logFieldSelectedActionConstant, result.SelectedAction))...)
		if result.Switch != nil {
			ReportSwitchResult(logger, *result.Switch)
		}
	}
}

// ReportSwitchResult logs a switch result.
func ReportSwitchResult(logger *zap.Logger, result SwitchResult) {
	if logger == nil {
		return
	}

	fields := []zap.Field{zap.String(logFieldWorkspaceConstant, result.WorkspacePath)}
	if result.Outcome == SwitchOutcomeSwitched {
		logger.Info(switchSucceededLogMessageConstant, append(fields, zap.String(logFieldBranchConstant, result.BranchName))...)
		return
	}
	logger.Warn(switchFailedLogMessageConstant, append(fields, zap.Errors(logFieldAttemptErrorsConstant, result.AttemptErrors))...)
}
