package project

// Progress step labels, recorded in this order.
const (
	StepCreateProjectDir       = "create-project-dir"
	StepCreateProjectStructure = "create-project-structure"
	StepCreateAgentDirs        = "create-agent-dirs"
	StepWriteProjectFiles      = "write-project-files"
	StepInstallSkills          = "install-skills"
	StepInstallSkillsComplete  = "install-skills-complete"
	StepInstallOpenSpec        = "install-openspec"
	StepGitInit                = "git-init"
	StepGitInitialCommit       = "git-initial-commit"
)

// Steps returns every step label in pipeline order.
func Steps() []string {
	return []string{
		StepCreateProjectDir,
		StepCreateProjectStructure,
		StepCreateAgentDirs,
		StepWriteProjectFiles,
		StepInstallSkills,
		StepInstallSkillsComplete,
		StepInstallOpenSpec,
		StepGitInit,
		StepGitInitialCommit,
	}
}

// Logical asset paths read by the pipeline.
const (
	initTemplate           = "plans/init.md"
	creatorTemplate        = "agents/creator.md"
	creatorToolsTemplate   = "agents/creator-tools.md"
	agentsMDAsset          = "AGENTS.md"
	editorConfigAsset      = ".editorconfig"
	copilotAsset           = ".github/copilot-instructions.md"
	reliefPilotAsset       = ".github/instructions/relief-pilot.instructions.md"
	finalizeStartMessage   = "Finalizing installation..."
	finalizeSuccessMessage = "✓ Finalizing installation."
)
