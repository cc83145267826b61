package types

// InstallState mirrors dpkg's package status states (spec.md §4.8).
type InstallState string

const (
	StateNotInstalled    InstallState = "not-installed"
	StateConfigFiles     InstallState = "config-files"
	StateHalfInstalled   InstallState = "half-installed"
	StateUnpacked        InstallState = "unpacked"
	StateHalfConfigured  InstallState = "half-configured"
	StateTriggerAwaited  InstallState = "trigger-awaited"
	StateTriggerPending  InstallState = "trigger-pending"
	StateInstalled       InstallState = "installed"
)

// PkgStatus is one entry of the installed-state map the Planner boundary
// diffs the resolved set against.
type PkgStatus struct {
	Version     Version
	InstallSize int64
	State       InstallState
	Essential   bool
}
