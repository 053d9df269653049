// Package constants defines shared constants used throughout the premo packages.
package constants

import "os"

// Development is the EnvironmentEnvVar value for development mode.
const Development = "DEV"

// EnvironmentEnvVar names the deployment environment.
const EnvironmentEnvVar = "ENVIRONMENT"

// ConfigEnvVar is the environment variable name for the host configuration file path.
const ConfigEnvVar = "PREMO_CONFIG"

// LogLevelEnvVar overrides the configured application log level.
const LogLevelEnvVar = "PREMO_LOG_LEVEL"

// InternalDebugEnvVar enables debug logging of lifecycle and navigation internals.
const InternalDebugEnvVar = "PREMO_DEBUG"

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

// Default keys under which navigators persist their state in the host's scope.
const (
	StackNavigatorKey        = "stack_navigator_backstack"
	SetNavigatorKey          = "set_navigator_current"
	MasterDetailNavigatorKey = "master_detail_navigator_detail"
	DialogNavigatorKey       = "dialog_navigator_dialog"
)

// RootTag is the tag of every root presentation model.
const RootTag = "root"

// TagSeparator joins a parent tag and a child key.
const TagSeparator = "/"
