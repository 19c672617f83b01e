// Package cli constructs the gitrepos command-line interface. It wires the
// Cobra command hierarchy to the Viper configuration loader and the zap
// logger, and registers the track command with its console renderers.
package cli
