// Package utils hosts the ambient helpers shared by gitrepos commands:
// the Viper backed ConfigurationLoader, the zap LoggerFactory, a
// FlushingWriter for progress output and the CommandContextAccessor.
package utils
