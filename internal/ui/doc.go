// Package ui renders tracking reports and command activity for people at a terminal.
//
// ConsoleProgress prints one styled line per repository while
// ConsoleCommandEventLogger narrates git invocations through zap.
package ui
