//go:build !windows

package cmd

func enableVirtualTerminal() {}
