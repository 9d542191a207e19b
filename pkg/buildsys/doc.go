// Package buildsys implements the project orchestration used to build the Nova engine workspace.
// A Catalog describes the projects and their dependencies, a Resolver turns a target into an
// ordered Plan and an Orchestrator executes that plan step by step through a ProcessRunner.
// Commands are parsed and executed with mvdan.cc/sh so that they behave the same on every platform.
package buildsys
