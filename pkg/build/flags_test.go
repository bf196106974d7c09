// SPDX-License-Identifier: MIT
package build

import "testing"

func TestInitializeDefaults(t *testing.T) {
	// With no ldflags set, Initialize must leave the dev defaults intact.
	Initialize()

	info := GetInfo()
	if info.Name != "spectro" {
		t.Errorf("expected default name 'spectro', got %q", info.Name)
	}
	if info.Version != "dev" {
		t.Errorf("expected default version 'dev', got %q", info.Version)
	}
}

func TestInitializeOverrides(t *testing.T) {
	buildVersion = "1.2.3"
	buildCommit = "abc1234"
	defer func() {
		buildVersion = ""
		buildCommit = ""
		info.Version = "dev"
		info.Commit = "unknown"
	}()

	Initialize()

	got := GetInfo()
	if got.Version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", got.Version)
	}
	if got.Commit != "abc1234" {
		t.Errorf("expected commit 'abc1234', got %q", got.Commit)
	}
}
