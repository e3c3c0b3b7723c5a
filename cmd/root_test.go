package cmd

import (
	"strings"
	"testing"
)

// ────────────────────────────────────────────────────────────────────────────
// Stage registry
// ────────────────────────────────────────────────────────────────────────────

func TestPipelineOrderStagesExist(t *testing.T) {
	for _, name := range pipelineOrder {
		if _, ok := stages[name]; !ok {
			t.Errorf("pipeline stage %q has no implementation", name)
		}
	}
}

func TestDestroyNotInDefaultPipeline(t *testing.T) {
	for _, name := range pipelineOrder {
		if name == "destroy" {
			t.Fatal("destroy must never run as part of the default pipeline")
		}
	}
	if _, ok := stages["destroy"]; !ok {
		t.Error("destroy must still be reachable by name")
	}
}

func TestPipelineOrder(t *testing.T) {
	want := []string{
		"create-backend",
		"create-resources",
		"install-components",
		"dns-check",
		"generate-env",
		"post-install",
	}
	if len(pipelineOrder) != len(want) {
		t.Fatalf("pipelineOrder = %v, want %v", pipelineOrder, want)
	}
	for i, name := range want {
		if pipelineOrder[i] != name {
			t.Errorf("pipelineOrder[%d] = %q, want %q", i, pipelineOrder[i], name)
		}
	}
}

func TestRunStagesUnknownName(t *testing.T) {
	err := runStages([]string{"create-backend", "no-such-stage"})
	if err == nil {
		t.Fatal("runStages with unknown stage: want error")
	}
	if !strings.Contains(err.Error(), "no-such-stage") {
		t.Errorf("error = %q, want the unknown name called out", err)
	}
	if !strings.Contains(err.Error(), "create-backend") {
		t.Errorf("error = %q, want the valid stage list included", err)
	}
}

func TestStageNamesIncludesDestroy(t *testing.T) {
	names := stageNames()
	found := false
	for _, n := range names {
		if n == "destroy" {
			found = true
		}
	}
	if !found {
		t.Errorf("stageNames() = %v, want destroy listed", names)
	}
}
