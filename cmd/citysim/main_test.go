package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"urban-ca/internal/persistence/snapshot"
	"urban-ca/internal/persistence/store"
	"urban-ca/internal/sims/city"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if testing.Verbose() && stderr.Len() > 0 {
		t.Log(stderr.String())
	}
	return stdout.String(), err
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "out", "city.snap")
	jsonPath := filepath.Join(dir, "city.json")
	dbPath := filepath.Join(dir, "saves.db")

	out, err := execute(t, "run", "--size", "12", "--seed", "7", "--layout", "downtown", "-g", "5",
		"--snapshot", snapPath, "--json", jsonPath, "--save", "demo", "--db", dbPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out, "generation 5: population ") {
		t.Fatalf("unexpected report %q", out)
	}

	h, err := snapshot.ReadHeader(snapPath)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Generation != 5 || h.Size != 12 || h.Seed != 7 || h.Layout != "downtown" {
		t.Fatalf("unexpected header %+v", h)
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Fatalf("json grid missing: %v", err)
	}

	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()
	snap, info, err := db.Load(context.Background(), "demo")
	if err != nil {
		t.Fatalf("load save: %v", err)
	}
	if info.Generation != 5 || snap.Header.Size != 12 {
		t.Fatalf("unexpected save %+v", info)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	args := []string{"run", "--size", "10", "--seed", "3", "--layout", "clusters", "-g", "20"}
	first, err := execute(t, args...)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := execute(t, args...)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if first != second {
		t.Fatalf("same seed produced different reports:\n%s\n%s", first, second)
	}
}

func TestRunRejectsUnknownLayout(t *testing.T) {
	_, err := execute(t, "run", "--layout", "atlantis", "-g", "1")
	if !errors.Is(err, city.ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestRunReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "citysim.yaml")
	snapPath := filepath.Join(dir, "city.snap")
	body := "city:\n  size: 9\n  seed: 11\n  layout: suburban\nlog_level: warn\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", cfgPath, "run", "-g", "2", "--snapshot", snapPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	h, err := snapshot.ReadHeader(snapPath)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Size != 9 || h.Seed != 11 || h.Layout != "suburban" {
		t.Fatalf("config not applied: %+v", h)
	}

	if _, err := execute(t, "--config", filepath.Join(dir, "missing.yaml"), "run"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestInspectReadsBothFormats(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "city.snap")
	jsonPath := filepath.Join(dir, "city.json")
	if _, err := execute(t, "run", "--size", "8", "--layout", "industrial_zone", "-g", "3",
		"--snapshot", snapPath, "--json", jsonPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, err := execute(t, "inspect", snapPath)
	if err != nil {
		t.Fatalf("inspect snapshot: %v", err)
	}
	for _, want := range []string{"snapshot v1", "layout industrial_zone", "generation 3, 8x8", "population "} {
		if !strings.Contains(out, want) {
			t.Fatalf("snapshot report missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "inspect", jsonPath)
	if err != nil {
		t.Fatalf("inspect json: %v", err)
	}
	if !strings.Contains(out, "grid document") || !strings.Contains(out, "generation 3, 8x8") {
		t.Fatalf("unexpected json report:\n%s", out)
	}

	garbage := filepath.Join(dir, "garbage.bin")
	if err := os.WriteFile(garbage, []byte("not a city"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "inspect", garbage); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestSavesListAndDelete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "saves.db")

	out, err := execute(t, "saves", "--db", dbPath)
	if err != nil {
		t.Fatalf("saves: %v", err)
	}
	if !strings.Contains(out, "no saved cities") {
		t.Fatalf("expected empty listing, got %q", out)
	}

	for _, name := range []string{"alpha", "beta"} {
		if _, err := execute(t, "run", "--size", "6", "-g", "1", "--save", name, "--db", dbPath); err != nil {
			t.Fatalf("run %s: %v", name, err)
		}
	}
	out, err = execute(t, "saves", "--db", dbPath)
	if err != nil {
		t.Fatalf("saves: %v", err)
	}
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "beta") || !strings.Contains(out, "NAME") {
		t.Fatalf("unexpected listing:\n%s", out)
	}

	if _, err := execute(t, "saves", "delete", "alpha", "--db", dbPath); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := execute(t, "saves", "delete", "alpha", "--db", dbPath); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	out, _ = execute(t, "saves", "--db", dbPath)
	if strings.Contains(out, "alpha") {
		t.Fatalf("alpha still listed:\n%s", out)
	}
}

func TestSweepRanksScenarios(t *testing.T) {
	out, err := execute(t, "sweep", "--layouts", "downtown,suburban", "--seeds", "2", "-g", "3",
		"--workers", "3", "--top", "2")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.Contains(out, "Sweeping 4 scenarios") || !strings.Contains(out, "Top 2 results") {
		t.Fatalf("unexpected sweep output:\n%s", out)
	}
	if !strings.Contains(out, " 1) ") || !strings.Contains(out, " 2) ") || strings.Contains(out, " 3) ") {
		t.Fatalf("expected exactly two ranked rows:\n%s", out)
	}

	if _, err := execute(t, "sweep", "--layouts", "atlantis"); !errors.Is(err, city.ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}

func TestServeSavesAndResumes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "saves.db")
	args := []string{"serve", "--db", dbPath, "--addr", "127.0.0.1:0", "--tps", "200", "--size", "10",
		"--layout", "mixed_development", "--max-generations", "3"}

	if _, err := execute(t, args...); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if gen := savedGeneration(t, dbPath); gen != 3 {
		t.Fatalf("expected save at generation 3, got %d", gen)
	}

	if _, err := execute(t, args...); err != nil {
		t.Fatalf("serve resume: %v", err)
	}
	if gen := savedGeneration(t, dbPath); gen != 6 {
		t.Fatalf("expected resumed save at generation 6, got %d", gen)
	}

	if _, err := execute(t, append(args, "--fresh")...); err != nil {
		t.Fatalf("serve fresh: %v", err)
	}
	if gen := savedGeneration(t, dbPath); gen != 3 {
		t.Fatalf("expected fresh save at generation 3, got %d", gen)
	}
}

func savedGeneration(t *testing.T, dbPath string) uint64 {
	t.Helper()
	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()
	_, info, err := db.Load(context.Background(), "default")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return info.Generation
}
