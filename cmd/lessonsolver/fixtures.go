package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lessonscheduler/solver/internal/catalog"
	"github.com/lessonscheduler/solver/internal/generator"
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/database"
	"github.com/lessonscheduler/solver/internal/shared/infrastructure/security"
)

// openCatalogStore opens the fixture catalog at appConfig.CatalogPath,
// creating the database and running migrations if needed.
func openCatalogStore(ctx context.Context) (*catalog.Store, error) {
	return catalog.Open(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: appConfig.CatalogPath})
}

// writeTestCase serializes tc as JSON under dir/<id>.json, validating
// that the resolved path never escapes dir.
func writeTestCase(tc generator.TestCase, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create fixture output directory: %w", err)
	}
	path, err := security.ValidateFilePathInDir(filepath.Join(dir, tc.ID+".json"), dir)
	if err != nil {
		return "", fmt.Errorf("validate fixture output path: %w", err)
	}

	raw, err := json.MarshalIndent(tc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode fixture %s: %w", tc.ID, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write fixture %s: %w", tc.ID, err)
	}
	return path, nil
}

// loadTestCase reads and decodes a single fixture JSON file.
func loadTestCase(path string) (generator.TestCase, error) {
	raw, err := security.SafeReadFile(path)
	if err != nil {
		return generator.TestCase{}, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var tc generator.TestCase
	if err := json.Unmarshal(raw, &tc); err != nil {
		return generator.TestCase{}, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return tc, nil
}

// listFixtureFiles returns every *.json path directly under dir, sorted.
func listFixtureFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list fixture directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
