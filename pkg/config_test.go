package hashval

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "hashval.ini")

	// Load config (should create default)
	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	all := config.GetAllConfig()
	if all.Digest.Algorithm != "md5" {
		t.Errorf("Expected default digest algorithm 'md5', got '%s'", all.Digest.Algorithm)
	}
	if all.Output.Format != FormatHex {
		t.Errorf("Expected default output format 'hex', got '%s'", all.Output.Format)
	}
	if all.Performance.HashWorkers != 4 || all.Performance.HashBuffer != "1K" {
		t.Errorf("Unexpected performance defaults: %+v", all.Performance)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
}

func TestConfigWithoutPath(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if config.GetDigestConfig().Algorithm != "md5" {
		t.Error("Expected defaults without a config path")
	}
	if err := config.SetOutputFormat(FormatDec); err != nil {
		t.Errorf("SetOutputFormat() without a path should not fail: %v", err)
	}
	if config.GetOutputConfig().Format != FormatDec {
		t.Error("Expected in-memory setting to apply")
	}
}

func TestConfigPersistence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "hashval.ini")
	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}

	if err := config.SetOutputFormat(FormatMultihash); err != nil {
		t.Fatalf("SetOutputFormat() error = %v", err)
	}
	if err := config.SetHashWorkers(8); err != nil {
		t.Fatalf("SetHashWorkers() error = %v", err)
	}
	if err := config.SetDigestAlgorithm("bogus"); err == nil {
		t.Error("Expected invalid algorithm to be rejected")
	}
	if err := config.SetHashWorkers(0); err == nil {
		t.Error("Expected 0 workers to be rejected")
	}

	reloaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.GetOutputConfig().Format != FormatMultihash {
		t.Errorf("Expected format to persist, got %s", reloaded.GetOutputConfig().Format)
	}
	if reloaded.GetPerformanceConfig().HashWorkers != 8 {
		t.Errorf("Expected workers to persist, got %d", reloaded.GetPerformanceConfig().HashWorkers)
	}
}

func TestConfigOverrides(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "hashval.ini"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	err = config.ApplyOverrides([]string{
		"algorithm:none",
		"format:dec",
		"level:2",
		"debug:vfs,manifest",
		"hash_workers:2",
		"hash_buffer:4K",
	})
	if err != nil {
		t.Fatalf("Failed to apply overrides: %v", err)
	}

	all := config.GetAllConfig()
	if all.Digest.Algorithm != "none" {
		t.Errorf("Expected algorithm 'none' after override, got '%s'", all.Digest.Algorithm)
	}
	if all.Output.Format != FormatDec {
		t.Errorf("Expected format 'dec' after override, got '%s'", all.Output.Format)
	}
	if all.Verbose.Level != 2 || all.Verbose.Debug != "vfs,manifest" {
		t.Errorf("Unexpected verbose config after override: %+v", all.Verbose)
	}
	if all.Performance.HashWorkers != 2 || all.Performance.HashBuffer != "4K" {
		t.Errorf("Unexpected performance config after override: %+v", all.Performance)
	}

	hasher, err := config.NewHasherFromConfig(nil)
	if err != nil {
		t.Fatalf("NewHasherFromConfig() error = %v", err)
	}
	if hasher.Provider != nil {
		t.Error("Expected nil provider for algorithm 'none'")
	}
	if hasher.BufferSize != 4096 {
		t.Errorf("Expected buffer size 4096, got %d", hasher.BufferSize)
	}
}

func TestConfigInvalidOverrides(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}

	for _, override := range []string{"nocolon", "unknown:value"} {
		if err := config.ApplyOverrides([]string{override}); err == nil {
			t.Errorf("Expected override %q to fail", override)
		}
	}

	if err := config.ApplyOverrides([]string{"format:xml"}); err != nil {
		t.Fatal(err)
	}
	if err := config.Validate(); err == nil {
		t.Error("Expected Validate() to reject format 'xml'")
	}
}

func TestValidators(t *testing.T) {
	for _, format := range []string{"hex", "DEC", "bin", "multihash"} {
		if err := ValidateOutputFormat(format); err != nil {
			t.Errorf("Format %q should be valid: %v", format, err)
		}
	}
	if ValidateOutputFormat("json") == nil {
		t.Error("Format 'json' should be invalid")
	}
	if ValidateVerboseLevel(4) == nil || ValidateVerboseLevel(-1) == nil {
		t.Error("Expected verbose levels outside 0-3 to be invalid")
	}
	if ValidateHashWorkers(65) == nil {
		t.Error("Expected 65 workers to be invalid")
	}
}
