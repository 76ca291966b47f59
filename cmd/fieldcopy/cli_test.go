package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
	"github.com/arthur-debert/fieldcopy/fieldcopy/store"
	"github.com/arthur-debert/fieldcopy/testutil"
	"github.com/arthur-debert/fieldcopy/types"
)

// isolate keeps config discovery and log files inside temp directories
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, name := range []string{"FIELDCOPY_CONFIG", "FIELDCOPY_CATALOG", "FIELDCOPY_STORE", "FIELDCOPY_FORMAT", "FIELDCOPY_TARGET"} {
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
}

func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := NewCLI(&stdout, &stderr).Execute(args)
	return stdout.String(), stderr.String(), code
}

// seedStoreFile writes the sample options and one empty record to a store file
func seedStoreFile(t *testing.T) (string, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	st := store.OpenJSONFile(path)
	defer func() { _ = st.Close() }()

	for key, value := range testutil.SampleOptions() {
		require.NoError(t, st.SetOption(ctx, key, value))
	}
	id, err := st.Create(ctx, "Landing page")
	require.NoError(t, err)
	return path, id
}

func decodeReport(t *testing.T, out string) migration.Report {
	t.Helper()
	var report migration.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	return report
}

func readTarget(t *testing.T, path, id, key string) interface{} {
	t.Helper()
	st := store.OpenJSONFile(path)
	defer func() { _ = st.Close() }()
	v, err := st.Read(context.Background(), key, types.Locator(id))
	require.NoError(t, err)
	return v
}

func TestRunCommand(t *testing.T) {
	isolate(t)

	t.Run("dry run reports without writing", func(t *testing.T) {
		path, id := seedStoreFile(t)
		out, stderr, code := execute(t, "run",
			"--catalog", testutil.CatalogDir(), "--store", path, "--target", id,
			"--dry-run", "--format", "json")
		require.Equal(t, migration.CodeSuccess, code, stderr)

		report := decodeReport(t, out)
		assert.True(t, report.DryRun)
		assert.Equal(t, types.Locator(id), report.Target)
		assert.Equal(t, migration.Totals{Groups: 2, Fields: 12, NonEmpty: 9, WouldUpdate: 9, Skipped: 4}, report.Totals)
		assert.Nil(t, readTarget(t, path, id, "field_site_title"))
	})

	t.Run("copy writes the target", func(t *testing.T) {
		path, id := seedStoreFile(t)
		out, stderr, code := execute(t, "run",
			"--catalog", testutil.CatalogDir(), "--store", path, "--target", id, "--format", "json")
		require.Equal(t, migration.CodeSuccess, code, stderr)

		report := decodeReport(t, out)
		assert.Equal(t, 9, report.Totals.Updated)
		assert.Equal(t, "Example Site", readTarget(t, path, id, "field_site_title"))
		assert.Equal(t, float64(0), readTarget(t, path, id, "field_visits"))
		assert.Nil(t, readTarget(t, path, id, "field_show_badge"))
	})

	t.Run("group selection", func(t *testing.T) {
		path, id := seedStoreFile(t)
		out, _, code := execute(t, "run",
			"--catalog", testutil.CatalogDir(), "--store", path, "--target", id,
			"--groups", `["group_footer"]`, "--dry-run", "--format", "json")
		require.Equal(t, migration.CodeSuccess, code)

		report := decodeReport(t, out)
		require.Len(t, report.Groups, 1)
		assert.Equal(t, "group_footer", report.Groups[0].GroupKey)
		assert.Equal(t, "ids", report.Notes.Selector)
	})

	t.Run("unknown target", func(t *testing.T) {
		path, _ := seedStoreFile(t)
		out, _, code := execute(t, "run",
			"--catalog", testutil.CatalogDir(), "--store", path, "--target", "404", "--format", "json")
		assert.Equal(t, migration.CodeValidationError, code)

		report := decodeReport(t, out)
		assert.Contains(t, report.Error, `"404"`)
		assert.Empty(t, report.Groups)
	})

	t.Run("missing catalog flag", func(t *testing.T) {
		path, id := seedStoreFile(t)
		_, stderr, code := execute(t, "run", "--store", path, "--target", id)
		assert.Equal(t, migration.CodeValidationError, code)
		assert.Contains(t, stderr, "--catalog is required")
		assert.Contains(t, stderr, "FIELDCOPY_CATALOG")
	})

	t.Run("unreadable catalog", func(t *testing.T) {
		path, id := seedStoreFile(t)
		_, stderr, code := execute(t, "run", "--catalog", filepath.Join(t.TempDir(), "nope"), "--store", path, "--target", id)
		assert.Equal(t, migration.CodeValidationError, code)
		assert.Contains(t, stderr, "not found")
	})

	t.Run("unknown format", func(t *testing.T) {
		path, id := seedStoreFile(t)
		_, stderr, code := execute(t, "run",
			"--catalog", testutil.CatalogDir(), "--store", path, "--target", id, "--format", "xml")
		assert.Equal(t, migration.CodeValidationError, code)
		assert.Contains(t, stderr, "unknown format")
		assert.Nil(t, readTarget(t, path, id, "field_site_title"), "nothing is copied")
	})
}

func TestRunCommandFromEnvironment(t *testing.T) {
	isolate(t)
	path, id := seedStoreFile(t)
	t.Setenv("FIELDCOPY_CATALOG", testutil.CatalogDir())
	t.Setenv("FIELDCOPY_STORE", path)

	out, stderr, code := execute(t, "run", "--target", id, "--dry-run")
	require.Equal(t, migration.CodeSuccess, code, stderr)
	assert.True(t, strings.HasPrefix(out, "dry run: option -> "+id))
	assert.Contains(t, out, "Site settings [group_site]")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fieldcopy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPresetCommand(t *testing.T) {
	isolate(t)
	path, id := seedStoreFile(t)
	config := writeConfig(t, `catalog: `+testutil.CatalogDir()+`
store: `+path+`
format: json
preset:
  target: "`+id+`"
  groups:
    - group_footer
`)

	t.Run("dry run by default", func(t *testing.T) {
		out, stderr, code := execute(t, "preset", "--config", config)
		require.Equal(t, migration.CodeSuccess, code, stderr)

		report := decodeReport(t, out)
		assert.True(t, report.DryRun)
		assert.Equal(t, types.OptionScope, report.Source)
		assert.Equal(t, 1, report.Totals.Groups)
		assert.Equal(t, 3, report.Totals.WouldUpdate)
	})

	t.Run("config from environment", func(t *testing.T) {
		t.Setenv("FIELDCOPY_CONFIG", config)
		out, _, code := execute(t, "preset")
		require.Equal(t, migration.CodeSuccess, code)
		assert.Equal(t, 1, decodeReport(t, out).Totals.Groups)
	})

	t.Run("flag turns the dry run off", func(t *testing.T) {
		out, _, code := execute(t, "preset", "--config", config, "--dry-run=false")
		require.Equal(t, migration.CodeSuccess, code)

		report := decodeReport(t, out)
		assert.False(t, report.DryRun)
		assert.Equal(t, 3, report.Totals.Updated)
		assert.Equal(t, "© Example", readTarget(t, path, id, "field_footer_note"))
	})

	t.Run("missing config file", func(t *testing.T) {
		_, stderr, code := execute(t, "preset", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Equal(t, migration.CodeValidationError, code)
		assert.Contains(t, stderr, "read configuration")
	})

	t.Run("no target configured", func(t *testing.T) {
		bare := writeConfig(t, "catalog: "+testutil.CatalogDir()+"\nstore: "+path+"\nformat: json\n")
		out, _, code := execute(t, "preset", "--config", bare)
		assert.Equal(t, migration.CodeValidationError, code)
		assert.NotEmpty(t, decodeReport(t, out).Error)
	})

	t.Run("groups as a list of keys", func(t *testing.T) {
		listPath, listID := seedStoreFile(t)
		listConfig := writeConfig(t, "catalog: "+testutil.CatalogDir()+"\nstore: "+listPath+"\nformat: json\n"+
			"preset:\n  target: \""+listID+"\"\n  dry_run: false\n  groups: [group_site, group_footer]\n")

		out, stderr, code := execute(t, "preset", "--config", listConfig)
		require.Equal(t, migration.CodeSuccess, code, stderr)

		report := decodeReport(t, out)
		assert.False(t, report.DryRun)
		assert.Equal(t, "ids", report.Notes.Selector)
		assert.Equal(t, 2, report.Totals.Groups)
		assert.Equal(t, 9, report.Totals.Updated)
	})

	t.Run("groups as a comma separated string", func(t *testing.T) {
		stringConfig := writeConfig(t, "catalog: "+testutil.CatalogDir()+"\nstore: "+path+"\nformat: json\n"+
			"preset:\n  target: \""+id+"\"\n  groups: group_site,group_footer\n")

		out, stderr, code := execute(t, "preset", "--config", stringConfig)
		require.Equal(t, migration.CodeSuccess, code, stderr)

		report := decodeReport(t, out)
		assert.True(t, report.DryRun)
		assert.Equal(t, 2, report.Totals.Groups)
	})

	t.Run("unset groups select every group", func(t *testing.T) {
		allConfig := writeConfig(t, "catalog: "+testutil.CatalogDir()+"\nstore: "+path+"\nformat: json\n"+
			"preset:\n  target: \""+id+"\"\n")

		out, stderr, code := execute(t, "preset", "--config", allConfig)
		require.Equal(t, migration.CodeSuccess, code, stderr)

		report := decodeReport(t, out)
		assert.True(t, report.DryRun)
		assert.Equal(t, types.OptionScope, report.Source)
		assert.Equal(t, "all", report.Notes.Selector)
		assert.Equal(t, 2, report.Totals.Groups)
	})
}

func TestGroupsCommand(t *testing.T) {
	isolate(t)

	out, stderr, code := execute(t, "groups", "--catalog", testutil.CatalogDir())
	require.Equal(t, migration.CodeSuccess, code, stderr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "KEY"))
	assert.Contains(t, lines[1], "group_site")
	assert.Contains(t, lines[1], "Site settings")

	out, _, code = execute(t, "groups", "--catalog", testutil.CatalogDir(), "--format", "json")
	require.Equal(t, migration.CodeSuccess, code)
	var listing []groupListing
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Equal(t, []groupListing{
		{Key: "group_site", Title: "Site settings", Fields: 4},
		{Key: "group_footer", Title: "Footer", Fields: 5},
	}, listing)
}

func TestRecordsAndOptionsCommands(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "store.json")

	out, stderr, code := execute(t, "records", "create", "--store", path, "--title", "About")
	require.Equal(t, migration.CodeSuccess, code, stderr)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, _, code = execute(t, "records", "list", "--store", path, "--format", "json")
	require.Equal(t, migration.CodeSuccess, code)
	var listing []recordListing
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, id, listing[0].ID)
	assert.Equal(t, "About", listing[0].Title)

	_, _, code = execute(t, "options", "set", "--store", path, "field_hero", `{"heading": "Hi"}`)
	require.Equal(t, migration.CodeSuccess, code)
	_, _, code = execute(t, "options", "set", "--store", path, "field_title", "plain text")
	require.Equal(t, migration.CodeSuccess, code)

	st := store.OpenJSONFile(path)
	defer func() { _ = st.Close() }()
	hero, err := st.Read(context.Background(), "field_hero", types.OptionScope)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"heading": "Hi"}, hero)
	title, err := st.Read(context.Background(), "field_title", types.OptionScope)
	require.NoError(t, err)
	assert.Equal(t, "plain text", title)
}

func TestVerboseLogging(t *testing.T) {
	isolate(t)

	_, stderr, code := execute(t, "groups", "--catalog", testutil.CatalogDir(), "--verbose", "--log-level", "debug")
	require.Equal(t, migration.CodeSuccess, code)
	assert.Contains(t, stderr, "catalog loaded")
	assert.Contains(t, stderr, "missing_field")

	logFile := filepath.Join(getXDGCacheDir(), "fieldcopy.log")
	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"catalog loaded"`)
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("FIELDCOPY_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("FIELDCOPY_DOTENV_PROBE"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FIELDCOPY_DOTENV_PROBE=from-file\n"), 0644))

	loadDotEnv(path)
	assert.Equal(t, "from-file", os.Getenv("FIELDCOPY_DOTENV_PROBE"))

	// missing files are ignored
	loadDotEnv(filepath.Join(t.TempDir(), ".env"))
}

func TestCLIError(t *testing.T) {
	err := NewConfigError("run migration", "--target is required", "Pass --target")
	assert.Equal(t, "Failed to run migration: configuration error: --target is required\n\nSuggestions:\n  1. Pass --target", err.Error())
	assert.Equal(t, migration.CodeValidationError, exitCode(err))

	underlying := errors.New("could not acquire file lock")
	wrapped := WrapError("list records", underlying)
	var cliErr *CLIError
	require.True(t, errors.As(wrapped, &cliErr))
	assert.Equal(t, "store is currently locked by another process", cliErr.Cause)
	assert.ErrorIs(t, wrapped, underlying)
	assert.Equal(t, migration.CodeExecutionError, exitCode(wrapped))

	assert.Equal(t, migration.CodeExecutionError, exitCode(errors.New("boom")))
	assert.Nil(t, WrapError("noop", nil))
}
