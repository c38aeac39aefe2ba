package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Default(t *testing.T) {
	for _, id := range []string{"", "eyes_selenium_java"} {
		r, err := Load(id)
		require.NoError(t, err)

		assert.Equal(t, "eyes_selenium_java", r.Name)
		assert.Equal(t, ".java", r.Ext)
		assert.Equal(t, "./src/test/java/coverage/generic", r.OutPath)
		require.NotEmpty(t, r.Overrides)
		assert.True(t, strings.HasSuffix(r.Overrides[0], "overrides.js"))
		assert.True(t, strings.HasSuffix(r.Emitter, "/java/emitter.js"))
		assert.True(t, strings.HasSuffix(r.Template, "/java/template.hbs"))
		assert.True(t, strings.HasSuffix(r.Tests, "/master/coverage-tests.js"))
	}
}

func TestLoad_ExecutionGrid(t *testing.T) {
	r, err := Load("eyes_selenium_java_eg")
	require.NoError(t, err)

	require.Len(t, r.Overrides, 2)
	assert.True(t, strings.HasSuffix(r.Overrides[0], "/java/overrides.js"))
	assert.True(t, strings.HasSuffix(r.Overrides[1], "/eg.overrides.js"))
	assert.Contains(t, r.Tests, "/java_emitter_workaround/")
}

func TestLoad_NotFound(t *testing.T) {
	r, err := Load("nonexistent_sdk")
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nonexistent_sdk", nf.Name)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, r.Equal(Record{}), "expected zero record on failure, got %+v", r)
}

func TestBuiltin_AllRecordsWellFormed(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, err := Load(name)
			require.NoError(t, err)

			assert.Empty(t, Validate(r))
			for _, field := range []string{r.Name, r.Emitter, r.Template, r.Tests, r.Ext, r.OutPath} {
				assert.NotEmpty(t, field)
			}
			for _, o := range r.Overrides {
				assert.NotEmpty(t, o)
			}
		})
	}
}

func TestLoad_Deterministic(t *testing.T) {
	for _, name := range Names() {
		first, err := Load(name)
		require.NoError(t, err)
		second, err := Load(name)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Load(%q) not deterministic (-first +second):\n%s", name, diff)
		}
	}
}

func TestLoad_ReturnsIndependentCopies(t *testing.T) {
	reg := Builtin()

	r, err := reg.Load("")
	require.NoError(t, err)
	r.Overrides[0] = "https://evil.example.com/overrides.js"
	r.Name = "changed"

	again, err := reg.Load("")
	require.NoError(t, err)
	assert.Equal(t, "eyes_selenium_java", again.Name)
	assert.NotEqual(t, "https://evil.example.com/overrides.js", again.Overrides[0])
}

func TestNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"eyes_selenium_java", "eyes_selenium_java_eg"}, Names())
	assert.Equal(t, DefaultTarget, Default().Name)
}

func TestNewRegistry_Errors(t *testing.T) {
	good := validRecord()
	bad := validRecord()
	bad.Name = "bad_one"
	bad.Ext = "java"

	tests := []struct {
		name        string
		defaultName string
		records     []Record
		contains    string
	}{
		{
			name:        "duplicate",
			defaultName: good.Name,
			records:     []Record{good, good},
			contains:    "duplicate target",
		},
		{
			name:        "invalid record",
			defaultName: good.Name,
			records:     []Record{good, bad},
			contains:    "invalid target 'bad_one'",
		},
		{
			name:        "unknown default",
			defaultName: "missing",
			records:     []Record{good},
			contains:    "target not found: missing",
		},
		{
			name:        "empty default",
			defaultName: "",
			records:     []Record{good},
			contains:    "default target name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defaultName, tt.records...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	r := validRecord()
	reg, err := NewRegistry(r.Name, r)
	require.NoError(t, err)

	r.Overrides[0] = "https://changed.example.com/o.js"

	got, err := reg.Load(r.Name)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/java/overrides.js", got.Overrides[0])
}

func TestMerge(t *testing.T) {
	custom := validRecord()
	custom.Name = "eyes_selenium_java"
	custom.OutPath = "./generated"

	extra := validRecord()
	extra.Name = "eyes_images_java"

	t.Run("overlay replaces records and keeps implicit default", func(t *testing.T) {
		f := File{Targets: []Record{extra, custom}}
		overlay, err := f.Registry()
		require.NoError(t, err)

		merged, err := Merge(Builtin(), overlay)
		require.NoError(t, err)

		assert.Equal(t, DefaultTarget, merged.DefaultName())
		assert.Equal(t, []string{"eyes_images_java", "eyes_selenium_java", "eyes_selenium_java_eg"}, merged.Names())

		r, err := merged.Load("eyes_selenium_java")
		require.NoError(t, err)
		assert.Equal(t, "./generated", r.OutPath)
	})

	t.Run("explicit overlay default wins", func(t *testing.T) {
		f := File{Default: extra.Name, Targets: []Record{extra}}
		overlay, err := f.Registry()
		require.NoError(t, err)

		merged, err := Merge(Builtin(), overlay)
		require.NoError(t, err)
		assert.Equal(t, "eyes_images_java", merged.Default().Name)
	})

	t.Run("nil overlay", func(t *testing.T) {
		base := Builtin()
		merged, err := Merge(base, nil)
		require.NoError(t, err)
		assert.Same(t, base, merged)
	})
}

func TestRecord_OutputFile(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		test     string
		expected string
	}{
		{"TestCheckWindow", "./src/test/java/coverage/generic/TestCheckWindow.java"},
		{"TestCheckWindow.java", "./src/test/java/coverage/generic/TestCheckWindow.java"},
		{" TestCheckRegion ", "./src/test/java/coverage/generic/TestCheckRegion.java"},
		{"../escape", "./src/test/java/coverage/generic/.._escape.java"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, r.OutputFile(tt.test), "test name %q", tt.test)
	}
}

func TestRecord_URLs(t *testing.T) {
	r, err := Load("eyes_selenium_java_eg")
	require.NoError(t, err)

	urls := r.URLs()
	require.Len(t, urls, 5)
	assert.Equal(t, r.Emitter, urls[0])
	assert.Equal(t, r.Overrides, urls[1:3])
	assert.Equal(t, r.Template, urls[3])
	assert.Equal(t, r.Tests, urls[4])
}

func TestRecord_Equal(t *testing.T) {
	a := validRecord()
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Overrides = append(b.Overrides, "https://example.com/more.js")
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Overrides[0] = "https://example.com/other.js"
	assert.False(t, a.Equal(c))
	assert.Equal(t, "https://example.com/java/overrides.js", a.Overrides[0])
}
