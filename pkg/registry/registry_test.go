package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptsConfig() ContainerConfig {
	return ContainerConfig{
		Name:         "scripts",
		URL:          "/js",
		Path:         "/public/js",
		PrintPattern: `<script src="{{URL}}"></script>`,
		FileRegex:    `/\.js$/`,
	}
}

func stylesConfig() ContainerConfig {
	return ContainerConfig{
		Name:         "styles",
		URL:          "/css",
		Path:         "/public/css",
		PrintPattern: `<link rel="stylesheet" href="{{URL}}">`,
		FileRegex:    `/\.css$/`,
	}
}

// newTestRegistry returns a registry with scripts and styles containers
// backed by an in-memory filesystem holding both base directories.
func newTestRegistry(t *testing.T, containers ...ContainerConfig) (*Registry, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/public/js", 0o755))
	require.NoError(t, fs.MkdirAll("/public/css", 0o755))

	if len(containers) == 0 {
		containers = []ContainerConfig{scriptsConfig(), stylesConfig()}
	}
	reg, err := New(Config{Containers: containers}, WithFs(fs))
	require.NoError(t, err)
	return reg, fs
}

func TestNew_KeepsSnapshotOrder(t *testing.T) {
	reg, _ := newTestRegistry(t, stylesConfig(), scriptsConfig())
	assert.Equal(t, []string{"styles", "scripts"}, reg.ContainerNames())
}

func TestNew_DuplicateContainer(t *testing.T) {
	_, err := New(Config{Containers: []ContainerConfig{scriptsConfig(), scriptsConfig()}})
	require.ErrorIs(t, err, ErrContainerNotUnique)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, _ := newTestRegistry(t)
	b, _ := newTestRegistry(t)

	_, err := a.Add("app.js", "", Any)
	require.NoError(t, err)

	assets, err := b.Assets(Any)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestAdd_AutoResolveAndPrint(t *testing.T) {
	reg, _ := newTestRegistry(t, scriptsConfig())

	a, err := reg.Add("app.js", "", Any)
	require.NoError(t, err)
	assert.Equal(t, "scripts", a.Container())
	assert.Equal(t, "app.js", a.Name())

	out, err := reg.Print("app.js", Any, "")
	require.NoError(t, err)
	assert.Equal(t, "<script src=\"/js/app.js\"></script>\n", out)
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		ref     ContainerRef
		wantErr error
	}{
		{
			name:    "no pattern matches",
			path:    "logo.png",
			ref:     Any,
			wantErr: ErrContainerNotDeterminable,
		},
		{
			name:    "unknown container",
			path:    "app.js",
			ref:     In("fonts"),
			wantErr: ErrContainerNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _ := newTestRegistry(t)
			_, err := reg.Add(tt.path, "", tt.ref)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAdd_NameUniquePerContainer(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Add("app.js", "main", In("scripts"))
	require.NoError(t, err)

	_, err = reg.Add("other.js", "main", In("scripts"))
	require.ErrorIs(t, err, ErrAssetNameNotUnique)

	_, err = reg.Add("main.css", "main", In("styles"))
	require.NoError(t, err, "same name in a different container is allowed")
}

func TestAdd_ExplicitContainerIgnoresPattern(t *testing.T) {
	reg, _ := newTestRegistry(t)

	a, err := reg.Add("legacy.js", "", In("styles"))
	require.NoError(t, err)
	assert.Equal(t, "styles", a.Container())
}

func TestRemove(t *testing.T) {
	t.Run("by path before name", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		first, err := reg.Add("a.js", "b.js", In("scripts"))
		require.NoError(t, err)
		second, err := reg.Add("b.js", "c.js", In("scripts"))
		require.NoError(t, err)

		removed, err := reg.Remove("b.js", In("scripts"))
		require.NoError(t, err)
		assert.True(t, removed)

		assets, err := reg.Assets(In("scripts"))
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Same(t, first, assets[0])
		assert.NotSame(t, second, assets[0])
	})

	t.Run("falls back to name", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		_, err := reg.Add("vendor/jquery.min.js", "jquery", In("scripts"))
		require.NoError(t, err)

		removed, err := reg.Remove("jquery", In("scripts"))
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("nothing to remove is not an error", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		removed, err := reg.Remove("missing.js", Any)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("any matches the pattern against a display name", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		_, err := reg.Add("vendor/jquery.min.js", "jquery", In("scripts"))
		require.NoError(t, err)

		_, err = reg.Remove("jquery", Any)
		require.ErrorIs(t, err, ErrContainerNotDeterminable)
	})

	t.Run("unknown container", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		_, err := reg.Remove("app.js", In("fonts"))
		require.ErrorIs(t, err, ErrContainerNotExist)
	})
}

func TestPrint_RoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Add("app.js", "main", In("scripts"))
	require.NoError(t, err)

	out, err := reg.Print("main", In("scripts"), "")
	require.NoError(t, err)
	assert.Contains(t, out, "/js/app.js")

	removed, err := reg.Remove("main", In("scripts"))
	require.NoError(t, err)
	require.True(t, removed)

	_, err = reg.Print("main", In("scripts"), "")
	require.ErrorIs(t, err, ErrAssetNotFound)
	assert.Contains(t, err.Error(), `container "scripts"`)
}

func TestPrint_FallsBackToAllContainers(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Add("site.css", "theme", In("styles"))
	require.NoError(t, err)

	out, err := reg.Print("theme", Any, "")
	require.NoError(t, err)
	assert.Equal(t, "<link rel=\"stylesheet\" href=\"/css/site.css\">\n", out)
}

func TestPrint_DeterminedContainerIsNotWidened(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Add("legacy.js", "", In("styles"))
	require.NoError(t, err)

	_, err = reg.Print("legacy.js", Any, "")
	require.ErrorIs(t, err, ErrAssetNotFound)
}

func TestPrint_NameBeforePath(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Add("first.js", "shared", In("scripts"))
	require.NoError(t, err)
	_, err = reg.Add("shared", "second", In("scripts"))
	require.NoError(t, err)

	out, err := reg.Print("shared", In("scripts"), "{{NAME}}")
	require.NoError(t, err)
	assert.Equal(t, "shared\n", out)

	out, err = reg.Print("second", In("scripts"), "{{PATH}}")
	require.NoError(t, err)
	assert.Equal(t, "/public/js/shared\n", out)
}

func TestPrint_NotFoundAnywhere(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Print("nothing", Any, "")
	require.ErrorIs(t, err, ErrAssetNotFound)
	assert.Contains(t, err.Error(), "any container")
}

func TestPrint_CustomTemplate(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Add("lib/app.js", "app", In("scripts"))
	require.NoError(t, err)

	out, err := reg.Print("app", In("scripts"), "{{PATH}}|{{URL}}|{{URI}}|{{NAME}}")
	require.NoError(t, err)
	assert.Equal(t, "/public/js/lib/app.js|/js/lib/app.js|/js/lib/app.js|app\n", out)
}

func TestPrint_NoEscaping(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Add("a.js", `<b>"x"</b>`, In("scripts"))
	require.NoError(t, err)

	out, err := reg.Print(`<b>"x"</b>`, In("scripts"), "{{NAME}}")
	require.NoError(t, err)
	assert.Equal(t, "<b>\"x\"</b>\n", out)
}

func TestPrint_BaseURLJoining(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"/js", "app.js", "/js/app.js"},
		{"/js/", "app.js", "/js/app.js"},
		{"/js", "/app.js", "/js/app.js"},
		{"https://cdn.example.com/js/", "app.js", "https://cdn.example.com/js/app.js"},
		{"", "app.js", "app.js"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s+%s", tt.base, tt.path), func(t *testing.T) {
			reg, _ := newTestRegistry(t)
			require.NoError(t, reg.SetBaseURL(In("scripts"), tt.base))
			_, err := reg.Add(tt.path, "x", In("scripts"))
			require.NoError(t, err)

			out, err := reg.Print("x", In("scripts"), "{{URL}}")
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestPrint_Versioning(t *testing.T) {
	reg, fs := newTestRegistry(t)
	require.NoError(t, afero.WriteFile(fs, "/public/js/app.js", []byte("//"), 0o644))
	mtime := time.Unix(1718000000, 0)
	require.NoError(t, fs.Chtimes("/public/js/app.js", mtime, mtime))

	_, err := reg.Add("app.js", "", Any)
	require.NoError(t, err)
	require.NoError(t, reg.SetVersioning(In("scripts"), true))

	first, err := reg.Print("app.js", Any, "{{URL}}")
	require.NoError(t, err)
	assert.Equal(t, "/js/app.js?1718000000\n", first)

	again, err := reg.Print("app.js", Any, "{{URL}}")
	require.NoError(t, err)
	assert.Equal(t, first, again, "unchanged file keeps its suffix")

	touched := mtime.Add(90 * time.Second)
	require.NoError(t, fs.Chtimes("/public/js/app.js", touched, touched))
	after, err := reg.Print("app.js", Any, "{{URL}}")
	require.NoError(t, err)
	assert.Equal(t, "/js/app.js?1718000090\n", after)

	out, err := reg.Print("app.js", Any, "{{PATH}}")
	require.NoError(t, err)
	assert.Equal(t, "/public/js/app.js\n", out, "path never carries the suffix")
}

func TestPrint_VersionedMissingFile(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Add("ghost.js", "", Any)
	require.NoError(t, err)
	require.NoError(t, reg.SetVersioning(In("scripts"), true))

	_, err = reg.Print("ghost.js", Any, "")
	require.ErrorIs(t, err, ErrInvalidAssetPath)

	_, err = reg.PrintAll(Any)
	require.ErrorIs(t, err, ErrInvalidAssetPath)
}

func TestRenderWithoutOwner(t *testing.T) {
	reg, _ := newTestRegistry(t)
	orphan := NewAsset("x.js", "", "ghost")

	_, err := reg.renderNoLock(orphan, "")
	require.ErrorIs(t, err, ErrPrintPatternMissing)
}

func TestPrintAll_Order(t *testing.T) {
	reg, _ := newTestRegistry(t)
	for _, p := range []string{"b.js", "site.css", "a.js", "print.css", "c.js"} {
		_, err := reg.Add(p, "", Any)
		require.NoError(t, err)
	}

	got, err := reg.PrintAll(Any)
	require.NoError(t, err)

	want := "<script src=\"/js/b.js\"></script>\n" +
		"<script src=\"/js/a.js\"></script>\n" +
		"<script src=\"/js/c.js\"></script>\n" +
		"<link rel=\"stylesheet\" href=\"/css/site.css\">\n" +
		"<link rel=\"stylesheet\" href=\"/css/print.css\">\n"
	assert.Equal(t, want, got)

	styles, err := reg.PrintAll(In("styles"))
	require.NoError(t, err)
	assert.Equal(t, "<link rel=\"stylesheet\" href=\"/css/site.css\">\n<link rel=\"stylesheet\" href=\"/css/print.css\">\n", styles)

	_, err = reg.PrintAll(In("fonts"))
	require.ErrorIs(t, err, ErrContainerNotExist)
}

func TestPrintAll_Empty(t *testing.T) {
	reg, _ := newTestRegistry(t)
	out, err := reg.PrintAll(Any)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAssets(t *testing.T) {
	reg, _ := newTestRegistry(t)
	for _, p := range []string{"site.css", "app.js", "vendor.js"} {
		_, err := reg.Add(p, "", Any)
		require.NoError(t, err)
	}

	all, err := reg.Assets(Any)
	require.NoError(t, err)
	want := []*Asset{
		NewAsset("app.js", "", "scripts"),
		NewAsset("vendor.js", "", "scripts"),
		NewAsset("site.css", "", "styles"),
	}
	if diff := cmp.Diff(want, all, cmp.AllowUnexported(Asset{})); diff != "" {
		t.Errorf("Assets(Any) mismatch (-want +got):\n%s", diff)
	}

	styles, err := reg.Assets(In("styles"))
	require.NoError(t, err)
	require.Len(t, styles, 1)
	assert.Equal(t, "site.css", styles[0].Path())

	_, err = reg.Assets(In("fonts"))
	require.ErrorIs(t, err, ErrContainerNotExist)
}

func TestAddContainer(t *testing.T) {
	reg, _ := newTestRegistry(t)

	err := reg.AddContainer(ContainerConfig{
		Name:         "fonts",
		URL:          "/fonts",
		PrintPattern: `<link rel="preload" href="{{URL}}" as="font">`,
		FileRegex:    `/\.woff2?$/`,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"scripts", "styles", "fonts"}, reg.ContainerNames())

	versioned, err := reg.IsUsingVersioning("fonts")
	require.NoError(t, err)
	assert.False(t, versioned)

	a, err := reg.Add("inter.woff2", "", Any)
	require.NoError(t, err)
	assert.Equal(t, "fonts", a.Container())

	err = reg.AddContainer(ContainerConfig{Name: "fonts"})
	require.ErrorIs(t, err, ErrContainerNotUnique)
}

func TestAddContainer_WithoutPatternNeverDetected(t *testing.T) {
	reg, _ := newTestRegistry(t, ContainerConfig{Name: "misc", PrintPattern: "{{URL}}"}, scriptsConfig())

	name, ok := reg.DetermineContainer("app.js")
	require.True(t, ok)
	assert.Equal(t, "scripts", name)

	_, ok = reg.DetermineContainer("readme.txt")
	assert.False(t, ok)
}

func TestAddContainer_BadPatternDisablesDetection(t *testing.T) {
	reg, _ := newTestRegistry(t, ContainerConfig{Name: "broken", FileRegex: `/(unclosed/`}, scriptsConfig())

	name, ok := reg.DetermineContainer("(unclosed.js")
	require.True(t, ok)
	assert.Equal(t, "scripts", name)
}

func TestDetermineContainer_SelfClosingDelimiters(t *testing.T) {
	reg, _ := newTestRegistry(t,
		ContainerConfig{Name: "scripts", FileRegex: `|\.js$|`},
		ContainerConfig{Name: "styles", FileRegex: `+\.css$+`},
	)

	tests := []struct {
		file   string
		want   string
		wantOK bool
	}{
		{"app.js", "scripts", true},
		{"site.css", "styles", true},
		{"logo.png", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			name, ok := reg.DetermineContainer(tt.file)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestRemoveContainer(t *testing.T) {
	reg, _ := newTestRegistry(t, scriptsConfig())
	_, err := reg.Add("app.js", "", Any)
	require.NoError(t, err)

	require.NoError(t, reg.RemoveContainer("scripts"))
	assert.Empty(t, reg.ContainerNames())

	_, err = reg.Print("app.js", Any, "")
	require.ErrorIs(t, err, ErrAssetNotFound)

	err = reg.RemoveContainer("scripts")
	require.ErrorIs(t, err, ErrContainerNotExist)
}

func TestRemoveContainer_LeavesOthersIntact(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Add("site.css", "", Any)
	require.NoError(t, err)
	_, err = reg.Add("app.js", "", Any)
	require.NoError(t, err)

	require.NoError(t, reg.RemoveContainer("scripts"))

	out, err := reg.Print("site.css", Any, "")
	require.NoError(t, err)
	assert.Equal(t, "<link rel=\"stylesheet\" href=\"/css/site.css\">\n", out)
}

func TestDetermineContainer_FirstRegisteredWins(t *testing.T) {
	broad := ContainerConfig{Name: "everything", FileRegex: `/.*/`}
	reg, _ := newTestRegistry(t, scriptsConfig(), broad)

	for i := 0; i < 10; i++ {
		name, ok := reg.DetermineContainer("app.js")
		require.True(t, ok)
		assert.Equal(t, "scripts", name)
	}

	name, ok := reg.DetermineContainer("logo.png")
	require.True(t, ok)
	assert.Equal(t, "everything", name)
}

func TestSetBasePath(t *testing.T) {
	t.Run("invalid path changes nothing", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		before := reg.Containers()

		err := reg.SetBasePath(Any, "/does/not/exist")
		require.ErrorIs(t, err, ErrInvalidPath)
		if diff := cmp.Diff(before, reg.Containers()); diff != "" {
			t.Errorf("containers changed (-before +after):\n%s", diff)
		}
	})

	t.Run("file is not a directory", func(t *testing.T) {
		reg, fs := newTestRegistry(t)
		require.NoError(t, afero.WriteFile(fs, "/public/file", []byte("x"), 0o644))

		err := reg.SetBasePath(In("scripts"), "/public/file")
		require.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("applies to every container", func(t *testing.T) {
		reg, fs := newTestRegistry(t)
		require.NoError(t, fs.MkdirAll("/srv/static", 0o755))

		require.NoError(t, reg.SetBasePath(Any, "/srv/static"))
		for _, c := range reg.Containers() {
			assert.Equal(t, "/srv/static", c.Path, c.Name)
		}
	})

	t.Run("empty path skips the check", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		require.NoError(t, reg.SetBasePath(In("styles"), ""))

		infos := reg.Containers()
		assert.Equal(t, "/public/js", infos[0].Path)
		assert.Equal(t, "", infos[1].Path)
	})

	t.Run("unknown container", func(t *testing.T) {
		reg, _ := newTestRegistry(t)
		err := reg.SetBasePath(In("fonts"), "/public/js")
		require.ErrorIs(t, err, ErrContainerNotExist)
	})
}

func TestSetBaseURLAndVersioning(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.SetBaseURL(Any, "https://cdn.example.com"))
	require.NoError(t, reg.SetVersioning(In("styles"), true))

	infos := reg.Containers()
	assert.Equal(t, "https://cdn.example.com", infos[0].URL)
	assert.Equal(t, "https://cdn.example.com", infos[1].URL)

	on, err := reg.IsUsingVersioning("styles")
	require.NoError(t, err)
	assert.True(t, on)
	off, err := reg.IsUsingVersioning("scripts")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = reg.IsUsingVersioning("fonts")
	require.ErrorIs(t, err, ErrContainerNotExist)
	require.ErrorIs(t, reg.SetBaseURL(In("fonts"), "/"), ErrContainerNotExist)
	require.ErrorIs(t, reg.SetVersioning(In("fonts"), true), ErrContainerNotExist)
}

func TestConcurrentUse(t *testing.T) {
	reg, _ := newTestRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				path := fmt.Sprintf("w%d/f%d.js", i, j)
				if _, err := reg.Add(path, "", Any); err != nil {
					t.Errorf("Add(%q) error: %v", path, err)
					return
				}
				if _, err := reg.Print(path, Any, ""); err != nil && !errors.Is(err, ErrAssetNotFound) {
					t.Errorf("Print(%q) error: %v", path, err)
				}
				_, _ = reg.PrintAll(Any)
			}
		}(i)
	}
	wg.Wait()

	assets, err := reg.Assets(In("scripts"))
	require.NoError(t, err)
	assert.Len(t, assets, 400)
}
