package fileproc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probeworks/gapscan/pkg/parser"
)

func TestMapFiles_PerWorkerParser(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		p := filepath.Join(dir, fmt.Sprintf("f%d.go", i))
		src := fmt.Sprintf("package p%d\n\nfunc f%d() {}\n", i, i)
		require.NoError(t, os.WriteFile(p, []byte(src), 0644))
		paths = append(paths, p)
	}

	results := MapFiles(paths, func(psr *parser.Parser, path string) (parser.Language, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		res, err := psr.ParseSource(path, src)
		if err != nil {
			return "", err
		}
		defer res.Tree.Close()
		return res.Language, nil
	})

	require.Len(t, results, len(paths))
	for _, lang := range results {
		assert.Equal(t, parser.LangGo, lang)
	}
}

func TestMapFilesWithProgress_TicksPerFile(t *testing.T) {
	var ticks atomic.Int32
	results := MapFilesWithProgress([]string{"a", "b"}, func(_ *parser.Parser, path string) (string, error) {
		return path, nil
	}, func() { ticks.Add(1) })

	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), ticks.Load())
}

func TestForEachFileWithProgress_TicksPerFile(t *testing.T) {
	var ticks atomic.Int32
	results := ForEachFileWithProgress([]string{"a", "b", "c"}, func(path string) (string, error) {
		return path, nil
	}, func() { ticks.Add(1) })

	assert.Len(t, results, 3)
	assert.Equal(t, int32(3), ticks.Load())
}

func TestForEachFile_CollectsAllResults(t *testing.T) {
	files := []string{"a", "b", "c", "d"}
	results := ForEachFile(files, func(path string) (string, error) {
		return path + "!", nil
	})

	require.Len(t, results, len(files))
	sort.Strings(results)
	assert.Equal(t, []string{"a!", "b!", "c!", "d!"}, results)
}

func TestForEachFileN_ErrorCallback(t *testing.T) {
	files := []string{"ok", "bad", "ok2"}
	var failed atomic.Int32
	results := ForEachFileN(files, 2, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("boom")
		}
		return path, nil
	}, nil, func(path string, err error) {
		assert.Equal(t, "bad", path)
		failed.Add(1)
	})

	assert.Len(t, results, 2)
	assert.Equal(t, int32(1), failed.Load())
}

func TestForEachFileN_ProgressCountsFailures(t *testing.T) {
	files := []string{"a", "b", "c"}
	var ticks atomic.Int32
	ForEachFileN(files, 1, func(path string) (struct{}, error) {
		if path == "b" {
			return struct{}{}, errors.New("boom")
		}
		return struct{}{}, nil
	}, func() { ticks.Add(1) }, nil)

	assert.Equal(t, int32(len(files)), ticks.Load(), "failures still tick progress")
}

func TestForEachFile_EmptyInput(t *testing.T) {
	results := ForEachFile(nil, func(string) (int, error) { return 0, nil })
	assert.Nil(t, results)
}
